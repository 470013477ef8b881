package engine

// Spectrum holds one frame of frequency magnitudes on the byte scale
// (0..255 per bin, lowest frequencies first). The audio layer produces a
// fresh one every frame; the engine only ever reads it.
type Spectrum []float64

// Bands are the reduced energies of a spectrum, on the same byte scale.
type Bands struct {
	Bass    float64
	Mid     float64
	Treble  float64
	Overall float64
}

// Norm returns the bands scaled from the byte range onto [0,1].
func (b Bands) Norm() Bands {
	return Bands{
		Bass:    clamp01(b.Bass / 255),
		Mid:     clamp01(b.Mid / 255),
		Treble:  clamp01(b.Treble / 255),
		Overall: clamp01(b.Overall / 255),
	}
}

// ReduceBands splits a spectrum into bass/mid/treble averages plus the
// overall mean. The first BassFraction of the bins is bass, the next
// MidFraction is mid, the rest treble; every band spans at least one bin.
// An empty spectrum reduces to all-zero bands.
func ReduceBands(s Spectrum) Bands {
	n := len(s)
	if n == 0 {
		return Bands{}
	}
	bassEnd := int(float64(n) * BassFraction)
	if bassEnd < 1 {
		bassEnd = 1
	}
	if bassEnd > n {
		bassEnd = n
	}
	midEnd := bassEnd + int(float64(n)*MidFraction)
	if midEnd <= bassEnd {
		midEnd = bassEnd + 1
	}
	if midEnd > n {
		midEnd = n
	}
	return Bands{
		Bass:    mean(s[:bassEnd]),
		Mid:     mean(s[bassEnd:midEnd]),
		Treble:  mean(s[midEnd:]),
		Overall: mean(s),
	}
}

func mean(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// sampleFreq returns the normalized spectrum value backing instance i of
// count, the same bin MixColor sees for that instance.
func sampleFreq(s Spectrum, i, count int) float64 {
	if len(s) == 0 || count <= 0 || i < 0 {
		return 0
	}
	idx := i * len(s) / count
	if idx >= len(s) {
		idx = len(s) - 1
	}
	return clamp01(s[idx] / 255)
}

// sampleFreqWrap returns the normalized spectrum value at index i mod N,
// the per-vertex sampling rule of the surface path.
func sampleFreqWrap(s Spectrum, i int) float64 {
	if len(s) == 0 || i < 0 {
		return 0
	}
	return clamp01(s[i%len(s)] / 255)
}
