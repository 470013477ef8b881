package audio

import (
	"encoding/binary"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

const (
	fftSize = 2048

	// NumBins is the number of frequency bins every source produces per
	// analysis window.
	NumBins = fftSize / 2

	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

// Analyzer converts raw PCM into a byte-scale frequency spectrum: the most
// recent samples are Hann-windowed and transformed, the magnitudes smoothed
// over time, and the decibel range [-100,-30] mapped onto 0..255 per bin.
// Writers (playback tap, capture callback) and the reader (render loop) run
// on different goroutines.
type Analyzer struct {
	mu     sync.Mutex
	ring   []float64 // latest mono samples, ring of fftSize
	w      int       // write position
	fill   int       // valid samples, up to fftSize
	window []float64
	frame  []float64 // windowed copy handed to the FFT
	smooth []float64 // magnitudes after temporal smoothing
}

// NewAnalyzer returns an Analyzer with a precomputed Hann window.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		ring:   make([]float64, fftSize),
		window: make([]float64, fftSize),
		frame:  make([]float64, fftSize),
		smooth: make([]float64, NumBins),
	}
	for i := range a.window {
		a.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}
	return a
}

// WritePCM16 mixes interleaved 16-bit little-endian PCM down to mono and
// appends it to the analysis window. Trailing bytes short of a full frame
// are dropped.
func (a *Analyzer) WritePCM16(p []byte, channels int) {
	if channels <= 0 {
		channels = 1
	}
	frameBytes := channels * 2
	a.mu.Lock()
	for off := 0; off+frameBytes <= len(p); off += frameBytes {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(int16(binary.LittleEndian.Uint16(p[off+c*2:])))
		}
		a.push(sum / (32768 * float64(channels)))
	}
	a.mu.Unlock()
}

// WriteFloat32 mixes interleaved [-1,1] samples down to mono and appends
// them to the analysis window.
func (a *Analyzer) WriteFloat32(samples []float32, channels int) {
	if channels <= 0 {
		channels = 1
	}
	a.mu.Lock()
	for off := 0; off+channels <= len(samples); off += channels {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(samples[off+c])
		}
		a.push(sum / float64(channels))
	}
	a.mu.Unlock()
}

func (a *Analyzer) push(v float64) {
	a.ring[a.w] = v
	a.w = (a.w + 1) % fftSize
	if a.fill < fftSize {
		a.fill++
	}
}

// Spectrum analyzes the latest window and fills dst with NumBins byte-scale
// levels, reallocating dst when it is too small. An under-filled window is
// zero-padded at the old end, so a fresh Analyzer reports silence.
func (a *Analyzer) Spectrum(dst []float64) []float64 {
	if cap(dst) < NumBins {
		dst = make([]float64, NumBins)
	}
	dst = dst[:NumBins]

	a.mu.Lock()
	pad := fftSize - a.fill
	for i := 0; i < pad; i++ {
		a.frame[i] = 0
	}
	start := (a.w - a.fill + fftSize) % fftSize
	for i := 0; i < a.fill; i++ {
		a.frame[pad+i] = a.ring[(start+i)%fftSize] * a.window[pad+i]
	}

	spec := fft.FFTReal(a.frame)
	for k := 0; k < NumBins; k++ {
		mag := cmplx.Abs(spec[k]) / fftSize
		a.smooth[k] = smoothing*a.smooth[k] + (1-smoothing)*mag
		dst[k] = byteLevel(a.smooth[k])
	}
	a.mu.Unlock()
	return dst
}

// byteLevel maps a linear magnitude onto the 0..255 decibel scale.
func byteLevel(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	if db <= minDecibels {
		return 0
	}
	if db >= maxDecibels {
		return 255
	}
	return math.Floor((db - minDecibels) / (maxDecibels - minDecibels) * 255)
}
