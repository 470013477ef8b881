package engine

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode picks the placement formula for the instance cloud. Surface is the
// odd one out: it deforms a mesh instead of placing instances, so the tick
// skips the generators entirely for it.
type Mode uint8

const (
	ModeOrbit Mode = iota
	ModeWave
	ModeGrid
	ModeChaos
	ModeFerrofluid
	ModeSurface
	modeCount
)

var modeNames = [...]string{"orbit", "wave", "grid", "chaos", "ferrofluid", "surface"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "orbit"
}

func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeOrbit, fmt.Errorf("unknown mode %q", s)
}

// Instance is one particle's draw state for the current frame. The whole
// set is recomputed every frame; nothing is interpolated instance-to-
// instance, only the underlying signals are smoothed.
type Instance struct {
	Pos   mgl64.Vec3
	Scale float64
	Spin  float64
	Freq  float64
	Color RGB
}

// genInput is the read-only per-frame context shared by every instance.
// The instance loop runs generators concurrently, so nothing in here may
// be written after the loop starts.
type genInput struct {
	time     float64
	frame    uint64
	seed     uint64
	preset   *Preset
	sig      Signals
	bands    Bands // byte scale
	norm     Bands // bands normalized to [0,1]
	spectrum Spectrum
	primary  RGB // preset colors after the frame's hue rotation
	second   RGB
	ptrX     float64 // pointer projected into instance world units
	ptrY     float64
}

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

func orbitPos(in *genInput, i, count int) mgl64.Vec3 {
	fi := float64(i)
	theta := fi*0.1 + in.time*(in.preset.RotationSpeed+in.sig.Mood)
	phi := fi*0.05 + in.time*0.5
	r := OrbitBaseRadius + in.norm.Bass*(5+in.sig.Mood*10) + hashSigned(in.seed, i, 0)*in.sig.Mood*2
	return mgl64.Vec3{math.Sin(theta) * r, math.Sin(phi) * r * 0.5, math.Cos(theta) * r}
}

func wavePos(in *genInput, i, count int) mgl64.Vec3 {
	rows := (count + WaveGridWidth - 1) / WaveGridWidth
	x := (float64(i%WaveGridWidth) - WaveGridWidth/2) * WaveSpacing
	z := (float64(i/WaveGridWidth) - float64(rows)/2) * WaveSpacing
	amp := 2 + in.norm.Bass*(3+in.sig.Mood*5)
	y := math.Sin(x*0.3+in.time*2)*amp + sampleFreq(in.spectrum, i, count)*3
	return mgl64.Vec3{x, y, z}
}

func gridPos(in *genInput, i, count int) mgl64.Vec3 {
	side := int(math.Round(math.Cbrt(float64(count))))
	if side < 1 {
		side = 1
	}
	spacing := GridBaseSpacing + in.norm.Bass*in.sig.Mood*2
	half := float64(side-1) / 2
	p := mgl64.Vec3{
		(float64(i%side) - half) * spacing,
		(float64((i/side)%side) - half) * spacing,
		(float64(i/(side*side)) - half) * spacing,
	}
	if in.sig.Mood > GridJitterMood {
		amp := (in.sig.Mood - GridJitterMood) * 2
		p[0] += hashSigned(in.seed+1, i, int(in.frame)) * amp
		p[1] += hashSigned(in.seed+2, i, int(in.frame)) * amp
		p[2] += hashSigned(in.seed+3, i, int(in.frame)) * amp
	}
	return p
}

func chaosPos(in *genInput, i, count int) mgl64.Vec3 {
	fi := float64(i)
	expl := 1 + (clampF(in.bands.Bass, 0, 255)/50)*(0.5+in.sig.Mood)
	return mgl64.Vec3{
		math.Sin(fi*1.1) * 10 * expl,
		math.Cos(fi*1.7) * 10 * expl,
		math.Sin(fi*2.3) * 10 * expl,
	}
}

func ferroPos(in *genInput, i, count int) mgl64.Vec3 {
	// Golden-angle spiral covers the sphere evenly for any count.
	t := 0.5
	if count > 1 {
		t = float64(i) / float64(count-1)
	}
	incl := math.Acos(1 - 2*t)
	az := float64(i) * goldenAngle
	si := math.Sin(incl)
	dir := mgl64.Vec3{si * math.Cos(az), math.Cos(incl), si * math.Sin(az)}

	amp := 2 + in.norm.Bass*(4+in.sig.Mood*6)
	spike := fbm3Signed(in.seed,
		dir[0]*FerroNoiseFreq+in.time*0.4,
		dir[1]*FerroNoiseFreq+in.time*0.4,
		dir[2]*FerroNoiseFreq+in.time*0.4, 2)
	if spike < 0 {
		spike = 0 // spikes only, nothing dips inside the base radius
	}
	return dir.Mul(FerroBaseRadius + spike*amp)
}

var modeFuncs = [modeCount]func(*genInput, int, int) mgl64.Vec3{
	ModeOrbit:      orbitPos,
	ModeWave:       wavePos,
	ModeGrid:       gridPos,
	ModeChaos:      chaosPos,
	ModeFerrofluid: ferroPos,
	// ModeSurface has no instance generator; the tick routes it to the
	// surface deformer instead.
}

/// generateInstance computes instance i of count: mode position, pointer
// repulsion, scale boost, color. Non-finite results zero the instance
// rather than poisoning the frame.
func generateInstance(in *genInput, i, count int) Instance {
	fn := modeFuncs[in.preset.Mode%modeCount]
	if fn == nil {
		return Instance{}
	}
	pos := fn(in, i, count)
	freq := sampleFreq(in.spectrum, i, count)
	scale := in.preset.ParticleSize * (1 + freq)
	spin := in.time*(in.preset.RotationSpeed+in.sig.Mood*0.5) + hashUnit(in.seed, i, 1)*2*math.Pi

	repelled := false
	dx := pos[0] - in.ptrX
	dy := pos[1] - in.ptrY
	if d := math.Hypot(dx, dy); d < RepelRadius {
		push := (1 - d/RepelRadius) * RepelStrength
		if d > 1e-6 {
			pos[0] += dx / d * push
			pos[1] += dy / d * push
		} else {
			pos[0] += push
		}
		scale *= RepelScaleBoost
		repelled = true
	}
	if in.sig.Mood > BoostMoodMin && freq > BoostFreqMin {
		scale *= BoostScale
	}

	if !isFinite(pos[0]) || !isFinite(pos[1]) || !isFinite(pos[2]) ||
		!isFinite(scale) || !isFinite(spin) {
		return Instance{}
	}
	return Instance{
		Pos:   pos,
		Scale: scale,
		Spin:  spin,
		Freq:  freq,
		Color: MixColor(in.primary, in.second, freq, in.sig.Mood, in.bands.Bass, repelled),
	}
}

// generateInstances fills dst, splitting the index range across workers.
// Every index is independent; the only shared state is the destination
// slice, written at disjoint indices.
func generateInstances(dst []Instance, in *genInput) {
	count := len(dst)
	if count == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > count {
		workers = count
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (count + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > count {
			hi = count
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				dst[i] = generateInstance(in, i, count)
			}
		}(lo, hi)
	}
	wg.Wait()
}
