package engine

import "math"

// fieldSeed fixes the background noise lattice so the CPU reference and
// its tests agree across runs.
const fieldSeed uint64 = 0xF1E1D

// FieldParams feed the background field for one frame. C1 is the preset
// background, C2/C3 the hue-rotated primary and secondary.
type FieldParams struct {
	Time   float64
	Energy float64
	Mood   float64
	C1     RGB
	C2     RGB
	C3     RGB
}

// FieldColor evaluates the background field at uv in [0,1]x[0,1]. This is
// the CPU reference for the fragment shader in the render package, which
// ports it term for term; keep the two in step.
func FieldColor(u, v float64, fp FieldParams) RGB {
	px := u*2 - 1
	py := v*2 - 1
	mood := clamp01(fp.Mood)
	freq := 2 + mood*6
	amp := 0.5 + mood

	// Two interfering sinusoid fields plus a mood-weighted noise term.
	f1 := math.Sin(px*freq+fp.Time*0.7) * math.Cos(py*freq*0.8-fp.Time*0.5)
	f2 := math.Sin((px+py)*freq*0.5 + fp.Time*0.3)
	field := (f1 + f2) * 0.5 * amp
	n := noise2(fieldSeed, px*3+fp.Time*0.2, py*3-fp.Time*0.15) * mood

	intensity := clamp01(field*0.35 + 0.5 + n*0.4)

	// Vertical bias keeps the lower half darker; mood sharpens the mix.
	bias := clamp01(v*0.35 + intensity*0.65)
	bias = lerpF(bias, smoothstepF(0.25, 0.75, bias), mood)
	col := lerpRGB(fp.C1, fp.C2, bias)

	glow := smoothstepF(0.55, 0.95, intensity) * clamp01(fp.Energy)
	col = lerpRGB(col, fp.C3, glow)

	// Radial vignette dims the corners.
	vig := 1 - smoothstepF(0.6, 1.45, math.Hypot(px, py))*0.7
	col = col.Mul(uint8(clampF(vig*255, 0, 255)))

	if mood > 0.5 {
		g := 1 - (mood-0.5)*0.3
		col = RGB{gammaU8(col.R, g), gammaU8(col.G, g), gammaU8(col.B, g)}
	}
	return col
}

func gammaU8(c uint8, g float64) uint8 {
	return uint8(clampF(math.Pow(float64(c)/255, g)*255+0.5, 0, 255))
}
