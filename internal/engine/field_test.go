package engine

import "testing"

func testFieldParams() FieldParams {
	return FieldParams{
		Time:   2.5,
		Energy: 0.5,
		Mood:   0.4,
		C1:     RGB{R: 10, G: 12, B: 30},
		C2:     RGB{R: 220, G: 60, B: 160},
		C3:     RGB{R: 80, G: 220, B: 255},
	}
}

func TestFieldColorDeterministic(t *testing.T) {
	fp := testFieldParams()
	a := FieldColor(0.3, 0.7, fp)
	b := FieldColor(0.3, 0.7, fp)
	if a != b {
		t.Fatalf("FieldColor not deterministic: %v vs %v", a, b)
	}
}

func TestFieldVignette(t *testing.T) {
	// The corners sit past the vignette edge and must come out darker than
	// the center for a flat palette.
	fp := testFieldParams()
	fp.C1 = RGB{R: 200, G: 200, B: 200}
	fp.C2 = fp.C1
	fp.C3 = fp.C1
	center := FieldColor(0.5, 0.5, fp)
	corner := FieldColor(0, 0, fp)
	if luma(corner) >= luma(center) {
		t.Fatalf("corner %v not darker than center %v", corner, center)
	}
}

func TestFieldGlowNeedsEnergy(t *testing.T) {
	fp := testFieldParams()
	fp.Energy = 0
	fp.C3 = RGB{R: 255, G: 255, B: 255}
	dark := FieldColor(0.5, 0.5, fp)
	fp.Energy = 1
	lit := FieldColor(0.5, 0.5, fp)
	if luma(lit) < luma(dark) {
		t.Fatalf("energy dimmed the field: %v -> %v", dark, lit)
	}
}

func TestFieldStaysInPalette(t *testing.T) {
	// With an all-black palette every term collapses to black.
	fp := testFieldParams()
	fp.C1, fp.C2, fp.C3 = RGB{}, RGB{}, RGB{}
	for _, uv := range [][2]float64{{0, 0}, {0.25, 0.75}, {0.5, 0.5}, {1, 1}} {
		if got := FieldColor(uv[0], uv[1], fp); got != (RGB{}) {
			t.Fatalf("FieldColor%v = %v, want black from a black palette", uv, got)
		}
	}
}

func luma(c RGB) int {
	return int(c.R)*299 + int(c.G)*587 + int(c.B)*114
}
