package engine

import "testing"

func TestMixColorPureLerp(t *testing.T) {
	a := RGB{R: 200, G: 100}
	b := RGB{G: 100, B: 200}
	if got := MixColor(a, b, 0, 0, 0, false); got != a {
		t.Fatalf("MixColor(freq=0) = %v, want primary %v", got, a)
	}
	if got := MixColor(a, b, 1, 0, 0, false); got != b {
		t.Fatalf("MixColor(freq=1) = %v, want secondary %v", got, b)
	}
	want := lerpRGB(a, b, 0.5)
	if got := MixColor(a, b, 0.5, 0, 0, false); got != want {
		t.Fatalf("MixColor(freq=0.5) = %v, want plain lerp %v", got, want)
	}
}

func TestMixColorSharpensUnderMood(t *testing.T) {
	a := RGB{R: 255}
	b := RGB{B: 255}
	// Below the band edges the sharpened mix collapses to the endpoints.
	if got := MixColor(a, b, 0.3, 0.9, 0, false); got != a {
		t.Fatalf("sharpened low mix = %v, want pure primary %v", got, a)
	}
	if got := MixColor(a, b, 0.7, 0.9, 0, false); got != b {
		t.Fatalf("sharpened high mix = %v, want pure secondary %v", got, b)
	}
}

func TestMixColorWhiteFlash(t *testing.T) {
	a := RGB{R: 80}
	b := RGB{B: 80}
	base := MixColor(a, b, 0.8, 0.5, 200, false)
	want := lerpRGB(base, white, 0.8)
	if got := MixColor(a, b, 0.8, 0.5, 240, false); got != want {
		t.Fatalf("flash = %v, want %v", got, want)
	}
	// Mood below the flash gate suppresses it regardless of bass.
	if got := MixColor(a, b, 0.8, 0.2, 240, false); got != base {
		t.Fatalf("flash below mood gate = %v, want %v", got, base)
	}
}

func TestMixColorRepelWhitening(t *testing.T) {
	a := RGB{R: 80}
	b := RGB{B: 80}
	base := MixColor(a, b, 0.4, 0, 0, false)
	want := lerpRGB(base, white, RepelWhiten)
	if got := MixColor(a, b, 0.4, 0, 0, true); got != want {
		t.Fatalf("repelled color = %v, want %v", got, want)
	}
}

func TestRotateHue(t *testing.T) {
	c := RGB{R: 200, G: 40, B: 90}
	if got := RotateHue(c, 0); got != c {
		t.Fatalf("RotateHue(0) = %v, want unchanged %v", got, c)
	}
	gray := RGB{R: 120, G: 120, B: 120}
	if got := RotateHue(gray, 0.37); got != gray {
		t.Fatalf("RotateHue(gray) = %v, want unchanged %v", got, gray)
	}
	// A full spin lands back on the original within rounding.
	got := RotateHue(c, 1.0)
	if absDiffU8(got.R, c.R) > 2 || absDiffU8(got.G, c.G) > 2 || absDiffU8(got.B, c.B) > 2 {
		t.Fatalf("RotateHue(1.0) = %v, want about %v", got, c)
	}
	// Half a spin actually moves the hue.
	if got := RotateHue(c, 0.5); got == c {
		t.Fatalf("RotateHue(0.5) left %v unchanged", c)
	}
}

func absDiffU8(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#ff0080", RGB{R: 255, G: 0, B: 128}},
		{"00ff00", RGB{G: 255}},
		{"#FFFFFF", RGB{R: 255, G: 255, B: 255}},
	}
	for _, c := range cases {
		got, err := ParseHexColor(c.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseHexColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "#ff", "zzzzzz", "#1234567"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("ParseHexColor(%q) accepted invalid input", bad)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{R: 18, G: 52, B: 86}
	got, err := ParseHexColor(c.Hex())
	if err != nil {
		t.Fatalf("ParseHexColor(%q) error: %v", c.Hex(), err)
	}
	if got != c {
		t.Fatalf("round trip = %v, want %v", got, c)
	}
}
