package engine

import "fmt"

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

var white = RGB{R: 255, G: 255, B: 255}

// ParseHexColor reads a #rrggbb (or rrggbb) string.
func ParseHexColor(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("hex color %q: want 6 digits", s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("hex color %q: bad digit", s)
		}
		v[i] = hi<<4 | lo
	}
	return RGB{R: v[0], G: v[1], B: v[2]}, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hex renders the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RotateHue shifts a colour's hue by shift full turns, keeping saturation
// and value. The per-frame hue drift runs every preset colour through this
// before any per-instance mixing happens.
func RotateHue(c RGB, shift float64) RGB {
	if shift == 0 {
		return c
	}
	h, s, v := rgbToHSV(c)
	return hsvByte(fract(h+shift), s, v)
}

func rgbToHSV(c RGB) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = fract((g - b) / d / 6)
	case g:
		h = ((b-r)/d + 2) / 6
	default:
		h = ((r-g)/d + 4) / 6
	}
	return h, s, v
}

// hsvByte converts HSV in [0,1] to an 8-bit RGB.
func hsvByte(h, s, v float64) RGB {
	h = fract(h) * 6
	i := int(h)
	f := h - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return RGB{
		R: uint8(clampF(r, 0, 1)*255 + 0.5),
		G: uint8(clampF(g, 0, 1)*255 + 0.5),
		B: uint8(clampF(b, 0, 1)*255 + 0.5),
	}
}

// MixColor blends the preset's primary and secondary colours for one
// instance. freq is that instance's normalized spectrum sample and doubles
// as the mix factor; above the mood threshold the mix snaps into a
// two-band step so intense sections read as separated colour bands instead
// of a smooth gradient. bassRaw is on the byte scale: loud bass plus a
// warmed-up mood flashes the instance toward white, and pointer-repelled
// instances are always pulled 30% toward white so the interaction reads.
func MixColor(primary, secondary RGB, freq, mood, bassRaw float64, repelled bool) RGB {
	mix := clamp01(freq)
	if mood > BoostMoodMin {
		mix = smoothstepF(0.4, 0.6, mix)
	}
	c := lerpRGB(primary, secondary, mix)
	if bassRaw > FlashBassMin && mood > FlashMoodMin {
		c = lerpRGB(c, white, clamp01(freq))
	}
	if repelled {
		c = lerpRGB(c, white, RepelWhiten)
	}
	return c
}
