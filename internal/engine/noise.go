package engine

import "math"

// Value noise over a hashed integer lattice. Good enough for organic
// displacement and background shimmer; not gradient noise and not meant
// to be.

// noise2 returns smooth noise in [0,1) at (x,y).
func noise2(seed uint64, x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi, yi := int(fx), int(fy)
	tx, ty := x-fx, y-fy
	// Hermite-smoothed cell interpolation.
	sx := tx * tx * (3 - 2*tx)
	sy := ty * ty * (3 - 2*ty)
	n00 := hashUnit(seed, xi, yi)
	n10 := hashUnit(seed, xi+1, yi)
	n01 := hashUnit(seed, xi, yi+1)
	n11 := hashUnit(seed, xi+1, yi+1)
	return lerpF(lerpF(n00, n10, sx), lerpF(n01, n11, sx), sy)
}

// noise3 returns smooth noise in [0,1) at (x,y,z).
func noise3(seed uint64, x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(fx), int(fy), int(fz)
	tx, ty, tz := x-fx, y-fy, z-fz
	sx := tx * tx * (3 - 2*tx)
	sy := ty * ty * (3 - 2*ty)
	sz := tz * tz * (3 - 2*tz)
	u := func(dx, dy, dz int) float64 {
		return float64(hash3D(seed, xi+dx, yi+dy, zi+dz)>>11) * (1.0 / (1 << 53))
	}
	nx00 := lerpF(u(0, 0, 0), u(1, 0, 0), sx)
	nx10 := lerpF(u(0, 1, 0), u(1, 1, 0), sx)
	nx01 := lerpF(u(0, 0, 1), u(1, 0, 1), sx)
	nx11 := lerpF(u(0, 1, 1), u(1, 1, 1), sx)
	return lerpF(lerpF(nx00, nx10, sy), lerpF(nx01, nx11, sy), sz)
}

// fbm2 sums octaves of noise2 with halving amplitude, normalized to [0,1).
func fbm2(seed uint64, x, y float64, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	for o := 0; o < octaves; o++ {
		sum += noise2(seed+uint64(o)*0x9E37, x, y) * amp
		norm += amp
		x *= 2
		y *= 2
		amp *= 0.5
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// fbm3 sums octaves of noise3 with halving amplitude, normalized to [0,1).
func fbm3(seed uint64, x, y, z float64, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	for o := 0; o < octaves; o++ {
		sum += noise3(seed+uint64(o)*0x9E37, x, y, z) * amp
		norm += amp
		x *= 2
		y *= 2
		z *= 2
		amp *= 0.5
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// fbm3Signed maps fbm3 onto [-1,1).
func fbm3Signed(seed uint64, x, y, z float64, octaves int) float64 {
	return fbm3(seed, x, y, z, octaves)*2 - 1
}
