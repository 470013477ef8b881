package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry selects the base mesh instances are drawn with and the rest
// shape of the surface path.
type Geometry uint8

const (
	GeoBox Geometry = iota
	GeoSphere
	GeoTetrahedron
	GeoOctahedron
	GeoTorus
	GeoCone
	geometryCount
)

var geometryNames = [...]string{"box", "sphere", "tetrahedron", "octahedron", "torus", "cone"}

func (g Geometry) String() string {
	if int(g) < len(geometryNames) {
		return geometryNames[g]
	}
	return "box"
}

func (g Geometry) Next() Geometry {
	return (g + 1) % geometryCount
}

func ParseGeometry(s string) (Geometry, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range geometryNames {
		if n == name {
			return Geometry(i), nil
		}
	}
	return GeoBox, fmt.Errorf("unknown geometry %q", s)
}

// Mesh is an indexed triangle mesh centered on the origin.
type Mesh struct {
	Verts   []mgl64.Vec3
	Indices []uint32
}

// BuildMesh constructs the given geometry scaled to fit radius. detail
// controls tessellation density; 1 gives the coarsest closed mesh, the
// surface path uses SurfaceDetail.
func BuildMesh(g Geometry, detail int, radius float64) Mesh {
	if detail < 1 {
		detail = 1
	}
	switch g {
	case GeoSphere:
		return buildSphere(maxInt(detail, 3), maxInt(detail*2, 6), radius)
	case GeoTetrahedron:
		return buildTetrahedron(detail, radius)
	case GeoOctahedron:
		return buildOctahedron(detail, radius)
	case GeoTorus:
		return buildTorus(maxInt(detail*2, 8), maxInt(detail, 6), radius)
	case GeoCone:
		return buildCone(maxInt(detail*2, 8), maxInt(detail, 2), radius)
	default:
		return buildBox(detail, radius)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// meshBuilder dedups vertices by quantized position so meshes come out
// watertight: the surface path samples the spectrum by vertex index, and a
// duplicated seam vertex would tear under displacement.
type meshBuilder struct {
	verts   []mgl64.Vec3
	indices []uint32
	lookup  map[[3]int32]uint32
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{lookup: make(map[[3]int32]uint32)}
}

func (b *meshBuilder) vertex(p mgl64.Vec3) uint32 {
	key := [3]int32{
		int32(math.Round(p[0] * 4096)),
		int32(math.Round(p[1] * 4096)),
		int32(math.Round(p[2] * 4096)),
	}
	if id, ok := b.lookup[key]; ok {
		return id
	}
	id := uint32(len(b.verts))
	b.verts = append(b.verts, p)
	b.lookup[key] = id
	return id
}

func (b *meshBuilder) tri(p0, p1, p2 mgl64.Vec3) {
	b.indices = append(b.indices, b.vertex(p0), b.vertex(p1), b.vertex(p2))
}

func (b *meshBuilder) quad(p00, p10, p11, p01 mgl64.Vec3) {
	b.tri(p00, p10, p11)
	b.tri(p00, p11, p01)
}

// triGrid splits the triangle (a,bb,c) into k*k smaller triangles along a
// barycentric lattice, keeping the face flat.
func (b *meshBuilder) triGrid(a, bb, c mgl64.Vec3, k int) {
	pt := func(i, j int) mgl64.Vec3 {
		u := float64(i) / float64(k)
		v := float64(j) / float64(k)
		return a.Add(bb.Sub(a).Mul(u)).Add(c.Sub(a).Mul(v))
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k-i; j++ {
			b.tri(pt(i, j), pt(i+1, j), pt(i, j+1))
			if j < k-i-1 {
				b.tri(pt(i+1, j), pt(i+1, j+1), pt(i, j+1))
			}
		}
	}
}

func (b *meshBuilder) mesh() Mesh {
	return Mesh{Verts: b.verts, Indices: b.indices}
}

func buildSphere(rings, segs int, radius float64) Mesh {
	var m Mesh
	m.Verts = append(m.Verts, mgl64.Vec3{0, radius, 0})
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := math.Cos(phi) * radius
		rr := math.Sin(phi) * radius
		for s := 0; s < segs; s++ {
			th := 2 * math.Pi * float64(s) / float64(segs)
			m.Verts = append(m.Verts, mgl64.Vec3{math.Cos(th) * rr, y, math.Sin(th) * rr})
		}
	}
	m.Verts = append(m.Verts, mgl64.Vec3{0, -radius, 0})

	top := uint32(0)
	bottom := uint32(len(m.Verts) - 1)
	ringStart := func(r int) uint32 { return uint32(1 + (r-1)*segs) }
	for s := 0; s < segs; s++ {
		a := ringStart(1) + uint32(s)
		b := ringStart(1) + uint32((s+1)%segs)
		m.Indices = append(m.Indices, top, b, a)
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segs; s++ {
			a := ringStart(r) + uint32(s)
			b := ringStart(r) + uint32((s+1)%segs)
			c := ringStart(r+1) + uint32(s)
			d := ringStart(r+1) + uint32((s+1)%segs)
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	for s := 0; s < segs; s++ {
		a := ringStart(rings-1) + uint32(s)
		b := ringStart(rings-1) + uint32((s+1)%segs)
		m.Indices = append(m.Indices, bottom, a, b)
	}
	return m
}

func buildBox(n int, radius float64) Mesh {
	// Corners sit exactly at radius.
	h := radius / math.Sqrt(3)
	b := newMeshBuilder()
	// Each face: fixed axis at +h or -h, u/v swept over an n by n grid.
	faces := [6][3]mgl64.Vec3{
		{{h, -h, -h}, {0, 2 * h, 0}, {0, 0, 2 * h}},   // +X
		{{-h, -h, -h}, {0, 0, 2 * h}, {0, 2 * h, 0}},  // -X
		{{-h, h, -h}, {2 * h, 0, 0}, {0, 0, 2 * h}},   // +Y
		{{-h, -h, -h}, {0, 0, 2 * h}, {2 * h, 0, 0}},  // -Y
		{{-h, -h, h}, {2 * h, 0, 0}, {0, 2 * h, 0}},   // +Z
		{{-h, -h, -h}, {0, 2 * h, 0}, {2 * h, 0, 0}},  // -Z
	}
	for _, f := range faces {
		origin, du, dv := f[0], f[1], f[2]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				u0 := float64(i) / float64(n)
				u1 := float64(i+1) / float64(n)
				v0 := float64(j) / float64(n)
				v1 := float64(j+1) / float64(n)
				p00 := origin.Add(du.Mul(u0)).Add(dv.Mul(v0))
				p10 := origin.Add(du.Mul(u1)).Add(dv.Mul(v0))
				p11 := origin.Add(du.Mul(u1)).Add(dv.Mul(v1))
				p01 := origin.Add(du.Mul(u0)).Add(dv.Mul(v1))
				b.quad(p00, p10, p11, p01)
			}
		}
	}
	return b.mesh()
}

func buildTetrahedron(k int, radius float64) Mesh {
	s := radius / math.Sqrt(3)
	v := [4]mgl64.Vec3{
		{s, s, s},
		{s, -s, -s},
		{-s, s, -s},
		{-s, -s, s},
	}
	b := newMeshBuilder()
	b.triGrid(v[0], v[1], v[2], k)
	b.triGrid(v[0], v[3], v[1], k)
	b.triGrid(v[0], v[2], v[3], k)
	b.triGrid(v[1], v[3], v[2], k)
	return b.mesh()
}

func buildOctahedron(k int, radius float64) Mesh {
	r := radius
	px := mgl64.Vec3{r, 0, 0}
	nx := mgl64.Vec3{-r, 0, 0}
	py := mgl64.Vec3{0, r, 0}
	ny := mgl64.Vec3{0, -r, 0}
	pz := mgl64.Vec3{0, 0, r}
	nz := mgl64.Vec3{0, 0, -r}
	b := newMeshBuilder()
	b.triGrid(py, pz, px, k)
	b.triGrid(py, px, nz, k)
	b.triGrid(py, nz, nx, k)
	b.triGrid(py, nx, pz, k)
	b.triGrid(ny, px, pz, k)
	b.triGrid(ny, nz, px, k)
	b.triGrid(ny, nx, nz, k)
	b.triGrid(ny, pz, nx, k)
	return b.mesh()
}

func buildTorus(rings, sides int, radius float64) Mesh {
	major := radius * 0.7
	minor := radius * 0.3
	var m Mesh
	for i := 0; i < rings; i++ {
		u := 2 * math.Pi * float64(i) / float64(rings)
		cu, su := math.Cos(u), math.Sin(u)
		for j := 0; j < sides; j++ {
			v := 2 * math.Pi * float64(j) / float64(sides)
			cv, sv := math.Cos(v), math.Sin(v)
			m.Verts = append(m.Verts, mgl64.Vec3{
				(major + minor*cv) * cu,
				minor * sv,
				(major + minor*cv) * su,
			})
		}
	}
	idx := func(i, j int) uint32 { return uint32((i%rings)*sides + (j % sides)) }
	for i := 0; i < rings; i++ {
		for j := 0; j < sides; j++ {
			a := idx(i, j)
			b := idx(i+1, j)
			c := idx(i+1, j+1)
			d := idx(i, j+1)
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m
}

func buildCone(segs, rows int, radius float64) Mesh {
	apex := mgl64.Vec3{0, radius, 0}
	baseY := -radius * 0.6
	baseR := radius * 0.8
	b := newMeshBuilder()
	ringPt := func(row, s int) mgl64.Vec3 {
		t := float64(row) / float64(rows)
		rr := baseR * t
		y := radius + (baseY-radius)*t
		th := 2 * math.Pi * float64(s) / float64(segs)
		return mgl64.Vec3{math.Cos(th) * rr, y, math.Sin(th) * rr}
	}
	// Side: rows of quads narrowing to the apex.
	for s := 0; s < segs; s++ {
		b.tri(apex, ringPt(1, s+1), ringPt(1, s))
		for row := 1; row < rows; row++ {
			b.quad(ringPt(row, s), ringPt(row, s+1), ringPt(row+1, s+1), ringPt(row+1, s))
		}
	}
	// Base cap.
	center := mgl64.Vec3{0, baseY, 0}
	for s := 0; s < segs; s++ {
		b.tri(center, ringPt(rows, s), ringPt(rows, s+1))
	}
	return b.mesh()
}
