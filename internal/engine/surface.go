package engine

import (
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceMesh is the deformable mesh the Surface mode shows instead of the
// instance cloud. Rest holds the reference copy of the vertices and is
// never overwritten; every frame recomputes Live by scaling each rest
// vertex radially. Disp keeps the per-vertex factor so the renderer can
// color displacement without knowing rest positions.
type SurfaceMesh struct {
	Rest    []mgl64.Vec3
	Live    []mgl64.Vec3
	Disp    []float64
	Indices []uint32
	Spin    float64
}

// NewSurfaceMesh builds the deformable mesh for a geometry.
func NewSurfaceMesh(g Geometry) *SurfaceMesh {
	m := BuildMesh(g, SurfaceDetail, SurfaceRadius)
	s := &SurfaceMesh{
		Rest:    m.Verts,
		Live:    make([]mgl64.Vec3, len(m.Verts)),
		Disp:    make([]float64, len(m.Verts)),
		Indices: m.Indices,
	}
	copy(s.Live, s.Rest)
	for i := range s.Disp {
		s.Disp[i] = 1
	}
	return s
}

// surfaceInput is the read-only context for one deformation pass.
type surfaceInput struct {
	time        float64
	seed        uint64
	sensitivity float64
	mood        float64
	spectrum    Spectrum
	ptrX, ptrY  float64 // pointer projected into surface world units
}

// Deform recomputes Live from Rest. Pure per-vertex work, split across
// workers the same way as the instance loop.
func (s *SurfaceMesh) Deform(in *surfaceInput) {
	n := len(s.Rest)
	if n == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				s.deformVertex(in, i)
			}
		}(lo, hi)
	}
	wg.Wait()
}

func (s *SurfaceMesh) deformVertex(in *surfaceInput, i int) {
	rest := s.Rest[i]
	noise := fbm3Signed(in.seed,
		rest[0]*0.25+in.time*0.5,
		rest[1]*0.25+in.time*0.5,
		rest[2]*0.25+in.time*0.5, 3)
	freq := sampleFreqWrap(in.spectrum, i)
	disp := 1 + freq*0.5*in.sensitivity + noise*0.2*in.mood

	mouse := 0.0
	dx := rest[0] - in.ptrX
	dy := rest[1] - in.ptrY
	if d := math.Hypot(dx, dy); d < SurfaceBulgeRadius {
		mouse = (1 - d/SurfaceBulgeRadius) * 2
	}

	factor := disp + mouse
	if !isFinite(factor) {
		factor = 1
	}
	s.Disp[i] = factor
	s.Live[i] = rest.Mul(factor)
}
