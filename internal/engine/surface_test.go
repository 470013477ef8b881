package engine

import (
	"math"
	"testing"
)

func TestSurfaceRestImmutable(t *testing.T) {
	s := NewSurfaceMesh(GeoSphere)
	rest := make([]float64, 0, len(s.Rest)*3)
	for _, v := range s.Rest {
		rest = append(rest, v[0], v[1], v[2])
	}
	sp := make(Spectrum, 64)
	for i := range sp {
		sp[i] = 255
	}
	in := &surfaceInput{time: 3.2, seed: 7, sensitivity: 2, mood: 1, spectrum: sp}
	s.Deform(in)
	s.Deform(in)
	for i, v := range s.Rest {
		if v[0] != rest[i*3] || v[1] != rest[i*3+1] || v[2] != rest[i*3+2] {
			t.Fatalf("rest vertex %d changed to %v", i, v)
		}
	}
}

func TestSurfaceAtRest(t *testing.T) {
	s := NewSurfaceMesh(GeoBox)
	in := &surfaceInput{time: 1, seed: 7, sensitivity: 1, mood: 0, spectrum: nil, ptrX: 1e6, ptrY: 1e6}
	s.Deform(in)
	for i := range s.Rest {
		if s.Live[i] != s.Rest[i] {
			t.Fatalf("vertex %d = %v, want rest position %v under silence", i, s.Live[i], s.Rest[i])
		}
		if s.Disp[i] != 1 {
			t.Fatalf("Disp[%d] = %v, want 1 under silence", i, s.Disp[i])
		}
	}
}

func TestSurfaceSpectrumDisplaces(t *testing.T) {
	s := NewSurfaceMesh(GeoSphere)
	sp := make(Spectrum, 32)
	for i := range sp {
		sp[i] = 255
	}
	in := &surfaceInput{time: 1, seed: 7, sensitivity: 1, mood: 0, spectrum: sp, ptrX: 1e6, ptrY: 1e6}
	s.Deform(in)
	// freq=1, mood=0: every vertex scales by exactly 1.5.
	for i := range s.Rest {
		wantLen := s.Rest[i].Len() * 1.5
		if math.Abs(s.Live[i].Len()-wantLen) > 1e-9 {
			t.Fatalf("vertex %d radius = %v, want %v", i, s.Live[i].Len(), wantLen)
		}
	}
}

func TestSurfacePointerBulge(t *testing.T) {
	s := NewSurfaceMesh(GeoSphere)
	in := &surfaceInput{time: 1, seed: 7, sensitivity: 1, mood: 0, spectrum: nil, ptrX: 0, ptrY: 0}
	s.Deform(in)
	bulged := 0
	for i := range s.Rest {
		d := math.Hypot(s.Rest[i][0], s.Rest[i][1])
		if d < SurfaceBulgeRadius {
			if s.Live[i].Len() <= s.Rest[i].Len() {
				t.Fatalf("vertex %d near pointer did not bulge (%v -> %v)", i, s.Rest[i].Len(), s.Live[i].Len())
			}
			bulged++
		}
	}
	if bulged == 0 {
		t.Fatalf("no vertex within the bulge radius; mesh/pointer scales disagree")
	}
}

func TestSurfaceDispMatchesLive(t *testing.T) {
	s := NewSurfaceMesh(GeoTorus)
	sp := make(Spectrum, 16)
	for i := range sp {
		sp[i] = float64((i * 53) % 256)
	}
	in := &surfaceInput{time: 2.5, seed: 11, sensitivity: 1.5, mood: 0.8, spectrum: sp, ptrX: 3, ptrY: -2}
	s.Deform(in)
	for i := range s.Rest {
		want := s.Rest[i].Mul(s.Disp[i])
		if s.Live[i] != want {
			t.Fatalf("vertex %d live = %v, want rest*Disp = %v", i, s.Live[i], want)
		}
	}
}
