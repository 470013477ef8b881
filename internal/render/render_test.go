package render

import (
	"strings"
	"testing"
)

func TestShaderSources(t *testing.T) {
	sources := map[string]string{
		"fieldVert":   fieldVertSrc,
		"fieldFrag":   fieldFragSrc,
		"meshVert":    meshVertSrc,
		"meshFrag":    meshFragSrc,
		"surfaceVert": surfaceVertSrc,
		"surfaceFrag": surfaceFragSrc,
		"glowVert":    glowVertSrc,
		"glowFrag":    glowFragSrc,
	}
	for name, src := range sources {
		if !strings.HasPrefix(src, "#version 410 core\n") {
			t.Errorf("%s: missing version header", name)
		}
		if !strings.HasSuffix(src, "\x00") {
			t.Errorf("%s: missing NUL terminator", name)
		}
		if n := strings.Count(src, "\x00"); n != 1 {
			t.Errorf("%s: %d NUL bytes, want 1", name, n)
		}
	}
}

func TestPointScale(t *testing.T) {
	ps := pointScale(1080)
	// 60 degree fov: 1080 / (2 tan 30 deg) is about 935.
	if ps < 930 || ps > 940 {
		t.Fatalf("pointScale(1080) = %v, want about 935", ps)
	}
	if pointScale(2160) <= ps {
		t.Fatalf("pointScale must grow with framebuffer height")
	}
}

func TestColorChan(t *testing.T) {
	if got := colorChan(0); got != 0 {
		t.Fatalf("colorChan(0) = %v, want 0", got)
	}
	if got := colorChan(255); got != 1 {
		t.Fatalf("colorChan(255) = %v, want 1", got)
	}
	if got := colorChan(51); got < 0.19 || got > 0.21 {
		t.Fatalf("colorChan(51) = %v, want 0.2", got)
	}
}
