package engine

import (
	"math"
	"testing"
)

func TestCameraImpactZoom(t *testing.T) {
	calm := cameraTarget(Signals{}, 2, 1, 9, 0, 0)
	hit := cameraTarget(Signals{Impact: 1, Mood: 1}, 2, 1, 9, 0, 0)
	calmR := math.Hypot(calm.Position[0], calm.Position[2])
	hitR := math.Hypot(hit.Position[0], hit.Position[2])
	if math.Abs(calmR-CamBaseRadius) > 1e-9 {
		t.Fatalf("calm radius = %v, want %v", calmR, CamBaseRadius)
	}
	want := CamBaseRadius - (CamZoomBase + CamZoomMood)
	if math.Abs(hitR-want) > 1e-9 {
		t.Fatalf("hit radius = %v, want %v", hitR, want)
	}
}

func TestCameraPointerParallax(t *testing.T) {
	center := cameraTarget(Signals{}, 2, 1, 9, 0, 0)
	right := cameraTarget(Signals{}, 2, 1, 9, 1, 0)
	if math.Abs((right.Position[0]-center.Position[0])-CamPointerX) > 1e-9 {
		t.Fatalf("pointer x shift = %v, want %v", right.Position[0]-center.Position[0], CamPointerX)
	}
	up := cameraTarget(Signals{}, 2, 1, 9, 0, 1)
	if math.Abs((up.Position[1]-center.Position[1])-CamPointerY) > 1e-9 {
		t.Fatalf("pointer y shift = %v, want %v", up.Position[1]-center.Position[1], CamPointerY)
	}
}

func TestCameraTargetsOrigin(t *testing.T) {
	pose := cameraTarget(Signals{Impact: 0.5, Mood: 0.5, CameraAngle: 1.3}, 7, 99, 9, 0.4, -0.2)
	if pose.Target.Len() != 0 {
		t.Fatalf("camera target = %v, want origin", pose.Target)
	}
}

func TestCameraShakeDeterministic(t *testing.T) {
	sig := Signals{Impact: 1, Mood: 1}
	a := cameraTarget(sig, 2, 42, 9, 0, 0)
	b := cameraTarget(sig, 2, 42, 9, 0, 0)
	if a != b {
		t.Fatalf("same frame produced different poses: %v vs %v", a, b)
	}
	c := cameraTarget(sig, 2, 43, 9, 0, 0)
	if a.Position[1] == c.Position[1] {
		t.Fatalf("consecutive frames produced identical shake y = %v", a.Position[1])
	}
}
