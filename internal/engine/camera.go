package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CameraPose is the per-frame camera placement handed to the renderer. The
// target stays on the origin; only the eye orbits.
type CameraPose struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// cameraTarget computes the raw pose for the frame before easing. Impact
// pulls the camera in, mood deepens the pull, and the shake term hashes the
// frame counter so a replay of the same inputs shakes identically.
func cameraTarget(sig Signals, time float64, frame, seed uint64, ptrX, ptrY float64) CameraPose {
	radius := CamBaseRadius - sig.Impact*(CamZoomBase+CamZoomMood*sig.Mood)
	jitter := hashSigned(seed, int(frame), 7) * CamJitterAmp
	return CameraPose{
		Position: mgl64.Vec3{
			math.Sin(sig.CameraAngle)*radius + ptrX*CamPointerX,
			CamBaseHeight + math.Sin(time*0.5)*CamBobAmp + sig.Impact*sig.Mood*jitter + ptrY*CamPointerY,
			math.Cos(sig.CameraAngle) * radius,
		},
	}
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{lerpF(a[0], b[0], t), lerpF(a[1], b[1], t), lerpF(a[2], b[2], t)}
}
