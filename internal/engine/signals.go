package engine

// Signals are the smoothed control values every generator reads. They are
// owned by the Engine and advanced exactly once per frame, before any
// generation step runs. Impact rides the bass beat to beat; Mood is the
// slow "is this section calm or intense" tracker; HueShift and CameraAngle
// are drift accumulators whose rates rise with Mood.
type Signals struct {
	Impact      float64 // fast bass tracker, always in [0,1]
	Mood        float64 // gained+clamped slow tracker, always in [0,1]
	HueShift    float64 // wraps in [0,1)
	CameraAngle float64 // monotone, unbounded

	// moodRaw is the un-gained accumulator behind Mood. It must keep
	// tracking raw energy so the gain never distorts the release curve.
	moodRaw float64
}

// Advance folds one frame of band energies into the signals. dt is the
// frame delta in seconds; coefficients are defined per frame at
// ReferenceRate and rescaled so a slow or fast display drifts identically
// per wall-clock second.
func (s *Signals) Advance(b Bands, dt float64) {
	f := clampF(dt*ReferenceRate, 0, 4)

	bass := clamp01(b.Bass / 255)
	overall := clamp01((b.Bass + b.Mid + b.Treble) / 3 / 255)

	s.Impact += (bass - s.Impact) * clampF(ImpactCoeff*f, 0, 1)
	s.Impact = clamp01(s.Impact)

	s.moodRaw += (overall - s.moodRaw) * clampF(MoodCoeff*f, 0, 1)
	s.moodRaw = clamp01(s.moodRaw)
	s.Mood = clamp01(s.moodRaw * MoodGain)

	s.HueShift = fract(s.HueShift + (HueDriftBase+s.Mood*HueDriftMood)*f)
	s.CameraAngle += (AngleDriftBase + s.Mood*AngleDriftMood) * f
}

// Pointer carries the eased pointer position. Target is set by the input
// layer in normalized device coordinates; X/Y chase it each frame.
type Pointer struct {
	X, Y             float64
	TargetX, TargetY float64
}

// SetTarget updates where the pointer is headed. Values are clamped to the
// NDC square so a pointer parked outside the window cannot fling geometry.
func (p *Pointer) SetTarget(x, y float64) {
	p.TargetX = clampF(x, -1, 1)
	p.TargetY = clampF(y, -1, 1)
}

func (p *Pointer) advance(dt float64) {
	t := clampF(PointerEase*dt*ReferenceRate, 0, 1)
	p.X += (p.TargetX - p.X) * t
	p.Y += (p.TargetY - p.Y) * t
}
