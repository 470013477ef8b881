package engine

import "github.com/go-gl/mathgl/mgl64"

// FrameInput is everything the outside world feeds one tick: the clock and
// the latest spectrum. A nil spectrum is a valid silent frame.
type FrameInput struct {
	Time     float64
	DT       float64
	Spectrum Spectrum
	// Bands, when set, bypasses the reducer; callers running their own
	// analysis hand band energies over directly. Per-instance frequency
	// samples still come from Spectrum and read as silence without one.
	Bands *Bands
}

// FrameOutput is the complete draw state for one frame. Slices alias
// engine-owned buffers that the next Tick overwrites; consume them before
// ticking again.
type FrameOutput struct {
	Preset    *Preset
	Mode      Mode
	Instances []Instance   // nil when Mode == ModeSurface
	Surface   *SurfaceMesh // nil unless Mode == ModeSurface
	Field     FieldParams
	Camera    CameraPose
	Bands     Bands
	Bloom     float64
}

// Engine owns all animation state: smoothed signals, pointer easing, the
// frame counter, the instance buffer, and the surface mesh cache. It is
// frame-synchronous; exactly one caller Ticks it.
type Engine struct {
	store *PresetStore
	sig   Signals
	ptr   Pointer
	seed  uint64
	frame uint64

	camPos  mgl64.Vec3
	camInit bool

	surface     *SurfaceMesh
	surfaceGeom Geometry

	instances []Instance
	out       FrameOutput
}

// New creates an engine around a preset store. A nil store gets a fresh one
// holding the default preset.
func New(seed uint64, store *PresetStore) *Engine {
	if store == nil {
		store = NewPresetStore()
	}
	return &Engine{
		store:     store,
		seed:      seed,
		instances: make([]Instance, InstanceCount),
	}
}

func (e *Engine) Store() *PresetStore { return e.store }

// SetPointer updates the pointer target in normalized device coordinates.
// The eased position chases it on subsequent ticks.
func (e *Engine) SetPointer(x, y float64) { e.ptr.SetTarget(x, y) }

// Signals returns a copy of the current smoothed signals.
func (e *Engine) Signals() Signals { return e.sig }

// Frame returns the number of completed ticks.
func (e *Engine) Frame() uint64 { return e.frame }

// Tick advances the animation by one frame and returns the draw state.
// Signals advance exactly once, strictly before any generation; mode and
// geometry switches never touch them, so drift stays continuous across
// preset changes.
func (e *Engine) Tick(in FrameInput) *FrameOutput {
	preset := e.store.Current()
	bands := ReduceBands(in.Spectrum)
	if in.Bands != nil {
		bands = *in.Bands
	}

	dt := in.DT
	if dt <= 0 {
		dt = 1.0 / ReferenceRate
	}
	e.sig.Advance(bands, dt)
	e.ptr.advance(dt)
	e.frame++

	// Hue drift flows through the base colors once per frame; the mixers
	// downstream only ever see the rotated triad.
	primary := RotateHue(preset.Primary, e.sig.HueShift)
	secondary := RotateHue(preset.Secondary, e.sig.HueShift)

	e.out = FrameOutput{
		Preset: preset,
		Mode:   preset.Mode,
		Bands:  bands,
		Bloom:  preset.Bloom,
		Field: FieldParams{
			Time:   in.Time,
			Energy: e.sig.Impact,
			Mood:   e.sig.Mood,
			C1:     preset.Background,
			C2:     primary,
			C3:     secondary,
		},
	}

	if preset.Mode == ModeSurface {
		e.tickSurface(in, dt, preset)
	} else {
		gi := genInput{
			time:     in.Time,
			frame:    e.frame,
			seed:     e.seed,
			preset:   preset,
			sig:      e.sig,
			bands:    bands,
			norm:     bands.Norm(),
			spectrum: in.Spectrum,
			primary:  primary,
			second:   secondary,
			ptrX:     e.ptr.X * PointerWorldScale,
			ptrY:     e.ptr.Y * PointerWorldScale,
		}
		generateInstances(e.instances, &gi)
		e.out.Instances = e.instances
	}

	target := cameraTarget(e.sig, in.Time, e.frame, e.seed, e.ptr.X, e.ptr.Y)
	if !e.camInit {
		e.camPos = target.Position
		e.camInit = true
	} else {
		t := clampF(CamEase*dt*ReferenceRate, 0, 1)
		e.camPos = lerpVec3(e.camPos, target.Position, t)
	}
	e.out.Camera = CameraPose{Position: e.camPos, Target: target.Target}

	return &e.out
}

// tickSurface runs the deformer, rebuilding the mesh only when the preset
// geometry changed since the last surface frame.
func (e *Engine) tickSurface(in FrameInput, dt float64, preset *Preset) {
	if e.surface == nil || e.surfaceGeom != preset.Geometry {
		e.surface = NewSurfaceMesh(preset.Geometry)
		e.surfaceGeom = preset.Geometry
	}
	si := surfaceInput{
		time:        in.Time,
		seed:        e.seed,
		sensitivity: preset.Sensitivity,
		mood:        e.sig.Mood,
		spectrum:    in.Spectrum,
		ptrX:        e.ptr.X * SurfacePointerSpan,
		ptrY:        e.ptr.Y * SurfacePointerSpan,
	}
	e.surface.Deform(&si)
	e.surface.Spin += (0.2 + preset.RotationSpeed*0.5) * dt
	e.out.Surface = e.surface
}
