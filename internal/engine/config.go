package engine

// Spectrum band split (fractions of the bin count).
const (
	BassFraction = 0.10
	MidFraction  = 0.40
)

// Signal smoothing coefficients, defined per frame at the reference rate.
// Advance() rescales them by dt so behavior is refresh-rate independent.
const (
	ReferenceRate = 60.0
	ImpactCoeff   = 0.15
	MoodCoeff     = 0.02
	MoodGain      = 1.5
)

// Drift rates per reference frame.
const (
	HueDriftBase   = 0.0002
	HueDriftMood   = 0.001
	AngleDriftBase = 0.001
	AngleDriftMood = 0.005
)

// Instance set.
const (
	InstanceCount = 2048
	WaveGridWidth = 50
	WaveSpacing   = 1.2
)

// Mode shape parameters.
const (
	OrbitBaseRadius = 10.0
	GridBaseSpacing = 3.0
	GridJitterMood  = 0.7
	FerroBaseRadius = 12.0
	FerroNoiseFreq  = 2.5
)

// Pointer interaction. The instance and surface paths project the pointer
// at different world scales: instances live on a wider shell than the mesh.
const (
	PointerEase        = 0.1
	RepelRadius        = 10.0
	RepelStrength      = 5.0
	RepelScaleBoost    = 1.5
	RepelWhiten        = 0.3
	PointerWorldScale  = 15.0
	SurfacePointerSpan = 10.0
	SurfaceBulgeRadius = 8.0
)

// Beat-reactive thresholds. Bass is compared on the raw byte scale.
const (
	FlashBassMin = 230.0
	FlashMoodMin = 0.3
	BoostMoodMin = 0.6
	BoostFreqMin = 0.5
	BoostScale   = 1.8
)

// Surface mesh.
const (
	SurfaceRadius = 6.0
	SurfaceDetail = 28
)

// Camera choreography.
const (
	CamBaseRadius = 30.0
	CamBaseHeight = 8.0
	CamBobAmp     = 2.0
	CamZoomBase   = 5.0
	CamZoomMood   = 5.0
	CamPointerX   = 5.0
	CamPointerY   = 3.0
	CamJitterAmp  = 1.5
	CamEase       = 0.1
)
