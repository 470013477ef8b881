package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// Preset is the full visual configuration in effect at a given moment:
// which mode runs, what base mesh the instances use, the colour triad, and
// the scalar tunables. Presets are immutable once stored; a change is
// always a wholesale replacement, never a field mutation.
type Preset struct {
	Mode          Mode
	Geometry      Geometry
	Primary       RGB
	Secondary     RGB
	Background    RGB
	ParticleSize  float64
	RotationSpeed float64
	Sensitivity   float64
	Bloom         float64
	Description   string
}

// Numeric field ranges. Out-of-range values are clamped, never rejected.
const (
	MinParticleSize = 0.1
	MaxParticleSize = 5.0
	MaxRotation     = 5.0
	MaxSensitivity  = 3.0
	MaxBloom        = 3.0
)

// Clamp forces every numeric field into its documented range.
func (p *Preset) Clamp() {
	p.ParticleSize = clampF(p.ParticleSize, MinParticleSize, MaxParticleSize)
	p.RotationSpeed = clampF(p.RotationSpeed, 0, MaxRotation)
	p.Sensitivity = clampF(p.Sensitivity, 0, MaxSensitivity)
	p.Bloom = clampF(p.Bloom, 0, MaxBloom)
}

// DefaultPreset is the complete fallback configuration used whenever no
// generated or user preset is available.
func DefaultPreset() *Preset {
	p := Builtins[0]
	return &p
}

// Builtins are the hand-tuned presets the manual cycle key walks through.
var Builtins = []Preset{
	{
		Mode: ModeOrbit, Geometry: GeoSphere,
		Primary:   RGB{R: 64, G: 224, B: 208},
		Secondary: RGB{R: 255, G: 64, B: 160},
		Background: RGB{
			R: 8, G: 10, B: 24,
		},
		ParticleSize: 1.0, RotationSpeed: 0.5, Sensitivity: 1.0, Bloom: 1.0,
		Description: "neon orbit",
	},
	{
		Mode: ModeWave, Geometry: GeoBox,
		Primary:      RGB{R: 255, G: 170, B: 40},
		Secondary:    RGB{R: 255, G: 80, B: 40},
		Background:   RGB{R: 20, G: 8, B: 6},
		ParticleSize: 0.8, RotationSpeed: 0.3, Sensitivity: 1.2, Bloom: 0.8,
		Description: "solar swell",
	},
	{
		Mode: ModeGrid, Geometry: GeoBox,
		Primary:      RGB{R: 60, G: 255, B: 120},
		Secondary:    RGB{R: 20, G: 160, B: 200},
		Background:   RGB{R: 4, G: 8, B: 6},
		ParticleSize: 0.9, RotationSpeed: 0.4, Sensitivity: 1.0, Bloom: 1.2,
		Description: "circuit lattice",
	},
	{
		Mode: ModeChaos, Geometry: GeoTetrahedron,
		Primary:      RGB{R: 255, G: 230, B: 160},
		Secondary:    RGB{R: 220, G: 40, B: 60},
		Background:   RGB{R: 6, G: 4, B: 10},
		ParticleSize: 0.7, RotationSpeed: 1.2, Sensitivity: 1.4, Bloom: 1.6,
		Description: "supernova shrapnel",
	},
	{
		Mode: ModeFerrofluid, Geometry: GeoSphere,
		Primary:      RGB{R: 200, G: 210, B: 230},
		Secondary:    RGB{R: 60, G: 90, B: 255},
		Background:   RGB{R: 10, G: 10, B: 14},
		ParticleSize: 0.6, RotationSpeed: 0.6, Sensitivity: 1.1, Bloom: 1.4,
		Description: "black mercury",
	},
	{
		Mode: ModeSurface, Geometry: GeoSphere,
		Primary:      RGB{R: 170, G: 60, B: 255},
		Secondary:    RGB{R: 255, G: 120, B: 200},
		Background:   RGB{R: 12, G: 6, B: 20},
		ParticleSize: 1.0, RotationSpeed: 0.25, Sensitivity: 1.3, Bloom: 1.0,
		Description: "velvet pulse",
	},
	{
		Mode: ModeOrbit, Geometry: GeoOctahedron,
		Primary:      RGB{R: 180, G: 230, B: 255},
		Secondary:    RGB{R: 240, G: 250, B: 255},
		Background:   RGB{R: 6, G: 14, B: 26},
		ParticleSize: 1.2, RotationSpeed: 0.15, Sensitivity: 0.8, Bloom: 0.7,
		Description: "glacier drift",
	},
	{
		Mode: ModeSurface, Geometry: GeoTorus,
		Primary:      RGB{R: 255, G: 120, B: 30},
		Secondary:    RGB{R: 120, G: 20, B: 20},
		Background:   RGB{R: 14, G: 6, B: 4},
		ParticleSize: 1.0, RotationSpeed: 0.35, Sensitivity: 1.5, Bloom: 1.8,
		Description: "magma ring",
	},
}

// Randomize derives a fresh preset from the RNG: random mode and geometry,
// a hue-spread colour pair on a dark background, scalars inside their
// documented ranges.
func Randomize(r *Rand) *Preset {
	hue := r.Float64()
	p := &Preset{
		Mode:          Mode(r.Intn(int(modeCount))),
		Geometry:      Geometry(r.Intn(int(geometryCount))),
		Primary:       hsvByte(hue, r.RangeF(0.6, 1), r.RangeF(0.8, 1)),
		Secondary:     hsvByte(fract(hue+r.RangeF(0.25, 0.6)), r.RangeF(0.6, 1), r.RangeF(0.8, 1)),
		Background:    hsvByte(fract(hue+0.5), r.RangeF(0.3, 0.7), r.RangeF(0.03, 0.12)),
		ParticleSize:  r.RangeF(0.4, 1.6),
		RotationSpeed: r.RangeF(0.1, 1.5),
		Sensitivity:   r.RangeF(0.6, 1.8),
		Bloom:         r.RangeF(0.5, 2.0),
		Description:   "random roll",
	}
	p.Clamp()
	return p
}

// PresetStore holds the active preset behind a single atomic reference.
// The frame tick loads it once per frame; writers replace the whole object
// so a half-applied preset can never be observed.
type PresetStore struct {
	cur atomic.Pointer[Preset]
	idx int
}

func NewPresetStore() *PresetStore {
	ps := &PresetStore{}
	ps.cur.Store(DefaultPreset())
	return ps
}

// Current returns the active preset. Callers must treat it as read-only.
func (ps *PresetStore) Current() *Preset {
	return ps.cur.Load()
}

// Set clamps and installs a copy of p as the active preset.
func (ps *PresetStore) Set(p *Preset) {
	if p == nil {
		return
	}
	q := *p
	q.Clamp()
	ps.cur.Store(&q)
}

// Cycle advances to the next built-in preset and returns it.
func (ps *PresetStore) Cycle() *Preset {
	ps.idx = (ps.idx + 1) % len(Builtins)
	q := Builtins[ps.idx]
	ps.cur.Store(&q)
	return &q
}

// CycleMode keeps the current preset but steps to the next mode.
func (ps *PresetStore) CycleMode() *Preset {
	q := *ps.Current()
	q.Mode = q.Mode.Next()
	ps.cur.Store(&q)
	return &q
}

// CycleGeometry keeps the current preset but steps to the next base mesh.
func (ps *PresetStore) CycleGeometry() *Preset {
	q := *ps.Current()
	q.Geometry = q.Geometry.Next()
	ps.cur.Store(&q)
	return &q
}

// presetFile is the JSON schema shared by preset files and the generator
// response. Pointer fields expose which keys were actually present so a
// partial object can be rejected as a unit.
type presetFile struct {
	Mode            *string  `json:"mode"`
	Geometry        *string  `json:"geometry"`
	PrimaryColor    *string  `json:"primaryColor"`
	SecondaryColor  *string  `json:"secondaryColor"`
	BackgroundColor *string  `json:"backgroundColor"`
	ParticleSize    *float64 `json:"particleSize"`
	RotationSpeed   *float64 `json:"rotationSpeed"`
	Sensitivity     *float64 `json:"sensitivity"`
	BloomIntensity  *float64 `json:"bloomIntensity"`
	Description     string   `json:"description,omitempty"`
}

// DecodePreset parses a complete preset object. Every field except the
// description must be present and well-formed or the whole object is
// rejected; numeric fields outside their range are clamped, not refused.
func DecodePreset(data []byte) (*Preset, error) {
	var f presetFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	switch {
	case f.Mode == nil:
		return nil, fmt.Errorf("preset: missing mode")
	case f.Geometry == nil:
		return nil, fmt.Errorf("preset: missing geometry")
	case f.PrimaryColor == nil:
		return nil, fmt.Errorf("preset: missing primaryColor")
	case f.SecondaryColor == nil:
		return nil, fmt.Errorf("preset: missing secondaryColor")
	case f.BackgroundColor == nil:
		return nil, fmt.Errorf("preset: missing backgroundColor")
	case f.ParticleSize == nil:
		return nil, fmt.Errorf("preset: missing particleSize")
	case f.RotationSpeed == nil:
		return nil, fmt.Errorf("preset: missing rotationSpeed")
	case f.Sensitivity == nil:
		return nil, fmt.Errorf("preset: missing sensitivity")
	case f.BloomIntensity == nil:
		return nil, fmt.Errorf("preset: missing bloomIntensity")
	}

	mode, err := ParseMode(*f.Mode)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	geom, err := ParseGeometry(*f.Geometry)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	primary, err := ParseHexColor(*f.PrimaryColor)
	if err != nil {
		return nil, fmt.Errorf("preset primaryColor: %w", err)
	}
	secondary, err := ParseHexColor(*f.SecondaryColor)
	if err != nil {
		return nil, fmt.Errorf("preset secondaryColor: %w", err)
	}
	background, err := ParseHexColor(*f.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("preset backgroundColor: %w", err)
	}

	p := &Preset{
		Mode:          mode,
		Geometry:      geom,
		Primary:       primary,
		Secondary:     secondary,
		Background:    background,
		ParticleSize:  *f.ParticleSize,
		RotationSpeed: *f.RotationSpeed,
		Sensitivity:   *f.Sensitivity,
		Bloom:         *f.BloomIntensity,
		Description:   f.Description,
	}
	p.Clamp()
	return p, nil
}

// EncodePreset renders a preset back into the JSON schema, indented for
// hand editing.
func EncodePreset(p *Preset) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("preset: nil")
	}
	mode := p.Mode.String()
	geom := p.Geometry.String()
	primary := p.Primary.Hex()
	secondary := p.Secondary.Hex()
	background := p.Background.Hex()
	f := presetFile{
		Mode:            &mode,
		Geometry:        &geom,
		PrimaryColor:    &primary,
		SecondaryColor:  &secondary,
		BackgroundColor: &background,
		ParticleSize:    &p.ParticleSize,
		RotationSpeed:   &p.RotationSpeed,
		Sensitivity:     &p.Sensitivity,
		BloomIntensity:  &p.Bloom,
		Description:     p.Description,
	}
	return json.MarshalIndent(&f, "", "  ")
}

// LoadPresetFile reads a complete preset from a JSON file.
func LoadPresetFile(path string) (*Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodePreset(b)
}

// SavePresetFile writes the preset to path in the JSON schema.
func SavePresetFile(path string, p *Preset) error {
	b, err := EncodePreset(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
