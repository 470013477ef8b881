package engine

import (
	"path/filepath"
	"strings"
	"testing"
)

const fullPresetJSON = `{
  "mode": "ferrofluid",
  "geometry": "torus",
  "primaryColor": "#40e0d0",
  "secondaryColor": "#ff40a0",
  "backgroundColor": "#080a18",
  "particleSize": 1.2,
  "rotationSpeed": 0.8,
  "sensitivity": 1.4,
  "bloomIntensity": 2.0,
  "description": "liquid metal"
}`

func TestDecodePreset(t *testing.T) {
	p, err := DecodePreset([]byte(fullPresetJSON))
	if err != nil {
		t.Fatalf("DecodePreset() error: %v", err)
	}
	if p.Mode != ModeFerrofluid || p.Geometry != GeoTorus {
		t.Fatalf("mode/geometry = %v/%v, want ferrofluid/torus", p.Mode, p.Geometry)
	}
	if p.Primary != (RGB{R: 0x40, G: 0xe0, B: 0xd0}) {
		t.Fatalf("primary = %v, want #40e0d0", p.Primary)
	}
	if p.ParticleSize != 1.2 || p.Bloom != 2.0 {
		t.Fatalf("scalars = %v/%v, want 1.2/2.0", p.ParticleSize, p.Bloom)
	}
	if p.Description != "liquid metal" {
		t.Fatalf("description = %q", p.Description)
	}
}

func TestDecodePresetRejectsPartial(t *testing.T) {
	// Dropping any required key rejects the whole object; a partial preset
	// must never merge into the active one.
	for _, key := range []string{
		"mode", "geometry", "primaryColor", "secondaryColor",
		"backgroundColor", "particleSize", "rotationSpeed",
		"sensitivity", "bloomIntensity",
	} {
		lines := strings.Split(fullPresetJSON, "\n")
		var kept []string
		for _, l := range lines {
			if strings.Contains(l, `"`+key+`"`) {
				continue
			}
			kept = append(kept, l)
		}
		src := strings.Join(kept, "\n")
		if _, err := DecodePreset([]byte(src)); err == nil {
			t.Fatalf("DecodePreset accepted a preset missing %q", key)
		}
	}
}

func TestDecodePresetRejectsBadValues(t *testing.T) {
	bad := []string{
		strings.Replace(fullPresetJSON, "ferrofluid", "vortex", 1),
		strings.Replace(fullPresetJSON, "torus", "teapot", 1),
		strings.Replace(fullPresetJSON, "#40e0d0", "#xyzxyz", 1),
		`{"mode": 7}`,
		`not json`,
	}
	for i, src := range bad {
		if _, err := DecodePreset([]byte(src)); err == nil {
			t.Fatalf("case %d: DecodePreset accepted %q", i, src)
		}
	}
}

func TestDecodePresetClampsScalars(t *testing.T) {
	src := strings.Replace(fullPresetJSON, "1.2", "999", 1)
	p, err := DecodePreset([]byte(src))
	if err != nil {
		t.Fatalf("DecodePreset() error: %v", err)
	}
	if p.ParticleSize != MaxParticleSize {
		t.Fatalf("ParticleSize = %v, want clamped to %v", p.ParticleSize, MaxParticleSize)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := Builtins[2]
	data, err := EncodePreset(&orig)
	if err != nil {
		t.Fatalf("EncodePreset() error: %v", err)
	}
	back, err := DecodePreset(data)
	if err != nil {
		t.Fatalf("DecodePreset() error: %v", err)
	}
	if *back != orig {
		t.Fatalf("round trip = %+v, want %+v", *back, orig)
	}
}

func TestPresetFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.json")
	orig := Builtins[1]
	if err := SavePresetFile(path, &orig); err != nil {
		t.Fatalf("SavePresetFile() error: %v", err)
	}
	back, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("LoadPresetFile() error: %v", err)
	}
	if *back != orig {
		t.Fatalf("file round trip = %+v, want %+v", *back, orig)
	}
}

func TestPresetClamp(t *testing.T) {
	p := Preset{ParticleSize: -3, RotationSpeed: 99, Sensitivity: -1, Bloom: 99}
	p.Clamp()
	if p.ParticleSize != MinParticleSize {
		t.Fatalf("ParticleSize = %v, want %v", p.ParticleSize, MinParticleSize)
	}
	if p.RotationSpeed != MaxRotation || p.Sensitivity != 0 || p.Bloom != MaxBloom {
		t.Fatalf("clamped scalars = %+v", p)
	}
}

func TestPresetStoreCycle(t *testing.T) {
	ps := NewPresetStore()
	if ps.Current() == nil {
		t.Fatalf("new store has no preset")
	}
	first := *ps.Current()
	seen := map[string]bool{first.Description: true}
	for i := 1; i < len(Builtins); i++ {
		seen[ps.Cycle().Description] = true
	}
	if len(seen) != len(Builtins) {
		t.Fatalf("cycled through %d distinct presets, want %d", len(seen), len(Builtins))
	}
	if got := *ps.Cycle(); got != first {
		t.Fatalf("cycle did not wrap to the first builtin: %+v", got)
	}
}

func TestPresetStoreSetClamps(t *testing.T) {
	ps := NewPresetStore()
	p := *DefaultPreset()
	p.Bloom = 99
	ps.Set(&p)
	if got := ps.Current().Bloom; got != MaxBloom {
		t.Fatalf("stored Bloom = %v, want clamped %v", got, MaxBloom)
	}
	if p.Bloom != 99 {
		t.Fatalf("Set mutated the caller's preset")
	}
}

func TestPresetStoreCycleModeKeepsRest(t *testing.T) {
	ps := NewPresetStore()
	before := *ps.Current()
	after := *ps.CycleMode()
	if after.Mode != before.Mode.Next() {
		t.Fatalf("mode = %v, want %v", after.Mode, before.Mode.Next())
	}
	after.Mode = before.Mode
	if after != before {
		t.Fatalf("CycleMode changed more than the mode: %+v vs %+v", after, before)
	}
}

func TestRandomizeDeterministic(t *testing.T) {
	a := Randomize(NewRand(7))
	b := Randomize(NewRand(7))
	if *a != *b {
		t.Fatalf("same seed produced different presets: %+v vs %+v", a, b)
	}
	c := Randomize(NewRand(8))
	if *a == *c {
		t.Fatalf("different seeds produced identical presets")
	}
	if a.ParticleSize < MinParticleSize || a.ParticleSize > MaxParticleSize {
		t.Fatalf("random ParticleSize %v out of range", a.ParticleSize)
	}
	if int(a.Mode) >= int(modeCount) || int(a.Geometry) >= int(geometryCount) {
		t.Fatalf("random enums out of range: %v/%v", a.Mode, a.Geometry)
	}
}
