// Package audio supplies the spectrum data that drives the scene: decoded
// file playback, microphone capture, or a synthetic fallback when neither
// is available.
package audio

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source produces byte-scale frequency data for the engine.
type Source interface {
	// Spectrum fills dst with the latest analysis window, one level in
	// 0..255 per bin, reallocating dst when it is too small.
	Spectrum(dst []float64) []float64
	// Start begins producing data. Callers may swap a source that fails
	// to start for a SilenceSource and keep running.
	Start() error
	Close() error
}

// SilenceSource synthesizes a gentle bass-weighted spectrum so the scene
// keeps breathing when no real audio is available.
type SilenceSource struct {
	mu    sync.Mutex
	rng   *rand.Rand
	epoch time.Time
}

// NewSilenceSource returns a SilenceSource seeded from the clock.
func NewSilenceSource() *SilenceSource {
	return &SilenceSource{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		epoch: time.Now(),
	}
}

// Start implements Source. It never fails.
func (s *SilenceSource) Start() error { return nil }

// Close implements Source.
func (s *SilenceSource) Close() error { return nil }

// Spectrum fills dst with a slow swell plus a faster ripple, both decaying
// toward the treble bins, with a little noise on top.
func (s *SilenceSource) Spectrum(dst []float64) []float64 {
	if cap(dst) < NumBins {
		dst = make([]float64, NumBins)
	}
	dst = dst[:NumBins]

	s.mu.Lock()
	t := time.Since(s.epoch).Seconds()
	for i := range dst {
		fi := float64(i)
		swell := 0.5 + 0.5*math.Sin(t*0.7-fi*0.045)
		ripple := 0.3 + 0.3*math.Sin(t*1.2+fi*0.11)
		level := (swell*36 + ripple*18) * math.Exp(-fi*0.012)
		level += s.rng.Float64() * 4
		if level < 0 {
			level = 0
		} else if level > 255 {
			level = 255
		}
		dst[i] = level
	}
	s.mu.Unlock()
	return dst
}
