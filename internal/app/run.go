// Package app wires the window, audio source, engine, muse client, and
// renderer into the interactive session loop.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"vibe/internal/audio"
	"vibe/internal/engine"
	"vibe/internal/muse"
	"vibe/internal/render"
)

const (
	windowTitle     = "vibe"
	defaultWidth    = 1280
	defaultHeight   = 720
	maxFrameDT      = 0.1
	savedPresetPath = "vibe-preset.json"
)

// Config carries everything Run needs. Zero values mean default window
// size, the silence source, and no muse endpoint.
type Config struct {
	Width  int
	Height int

	AudioMode string // "file", "mic", or "" for the silence source
	AudioFile string

	PresetPath string // initial preset JSON, optional
	Describe   string // natural-language preset description, optional

	MuseURL   string
	MuseKey   string
	MuseModel string

	Logger *log.Logger
}

// Run owns the calling goroutine, which it locks to the OS thread, until
// the window closes or ctx is canceled. Everything it opens it closes on
// the way out.
func Run(ctx context.Context, cfg Config) error {
	runtime.LockOSThread()

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}

	window, err := render.NewWindow(cfg.Width, cfg.Height, windowTitle)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("VIBE_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	store := engine.NewPresetStore()
	if cfg.PresetPath != "" {
		if p, err := engine.LoadPresetFile(cfg.PresetPath); err != nil {
			logger.Printf("preset %s rejected, keeping default: %v", cfg.PresetPath, err)
		} else {
			store.Set(p)
		}
	}
	eng := engine.New(seed, store)
	rng := engine.NewRand(seed ^ 0xD1CE)

	src := pickSource(cfg, logger)
	if err := src.Start(); err != nil {
		logger.Printf("audio unavailable, continuing in silence: %v", err)
		src.Close()
		src = audio.NewSilenceSource()
	}
	defer src.Close()

	rend, err := render.NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	mc := muse.New(cfg.MuseURL, cfg.MuseKey, logger)
	if cfg.MuseModel != "" {
		mc.SetModel(cfg.MuseModel)
	}

	// Generation runs off-thread; the reply lands in presetCh and is
	// applied between frames. One request in flight at a time.
	presetCh := make(chan *engine.Preset, 1)
	museBusy := false
	request := func(desc string) {
		switch {
		case desc == "":
			return
		case !mc.Configured():
			logger.Printf("muse: set VIBE_MUSE_URL to generate presets from text")
			return
		case museBusy:
			logger.Printf("muse: request already in flight")
			return
		}
		museBusy = true
		go func() {
			p, err := mc.Generate(ctx, desc)
			if err != nil {
				logger.Printf("%v", err)
			}
			presetCh <- p // nil on failure keeps the current preset
		}()
	}
	request(cfg.Describe)

	input := render.NewInput()
	spectrum := make(engine.Spectrum, 0, audio.NumBins)

	start := glfw.GetTime()
	last := start
	for !window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > maxFrameDT {
			dt = maxFrameDT
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		// Preset swaps land here, strictly between frames.
		select {
		case p := <-presetCh:
			museBusy = false
			if p != nil {
				store.Set(p)
			}
		default:
		}
		if input.JustPressed(window, glfw.KeySpace) {
			p := store.Cycle()
			logger.Printf("preset: %s/%s %q", p.Mode, p.Geometry, p.Description)
		}
		if input.JustPressed(window, glfw.KeyG) {
			logger.Printf("geometry: %s", store.CycleGeometry().Geometry)
		}
		if input.JustPressed(window, glfw.KeyM) {
			logger.Printf("mode: %s", store.CycleMode().Mode)
		}
		if input.JustPressed(window, glfw.KeyR) {
			p := engine.Randomize(rng)
			store.Set(p)
			logger.Printf("preset: %s/%s %q", p.Mode, p.Geometry, p.Description)
		}
		if input.JustPressed(window, glfw.KeyP) {
			request(cfg.Describe)
		}
		if input.JustPressed(window, glfw.KeyS) {
			if err := engine.SavePresetFile(savedPresetPath, store.Current()); err != nil {
				logger.Printf("save preset: %v", err)
			} else {
				logger.Printf("preset saved to %s", savedPresetPath)
			}
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		px, py := render.PointerNDC(window)
		eng.SetPointer(px, py)

		spectrum = src.Spectrum(spectrum)
		out := eng.Tick(engine.FrameInput{Time: now - start, DT: dt, Spectrum: spectrum})
		rend.Draw(out, fbW, fbH)
		window.SwapBuffers()
	}
	return nil
}

// pickSource builds the source the config asks for. Start failures are the
// caller's to handle; the silence fallback never fails.
func pickSource(cfg Config, logger *log.Logger) audio.Source {
	switch cfg.AudioMode {
	case "mic":
		return audio.NewMicSource(logger)
	case "file":
		return audio.NewFileSource(cfg.AudioFile, logger)
	default:
		return audio.NewSilenceSource()
	}
}
