package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"vibe/internal/app"
)

func main() {
	audioMode := flag.String("audio", "", "audio source: file or mic (default: idle ambient visuals)")
	audioFile := flag.String("file", "", "audio file to play (.mp3, .wav, .flac, .ogg); implies -audio file")
	describe := flag.String("describe", "", "generate the starting preset from this description (needs VIBE_MUSE_URL)")
	presetPath := flag.String("preset", "", "preset JSON file to load at startup")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	flag.Parse()

	mode := *audioMode
	if mode == "" && *audioFile != "" {
		mode = "file"
	}
	switch mode {
	case "", "file", "mic":
	default:
		fmt.Fprintf(os.Stderr, "unknown -audio mode %q (want file or mic)\n", mode)
		os.Exit(1)
	}
	if mode == "file" && *audioFile == "" {
		fmt.Fprintln(os.Stderr, "-audio file needs -file <path>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := app.Config{
		Width:      *width,
		Height:     *height,
		AudioMode:  mode,
		AudioFile:  *audioFile,
		PresetPath: *presetPath,
		Describe:   *describe,
		MuseURL:    os.Getenv("VIBE_MUSE_URL"),
		MuseKey:    os.Getenv("VIBE_MUSE_KEY"),
		MuseModel:  os.Getenv("VIBE_MUSE_MODEL"),
		Logger:     log.New(os.Stderr, "", log.LstdFlags),
	}
	if err := app.Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vibe: %v\n", err)
		os.Exit(1)
	}
}
