package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	playbackDepthBytes = 2 // 16-bit signed LE, what the decoders emit
	playbackVolume     = 0.8
)

// FileSource decodes an audio file, plays it through the default output
// device, and feeds every decoded sample to its analyzer so the spectrum
// follows what is heard.
type FileSource struct {
	an     *Analyzer
	logger *log.Logger
	path   string

	mu     sync.Mutex
	file   *os.File
	stream pcmStream
	player oto.Player
	done   chan struct{}
	closed bool
}

// NewFileSource prepares a source for the given path. Nothing is opened
// until Start.
func NewFileSource(path string, logger *log.Logger) *FileSource {
	if logger == nil {
		logger = log.Default()
	}
	return &FileSource{
		an:     NewAnalyzer(),
		logger: logger,
		path:   path,
		done:   make(chan struct{}),
	}
}

// Start opens the file, brings up the audio device at the file's sample
// rate, and begins playback.
func (s *FileSource) Start() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	stream, err := newStream(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(s.path), err)
	}

	ctx, ready, err := oto.NewContext(stream.SampleRate(), stream.Channels(), playbackDepthBytes)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	tap := &analyzerTap{src: stream, an: s.an, channels: stream.Channels()}
	player := ctx.NewPlayer(tap)
	player.SetVolume(playbackVolume)
	player.Play()

	s.mu.Lock()
	s.file = f
	s.stream = stream
	s.player = player
	s.mu.Unlock()

	bytesPerSec := stream.SampleRate() * stream.Channels() * playbackDepthBytes
	dur := time.Duration(float64(stream.Length()) / float64(bytesPerSec) * float64(time.Second))
	s.logger.Printf("playing %s: %d Hz, %d ch, %s",
		filepath.Base(s.path), stream.SampleRate(), stream.Channels(), dur.Round(time.Second))

	go s.watch()
	return nil
}

// watch closes the done channel once the track has drained.
func (s *FileSource) watch() {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		playing := s.player.IsPlaying()
		s.mu.Unlock()
		if !playing {
			s.logger.Printf("playback finished: %s", filepath.Base(s.path))
			close(s.done)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Done is closed when the track finishes on its own.
func (s *FileSource) Done() <-chan struct{} { return s.done }

// Spectrum implements Source.
func (s *FileSource) Spectrum(dst []float64) []float64 { return s.an.Spectrum(dst) }

// Close stops playback and releases the file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.player != nil {
		s.player.Close()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// analyzerTap forwards every byte the player pulls into the analyzer.
type analyzerTap struct {
	src      io.Reader
	an       *Analyzer
	channels int
}

func (t *analyzerTap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.an.WritePCM16(p[:n], t.channels)
	}
	return n, err
}
