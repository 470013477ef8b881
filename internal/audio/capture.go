package audio

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

const (
	captureRate   = 44100
	captureFrames = 1024
)

// MicSource feeds the analyzer from the default input device.
type MicSource struct {
	an     *Analyzer
	logger *log.Logger
	stream *portaudio.Stream
	inited bool
}

// NewMicSource prepares a microphone source. The device is opened by Start.
func NewMicSource(logger *log.Logger) *MicSource {
	if logger == nil {
		logger = log.Default()
	}
	return &MicSource{an: NewAnalyzer(), logger: logger}
}

// Start opens the default input stream and begins capturing.
func (s *MicSource) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	s.inited = true
	stream, err := portaudio.OpenDefaultStream(1, 0, captureRate, captureFrames, s.process)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}
	s.stream = stream
	s.logger.Printf("capturing default input at %d Hz", captureRate)
	return nil
}

// process runs on portaudio's callback thread.
func (s *MicSource) process(in []float32) {
	s.an.WriteFloat32(in, 1)
}

// Spectrum implements Source.
func (s *MicSource) Spectrum(dst []float64) []float64 { return s.an.Spectrum(dst) }

// Close stops the stream and tears down portaudio.
func (s *MicSource) Close() error {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
		s.stream = nil
	}
	if s.inited {
		s.inited = false
		return portaudio.Terminate()
	}
	return nil
}
