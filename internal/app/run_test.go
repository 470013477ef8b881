package app

import (
	"io"
	"log"
	"testing"

	"vibe/internal/audio"
)

func TestPickSource(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	if _, ok := pickSource(Config{AudioMode: "mic"}, logger).(*audio.MicSource); !ok {
		t.Fatalf("mic mode should pick the capture source")
	}
	if _, ok := pickSource(Config{AudioMode: "file", AudioFile: "track.mp3"}, logger).(*audio.FileSource); !ok {
		t.Fatalf("file mode should pick the playback source")
	}
	if _, ok := pickSource(Config{}, logger).(*audio.SilenceSource); !ok {
		t.Fatalf("empty mode should pick the silence source")
	}
}
