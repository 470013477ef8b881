package audio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV encodes mono 16-bit samples at 44.1 kHz.
func writeTestWAV(t *testing.T, path string, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 44100},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

func TestWAVStreamRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := []int{0, 1000, -1000, 32767, -32768, 12345, -12345, 7}
	writeTestWAV(t, path, samples)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	st, err := newStream(f)
	if err != nil {
		t.Fatalf("newStream() error = %v", err)
	}
	if st.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %d, want 44100", st.SampleRate())
	}
	if st.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", st.Channels())
	}
	if want := int64(len(samples) * 2); st.Length() != want {
		t.Fatalf("Length() = %d, want %d", st.Length(), want)
	}

	raw, err := io.ReadAll(st)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(raw) != len(samples)*2 {
		t.Fatalf("read %d bytes, want %d", len(raw), len(samples)*2)
	}
	for i, want := range samples {
		got := int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
		if got != want {
			t.Fatalf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestWAVStreamSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.wav")
	samples := []int{10, 20, 30, 40, 50, 60}
	writeTestWAV(t, path, samples)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	st, err := newStream(f)
	if err != nil {
		t.Fatalf("newStream() error = %v", err)
	}

	pos, err := st.Seek(4, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if pos != 4 {
		t.Fatalf("Seek() = %d, want 4", pos)
	}

	raw, err := io.ReadAll(st)
	if err != nil {
		t.Fatalf("read after seek: %v", err)
	}
	want := samples[2:]
	if len(raw) != len(want)*2 {
		t.Fatalf("read %d bytes after seek, want %d", len(raw), len(want)*2)
	}
	for i, w := range want {
		got := int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
		if got != w {
			t.Fatalf("sample %d after seek = %d, want %d", i, got, w)
		}
	}

	// Seeking past the end clamps.
	pos, err = st.Seek(10, io.SeekEnd)
	if err != nil {
		t.Fatalf("Seek(end) error = %v", err)
	}
	if pos != st.Length() {
		t.Fatalf("Seek past end = %d, want %d", pos, st.Length())
	}
}

func TestNewStreamRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	garbage := []byte("this is definitely not audio data, just filler bytes!!")

	cases := []struct {
		name    string
		wantSub string
	}{
		{"track.aac", "unsupported audio format"},
		{"track.mp3", "mp3"},
		{"track.wav", "wav"},
		{"track.flac", "flac"},
		{"track.ogg", "ogg"},
	}
	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		if err := os.WriteFile(path, garbage, 0o644); err != nil {
			t.Fatalf("write %s: %v", c.name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", c.name, err)
		}
		_, err = newStream(f)
		f.Close()
		if err == nil {
			t.Fatalf("newStream(%s) accepted garbage", c.name)
		}
		if !strings.Contains(err.Error(), c.wantSub) {
			t.Fatalf("newStream(%s) error = %q, want mention of %q", c.name, err, c.wantSub)
		}
	}
}

func TestSeekTarget(t *testing.T) {
	cases := []struct {
		pos, offset, total int64
		whence             int
		want               int64
	}{
		{0, 10, 100, io.SeekStart, 10},
		{40, 10, 100, io.SeekCurrent, 50},
		{40, -50, 100, io.SeekCurrent, 0},
		{0, -4, 100, io.SeekEnd, 96},
		{0, 500, 100, io.SeekStart, 100},
	}
	for _, c := range cases {
		got := seekTarget(c.pos, c.offset, c.total, c.whence)
		if got != c.want {
			t.Fatalf("seekTarget(%d, %d, %d, %d) = %d, want %d",
				c.pos, c.offset, c.total, c.whence, got, c.want)
		}
	}
}
