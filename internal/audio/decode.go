package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcmStream is a decoded audio file read as 16-bit little-endian PCM.
type pcmStream interface {
	io.ReadSeeker
	Length() int64 // total PCM bytes
	SampleRate() int
	Channels() int
}

// newStream picks a decoder by file extension.
func newStream(f *os.File) (pcmStream, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Stream(f)
	case ".wav":
		return newWAVStream(f)
	case ".flac":
		return newFLACStream(f)
	case ".ogg":
		return newOGGStream(f)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
}

// putInt16LE clamps s to int16 range and writes it little-endian.
func putInt16LE(dst []byte, s int) {
	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}
	binary.LittleEndian.PutUint16(dst, uint16(int16(s)))
}

// seekTarget resolves a Seek call against a known stream length.
func seekTarget(pos, offset, total int64, whence int) int64 {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = pos + offset
	case io.SeekEnd:
		next = total + offset
	}
	if next < 0 {
		next = 0
	}
	if next > total {
		next = total
	}
	return next
}

// pcm16 carries the output position and the tail of a decoded block that
// did not fit the caller's buffer. Decoders that produce whole blocks
// (wav reads, flac frames, ogg packets) embed it.
type pcm16 struct {
	rem []byte
	pos int64
}

// drain serves buffered bytes from the previous block, if any.
func (c *pcm16) drain(p []byte) (int, bool) {
	if len(c.rem) == 0 {
		return 0, false
	}
	n := copy(p, c.rem)
	c.rem = c.rem[n:]
	c.pos += int64(n)
	return n, true
}

// emit copies a freshly decoded block into p and stashes the leftover.
func (c *pcm16) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		c.rem = raw[n:]
	}
	c.pos += int64(n)
	return n
}

func (c *pcm16) reset(pos int64) {
	c.rem = nil
	c.pos = pos
}

// --- MP3 ---

// mp3Stream wraps go-mp3, which already yields 16-bit LE stereo.
type mp3Stream struct {
	dec *mp3.Decoder
}

func newMP3Stream(f *os.File) (*mp3Stream, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return &mp3Stream{dec: dec}, nil
}

func (s *mp3Stream) Read(p []byte) (int, error) { return s.dec.Read(p) }
func (s *mp3Stream) Seek(offset int64, whence int) (int64, error) {
	return s.dec.Seek(offset, whence)
}
func (s *mp3Stream) Length() int64   { return s.dec.Length() }
func (s *mp3Stream) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Stream) Channels() int   { return 2 }

// --- WAV ---

type wavStream struct {
	pcm16
	f        *os.File
	dataPos  int64 // file offset of the PCM chunk
	rate     int
	channels int
	srcDepth int   // source bits per sample
	srcFrame int64 // source bytes per sample frame
	total    int64 // output bytes
}

func newWAVStream(f *os.File) (*wavStream, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: invalid file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: locate pcm chunk: %w", err)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("wav: unsupported bit depth %d", depth)
	}
	srcFrame := int64(channels) * int64(depth) / 8
	if srcFrame == 0 {
		return nil, fmt.Errorf("wav: empty sample frame")
	}

	dataPos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("wav: pcm offset: %w", err)
	}

	return &wavStream{
		f:        f,
		dataPos:  dataPos,
		rate:     int(dec.SampleRate),
		channels: channels,
		srcDepth: depth,
		srcFrame: srcFrame,
		total:    dec.PCMLen() / srcFrame * int64(channels) * 2,
	}, nil
}

func (s *wavStream) Read(p []byte) (int, error) {
	if n, ok := s.drain(p); ok {
		return n, nil
	}

	srcBytes := s.srcDepth / 8
	want := len(p) / 2
	if want == 0 {
		want = 1
	}
	src := make([]byte, want*srcBytes)
	n, err := io.ReadFull(s.f, src)
	if n < srcBytes {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	count := n / srcBytes
	raw := make([]byte, count*2)
	for i := 0; i < count; i++ {
		off := i * srcBytes
		var v int
		switch s.srcDepth {
		case 8: // unsigned in WAV
			v = (int(src[off]) - 128) << 8
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(src[off:])))
		case 24:
			u := int32(src[off]) | int32(src[off+1])<<8 | int32(src[off+2])<<16
			if u&0x800000 != 0 {
				u |= ^int32(0xFFFFFF)
			}
			v = int(u >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(src[off:])) >> 16)
		}
		putInt16LE(raw[i*2:], v)
	}

	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return s.emit(p, raw), err
}

func (s *wavStream) Seek(offset int64, whence int) (int64, error) {
	next := seekTarget(s.pos, offset, s.total, whence)
	frame := next / (int64(s.channels) * 2)
	if _, err := s.f.Seek(s.dataPos+frame*s.srcFrame, io.SeekStart); err != nil {
		return s.pos, err
	}
	s.reset(next)
	return next, nil
}

func (s *wavStream) Length() int64   { return s.total }
func (s *wavStream) SampleRate() int { return s.rate }
func (s *wavStream) Channels() int   { return s.channels }

// --- FLAC ---

type flacStream struct {
	pcm16
	stream   *flac.Stream
	rate     int
	channels int
	bps      int
	total    int64
}

func newFLACStream(f *os.File) (*flacStream, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacStream{
		stream:   stream,
		rate:     int(info.SampleRate),
		channels: channels,
		bps:      int(info.BitsPerSample),
		total:    int64(info.NSamples) * int64(channels) * 2,
	}, nil
}

func (s *flacStream) Read(p []byte) (int, error) {
	if n, ok := s.drain(p); ok {
		return n, nil
	}

	frame, err := s.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	count := int(frame.Subframes[0].NSamples)
	raw := make([]byte, count*s.channels*2)
	for i := 0; i < count; i++ {
		for ch := 0; ch < s.channels; ch++ {
			v := int(frame.Subframes[ch].Samples[i])
			switch {
			case s.bps > 16:
				v >>= uint(s.bps - 16)
			case s.bps < 16:
				v <<= uint(16 - s.bps)
			}
			putInt16LE(raw[(i*s.channels+ch)*2:], v)
		}
	}
	return s.emit(p, raw), nil
}

func (s *flacStream) Seek(offset int64, whence int) (int64, error) {
	next := seekTarget(s.pos, offset, s.total, whence)
	sample := uint64(next / (int64(s.channels) * 2))
	if _, err := s.stream.Seek(sample); err != nil {
		return s.pos, err
	}
	s.reset(next)
	return next, nil
}

func (s *flacStream) Length() int64   { return s.total }
func (s *flacStream) SampleRate() int { return s.rate }
func (s *flacStream) Channels() int   { return s.channels }

// --- OGG Vorbis ---

type oggStream struct {
	pcm16
	reader   *oggvorbis.Reader
	rate     int
	channels int
	total    int64
}

func newOGGStream(f *os.File) (*oggStream, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}
	channels := reader.Channels()
	return &oggStream{
		reader:   reader,
		rate:     reader.SampleRate(),
		channels: channels,
		total:    reader.Length() * int64(channels) * 2,
	}, nil
}

func (s *oggStream) Read(p []byte) (int, error) {
	if n, ok := s.drain(p); ok {
		return n, nil
	}

	want := len(p) / 2
	if want == 0 {
		want = 1
	}
	samples := make([]float32, want)
	n, err := s.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		putInt16LE(raw[i*2:], int(samples[i]*32767))
	}
	return s.emit(p, raw), err
}

func (s *oggStream) Seek(offset int64, whence int) (int64, error) {
	next := seekTarget(s.pos, offset, s.total, whence)
	if err := s.reader.SetPosition(next / (int64(s.channels) * 2)); err != nil {
		return s.pos, err
	}
	s.reset(next)
	return next, nil
}

func (s *oggStream) Length() int64   { return s.total }
func (s *oggStream) SampleRate() int { return s.rate }
func (s *oggStream) Channels() int   { return s.channels }
