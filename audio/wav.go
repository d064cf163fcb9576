package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

var ErrNoSamples = errors.New("no audio samples")

// Clip is a decoded recording held in memory.
type Clip struct {
	Format  beep.Format
	Samples []int16
}

func DecodeWAV(r io.Reader) (*Clip, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	defer s.Close()

	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	return newClip(buf, format)
}

func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func newClip(buf *beep.Buffer, format beep.Format) (*Clip, error) {
	if buf.Len() == 0 {
		return nil, ErrNoSamples
	}

	frames := make([][2]float64, buf.Len())
	s := buf.Streamer(0, buf.Len())
	for got := 0; got < len(frames); {
		n, ok := s.Stream(frames[got:])
		got += n
		if !ok {
			frames = frames[:got]
			break
		}
	}

	return &Clip{
		Format:  format,
		Samples: Mono16(frames),
	}, nil
}

func (c *Clip) SampleRate() float64 {
	return float64(c.Format.SampleRate)
}

func (c *Clip) Duration() time.Duration {
	return c.Format.SampleRate.D(len(c.Samples))
}

// Streamer plays Samples from the start, so filtering applied to them is
// heard too.
func (c *Clip) Streamer() beep.StreamSeeker {
	return &clipStreamer{samples: c.Samples}
}

type clipStreamer struct {
	samples []int16
	pos     int
}

func (s *clipStreamer) Stream(frames [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	for n < len(frames) && s.pos < len(s.samples) {
		v := float64(s.samples[s.pos]) / fullScale
		frames[n] = [2]float64{v, v}
		n++
		s.pos++
	}
	return n, true
}

func (s *clipStreamer) Err() error { return nil }

func (s *clipStreamer) Len() int { return len(s.samples) }

func (s *clipStreamer) Position() int { return s.pos }

func (s *clipStreamer) Seek(p int) error {
	if p < 0 || p > len(s.samples) {
		return fmt.Errorf("seek %d out of range [0, %d]", p, len(s.samples))
	}
	s.pos = p
	return nil
}

// Blocks splits the clip into consecutive blocks of n samples. A short tail
// is dropped.
func (c *Clip) Blocks(n int) [][]int16 {
	if n <= 0 {
		return nil
	}
	var out [][]int16
	for i := 0; i+n <= len(c.Samples); i += n {
		out = append(out, c.Samples[i:i+n])
	}
	return out
}

// Window returns the n samples starting at elapsed, or false once the clip
// has run out.
func (c *Clip) Window(elapsed time.Duration, n int) ([]int16, bool) {
	start := c.Format.SampleRate.N(elapsed)
	if start < 0 || start+n > len(c.Samples) {
		return nil, false
	}
	return c.Samples[start : start+n], true
}
