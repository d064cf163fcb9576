package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Source hands out the block a frame analyses.
type Source interface {
	// Block returns n samples for the frame at elapsed since start, or nil
	// when there is nothing to hear.
	Block(elapsed time.Duration, n int) []int16
	SampleRate() float64
}

// Live taps a generated stream. Unless a speaker is pulling the stream,
// each Block advances the stream by one frame's worth of samples.
type Live struct {
	rec  *Recorder
	sr   beep.SampleRate
	fps  int
	pull bool
}

// NewLive records s. With pull set, Block drives the stream itself.
func NewLive(s beep.Streamer, sr beep.SampleRate, fps, ring int, pull bool) *Live {
	return &Live{
		rec:  NewRecorder(s, ring),
		sr:   sr,
		fps:  fps,
		pull: pull,
	}
}

// Streamer is the recording tap to hand a speaker.
func (l *Live) Streamer() beep.Streamer {
	return l.rec
}

func (l *Live) Block(_ time.Duration, n int) []int16 {
	if l.pull {
		l.rec.Pull(int(l.sr) / l.fps)
	}
	return l.rec.Block(n)
}

func (l *Live) SampleRate() float64 {
	return float64(l.sr)
}

// Playback steps through a clip in real time.
type Playback struct {
	clip *Clip
	loop bool
}

func NewPlayback(c *Clip, loop bool) *Playback {
	return &Playback{clip: c, loop: loop}
}

func (p *Playback) Block(elapsed time.Duration, n int) []int16 {
	if d := p.clip.Duration(); p.loop && d > 0 {
		elapsed %= d
	}
	b, ok := p.clip.Window(elapsed, n)
	if !ok {
		return nil
	}
	return b
}

// Streamer plays the samples Block reads, looping when the playback
// loops.
func (p *Playback) Streamer() beep.Streamer {
	if p.loop {
		return beep.Loop(-1, p.clip.Streamer())
	}
	return p.clip.Streamer()
}

func (p *Playback) SampleRate() float64 {
	return p.clip.SampleRate()
}
