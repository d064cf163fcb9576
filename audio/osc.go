// Package audio produces the sample blocks the staff listens to: test
// tones and arpeggios, WAV files, and a tap that records whatever is
// streamed through it.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
)

// Tone is a generator whose pitch can change while it is streaming.
type Tone interface {
	beep.Streamer
	SetFrequency(hz float64)
	Frequency() float64
}

type OscFunc func(phase float64) float64

func sineOsc(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// softSquareOsc is a sine overdriven into a square with rounded edges.
func softSquareOsc(phase float64) float64 {
	v := math.Sin(2*math.Pi*phase) * 5
	return math.Max(-1, math.Min(1, v))
}

func sawOsc(phase float64) float64 {
	return 2*phase - 1
}

// Wave streams a periodic oscillator. The phase accumulates across
// frequency changes so a retuned wave has no click.
type Wave struct {
	lk         sync.Mutex
	osc        OscFunc
	sampleRate float64
	frequency  float64
	amplitude  float64
	phase      float64
}

func newWave(osc OscFunc, sr beep.SampleRate, freq, amp float64) *Wave {
	return &Wave{
		osc:        osc,
		sampleRate: float64(sr),
		frequency:  freq,
		amplitude:  amp,
	}
}

func NewSineWave(sr beep.SampleRate, freq, amp float64) *Wave {
	return newWave(sineOsc, sr, freq, amp)
}

func NewSquareWave(sr beep.SampleRate, freq, amp float64) *Wave {
	return newWave(softSquareOsc, sr, freq, amp)
}

func NewSawWave(sr beep.SampleRate, freq, amp float64) *Wave {
	return newWave(sawOsc, sr, freq, amp)
}

// NewTone builds the named waveform: sine, square or saw.
func NewTone(kind string, sr beep.SampleRate, freq, amp float64) (Tone, error) {
	switch kind {
	case "sine":
		return NewSineWave(sr, freq, amp), nil
	case "square":
		return NewSquareWave(sr, freq, amp), nil
	case "saw":
		return NewSawWave(sr, freq, amp), nil
	default:
		return nil, fmt.Errorf("unknown waveform %q", kind)
	}
}

func (w *Wave) Stream(samples [][2]float64) (n int, ok bool) {
	w.lk.Lock()
	defer w.lk.Unlock()

	step := w.frequency / w.sampleRate
	for i := range samples {
		v := w.osc(w.phase) * w.amplitude
		samples[i][0] = v
		samples[i][1] = v
		_, w.phase = math.Modf(w.phase + step)
	}
	return len(samples), true
}

func (w *Wave) Err() error {
	return nil
}

func (w *Wave) SetFrequency(hz float64) {
	w.lk.Lock()
	defer w.lk.Unlock()
	w.frequency = hz
}

func (w *Wave) Frequency() float64 {
	w.lk.Lock()
	defer w.lk.Unlock()
	return w.frequency
}

func (w *Wave) SetAmplitude(amp float64) {
	w.lk.Lock()
	defer w.lk.Unlock()
	w.amplitude = amp
}
