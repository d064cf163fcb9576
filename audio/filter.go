package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// Biquad is a two pole Butterworth filter, low-pass or high-pass. The
// low-pass softens upper harmonics ahead of detection, the high-pass
// strips DC offset and hum.
type Biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
	sampleRate         float64
	highPass           bool
}

func NewButterworth(cutoffFreq, sampleRate float64) *Biquad {
	b := &Biquad{
		sampleRate: sampleRate,
	}

	b.UpdateCutoff(cutoffFreq)
	return b
}

func NewHighPass(cutoffFreq, sampleRate float64) *Biquad {
	b := &Biquad{
		sampleRate: sampleRate,
		highPass:   true,
	}

	b.UpdateCutoff(cutoffFreq)
	return b
}

func (b *Biquad) UpdateCutoff(cutoffFreq float64) {
	wc := 2 * math.Pi * cutoffFreq / b.sampleRate

	cosw := math.Cos(wc)
	alpha := math.Sin(wc) / (2 * 0.707) // Q = 0.707
	a0 := 1 + alpha

	if b.highPass {
		b.b0 = (1 + cosw) / 2 / a0
		b.b1 = -(1 + cosw) / a0
		b.b2 = (1 + cosw) / 2 / a0
	} else {
		b.b0 = (1 - cosw) / 2 / a0
		b.b1 = (1 - cosw) / a0
		b.b2 = (1 - cosw) / 2 / a0
	}
	b.a1 = -2 * cosw / a0
	b.a2 = (1 - alpha) / a0
}

// Sample filters one value.
func (b *Biquad) Sample(x float64) float64 {
	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	b.x2 = b.x1
	b.x1 = x
	b.y2 = b.y1
	b.y1 = y
	return y
}

// Block filters a 16 bit block in place.
func (b *Biquad) Block(samples []int16) {
	for i, s := range samples {
		samples[i] = ToInt16(b.Sample(float64(s) / fullScale))
	}
}

func (b *Biquad) Process(src beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = src.Stream(samples)
		for i := range samples[:n] {
			y := b.Sample((samples[i][0] + samples[i][1]) / 2)
			samples[i][0] = y
			samples[i][1] = y
		}
		return n, ok
	})
}
