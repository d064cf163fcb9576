package pitch

import (
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
	"github.com/maddyblue/go-dsp/window"
)

// SpectralPeak returns the frequency of the strongest Hann-windowed FFT bin
// between MinFreq and MaxFreq. It is a coarse cross-check for Estimate and
// its resolution is sampleRate/len(samples).
func SpectralPeak(samples []int16, sampleRate float64) (float64, bool) {
	if len(samples) < MinBlock || !(sampleRate > 0) {
		return 0, false
	}

	x := normalize(samples)
	if rms(x) < SilenceRMS {
		return 0, false
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	binWidth := sampleRate / float64(len(x))

	var best int
	var bestMag float64
	for k := 1; k <= len(spectrum)/2; k++ {
		f := float64(k) * binWidth
		if f < MinFreq || f > MaxFreq {
			continue
		}
		if m := cmplx.Abs(spectrum[k]); m > bestMag {
			bestMag = m
			best = k
		}
	}
	if best == 0 {
		return 0, false
	}
	return float64(best) * binWidth, true
}
