// Package pitch estimates the fundamental frequency of a short block of
// 16-bit audio using time-domain autocorrelation.
package pitch

import "math"

const (
	// MinBlock is the shortest block worth searching.
	MinBlock = 100

	MinFreq = 80.0
	MaxFreq = 2000.0

	// SilenceRMS is the normalised RMS below which a block is treated as
	// silence.
	SilenceRMS = 0.01

	DefaultThresholdBase = 0.2
	DefaultThresholdSpan = 0.5
)

const fullScale = 32768.0

// PeakRatio is how close to the best correlation a shorter lag has to
// come to be taken as the period. Every whole multiple of the period
// correlates about as well as the period itself.
const PeakRatio = 0.9

// Result is the outcome of one period search along with the numbers that
// led to it.
type Result struct {
	Frequency float64
	Ok        bool
	RMS       float64
	MinPeriod int
	MaxPeriod int

	// Best is the lag with the highest correlation in the search range.
	Best            int
	BestCorrelation float64

	// Period is the lag reported, the shortest peak near Best. Zero when
	// no lag qualified.
	Period      int
	Correlation float64
}

// Estimate returns the fundamental frequency of samples, or false when no
// period correlates above threshold.
func Estimate(samples []int16, sampleRate, threshold float64) (float64, bool) {
	r := Analyze(samples, sampleRate, threshold)
	return r.Frequency, r.Ok
}

// Analyze runs the brute-force period search over lags
// [round(sr/2000), round(sr/80)), the upper bound clamped to len/2-1.
// The score for a lag is the mean product of the normalised signal with
// itself shifted by that lag. Ties keep the shortest lag.
//
// The reported period is the shortest lag that is a local maximum, follows
// a dip below half its own score, and scores within PeakRatio of the best.
// Taking the plain maximum locks onto multiples of the period whenever the
// block holds a whole number of them.
func Analyze(samples []int16, sampleRate, threshold float64) Result {
	var r Result
	if len(samples) < MinBlock || !(sampleRate > 0) {
		return r
	}

	x := normalize(samples)
	r.RMS = rms(x)
	if r.RMS < SilenceRMS {
		return r
	}

	r.MinPeriod = int(math.Round(sampleRate / MaxFreq))
	r.MaxPeriod = int(math.Round(sampleRate / MinFreq))
	if lim := len(x)/2 - 1; r.MaxPeriod > lim {
		r.MaxPeriod = lim
	}
	if r.MinPeriod >= r.MaxPeriod {
		return r
	}

	// from lag 0 so a dip below MinPeriod still counts
	c := make([]float64, r.MaxPeriod+1)
	for p := range c {
		c[p] = lagProduct(x, p)
	}

	r.Best = r.MinPeriod
	for p := r.MinPeriod; p < r.MaxPeriod; p++ {
		if c[p] > r.BestCorrelation {
			r.BestCorrelation = c[p]
			r.Best = p
		}
	}
	if r.BestCorrelation <= threshold {
		return r
	}

	r.Period = firstPeak(c, r.MinPeriod, r.MaxPeriod, PeakRatio*r.BestCorrelation, threshold)
	if r.Period <= 0 {
		return r
	}
	r.Correlation = c[r.Period]

	f := sampleRate / float64(r.Period)
	if f < MinFreq || f > MaxFreq {
		return r
	}
	r.Frequency = f
	r.Ok = true
	return r
}

// firstPeak returns the shortest lag in [lo, hi) that is a local maximum
// scoring at least floor and above threshold. The score must have dropped
// below half of the peak somewhere before it. Zero when no lag qualifies.
func firstPeak(c []float64, lo, hi int, floor, threshold float64) int {
	if lo < 1 {
		lo = 1
	}
	low := c[0]
	for q := 1; q < lo; q++ {
		low = math.Min(low, c[q])
	}
	for p := lo; p < hi; p++ {
		if c[p] > c[p-1] && c[p] >= c[p+1] && c[p] >= floor && c[p] > threshold && low < c[p]/2 {
			return p
		}
		low = math.Min(low, c[p])
	}
	return 0
}

// Threshold maps a sensitivity knob onto a correlation threshold. Full
// sensitivity gives base, none gives base+span.
func Threshold(sensitivity, base, span float64) float64 {
	sensitivity = math.Max(0, math.Min(1, sensitivity))
	return base + (1-sensitivity)*span
}

func normalize(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / fullScale
	}
	return out
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func lagProduct(x []float64, p int) float64 {
	n := len(x) - p
	a, b := x[:n], x[p:p+n]

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum / float64(n)
}
