package audio

const fullScale = 32767

// ToInt16 scales a [-1,1] sample to the 16 bit range, clipping anything
// louder.
func ToInt16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * fullScale)
}

// Mono16 mixes stereo frames down to one 16 bit channel.
func Mono16(frames [][2]float64) []int16 {
	out := make([]int16, len(frames))
	for i, f := range frames {
		out[i] = ToInt16((f[0] + f[1]) / 2)
	}
	return out
}
