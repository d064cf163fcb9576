package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// Recorder passes a stream through unchanged and keeps the most recent
// samples in a ring.
type Recorder struct {
	lk       sync.Mutex
	buf      [][2]float64
	position int

	sub     beep.Streamer
	scratch [][2]float64
}

func NewRecorder(sub beep.Streamer, size int) *Recorder {
	return &Recorder{
		buf: make([][2]float64, size),
		sub: sub,
	}
}

func (r *Recorder) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.sub.Stream(samples)

	r.lk.Lock()
	defer r.lk.Unlock()

	for i := range samples[:n] {
		r.buf[r.position%len(r.buf)] = samples[i]
		r.position++
	}
	return n, ok
}

func (r *Recorder) Err() error {
	return r.sub.Err()
}

// Pull streams n samples through the recorder and throws them away. It
// stands in for a speaker when nothing else is consuming the stream.
func (r *Recorder) Pull(n int) {
	if cap(r.scratch) < n {
		r.scratch = make([][2]float64, n)
	}
	r.Stream(r.scratch[:n])
}

// Snapshot copies up to len(buf) samples into buf, oldest first, and
// returns how many it copied.
func (r *Recorder) Snapshot(buf [][2]float64) int {
	r.lk.Lock()
	defer r.lk.Unlock()

	lim := len(buf)
	if len(r.buf) < lim {
		lim = len(r.buf)
	}
	if r.position < lim {
		lim = r.position
	}

	start := r.position - lim
	for i := 0; i < lim; i++ {
		buf[i] = r.buf[(start+i)%len(r.buf)]
	}
	return lim
}

// Block returns the latest n samples as a mono 16 bit block.
func (r *Recorder) Block(n int) []int16 {
	buf := make([][2]float64, n)
	got := r.Snapshot(buf)
	return Mono16(buf[:got])
}
