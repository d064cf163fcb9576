package audio

import (
	"context"
	"sync"
	"time"

	"github.com/whyrusleeping/pitchstaff/note"
)

// Arp steps a tone through a cycle of MIDI notes. A note of 0 or below is
// a rest and leaves the tone silent for that step.
type Arp struct {
	notes    []int
	duration time.Duration

	tone Tone
	mute func(bool)

	lk  sync.Mutex
	pos int
	cur int
}

// NewArp cycles tone through notes, holding each for d. mute, if set, is
// called with true on rests and false otherwise.
func NewArp(tone Tone, notes []int, d time.Duration, mute func(bool)) *Arp {
	return &Arp{
		notes:    notes,
		duration: d,
		tone:     tone,
		mute:     mute,
		cur:      -1,
	}
}

// Next moves to the following note and returns it.
func (a *Arp) Next() int {
	a.lk.Lock()
	defer a.lk.Unlock()

	if len(a.notes) == 0 {
		return -1
	}

	n := a.notes[a.pos%len(a.notes)]
	a.pos++
	a.cur = n

	if n <= 0 {
		if a.mute != nil {
			a.mute(true)
		}
		return n
	}
	if a.mute != nil {
		a.mute(false)
	}
	a.tone.SetFrequency(note.Frequency(n))
	return n
}

// Current is the note last played, or -1 before the first step.
func (a *Arp) Current() int {
	a.lk.Lock()
	defer a.lk.Unlock()
	return a.cur
}

// Run steps the arpeggio until ctx is done.
func (a *Arp) Run(ctx context.Context) {
	a.Next()
	tick := time.NewTicker(a.duration)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			a.Next()
		}
	}
}
