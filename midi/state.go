// Package midi tracks which notes are held, from a live portmidi device or
// a standard MIDI file played back on the frame clock.
package midi

import (
	"sync"

	"github.com/whyrusleeping/pitchstaff/surface"
)

const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
	statusCC      = 0xb0
)

// FirstKnobCC is the controller number bound to knob1. The next four
// controllers drive the remaining knobs.
const FirstKnobCC = 21

// Snapshot is the MIDI state a frame sees.
type Snapshot struct {
	On [128]bool

	// Knobs holds the last controller value for every knob, Moved marks
	// those that changed since the previous snapshot.
	Knobs [surface.KnobCount]float64
	Moved [surface.KnobCount]bool

	// Trig is set when a note started since the previous snapshot.
	Trig bool
}

// Any reports whether a note is held.
func (s Snapshot) Any() bool {
	for _, on := range s.On {
		if on {
			return true
		}
	}
	return false
}

// Source is anything that yields MIDI state once per frame.
type Source interface {
	Snapshot() Snapshot
}

// NoteState accumulates channel messages. It is safe for one writer and
// one reader.
type NoteState struct {
	lk  sync.Mutex
	cur Snapshot
}

// Apply folds in one channel message. The channel nibble is ignored.
func (ns *NoteState) Apply(status, data1, data2 int64) {
	if data1 < 0 || data1 > 127 {
		return
	}

	ns.lk.Lock()
	defer ns.lk.Unlock()

	switch status & 0xf0 {
	case statusNoteOn:
		if data2 == 0 {
			ns.cur.On[data1] = false
			return
		}
		ns.cur.On[data1] = true
		ns.cur.Trig = true
	case statusNoteOff:
		ns.cur.On[data1] = false
	case statusCC:
		k := int(data1) - FirstKnobCC
		if k < 0 || k >= surface.KnobCount {
			return
		}
		ns.cur.Knobs[k] = float64(data2) / 127
		ns.cur.Moved[k] = true
	}
}

// Snapshot returns the current state and clears the trigger and the moved
// flags.
func (ns *NoteState) Snapshot() Snapshot {
	ns.lk.Lock()
	defer ns.lk.Unlock()

	out := ns.cur
	ns.cur.Trig = false
	ns.cur.Moved = [surface.KnobCount]bool{}
	return out
}

// Reset releases every note.
func (ns *NoteState) Reset() {
	ns.lk.Lock()
	defer ns.lk.Unlock()
	ns.cur.On = [128]bool{}
	ns.cur.Trig = false
}
