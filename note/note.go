// Package note maps frequencies and MIDI note numbers onto named,
// equal-tempered notes referenced to A4 = 440 Hz.
package note

import (
	"fmt"
	"math"
)

const (
	A4Freq = 440.0
	A4MIDI = 69

	MinMIDI = 0
	MaxMIDI = 127
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a single pitch. Name and Octave are derived from MIDI and only
// exist for display.
type Note struct {
	MIDI   int
	Name   string
	Octave int
}

func newNote(n int) Note {
	if n < MinMIDI || n > MaxMIDI {
		panic(fmt.Sprintf("note: midi number %d escaped clamp", n))
	}
	return Note{
		MIDI:   n,
		Name:   names[n%12],
		Octave: n/12 - 1,
	}
}

// Same reports whether two notes have the same MIDI number.
func (n Note) Same(o Note) bool {
	return n.MIDI == o.MIDI
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

func clamp(n int) int {
	if n < MinMIDI {
		return MinMIDI
	}
	if n > MaxMIDI {
		return MaxMIDI
	}
	return n
}

// FromMIDI clamps n into [0,127] and names it. MIDI 60 is C4, 69 is A4.
func FromMIDI(n int) Note {
	return newNote(clamp(n))
}

// FromFrequency returns the nearest note to hz. The continuous note number
// is rounded half away from zero, so a frequency exactly between two notes
// maps to the upper one. Non-positive and non-finite input has no note.
func FromFrequency(hz float64) (Note, bool) {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return Note{}, false
	}

	m := A4MIDI + 12*math.Log2(hz/A4Freq)
	return FromMIDI(int(math.Round(m))), true
}

// HighestActive returns the highest MIDI note with its note-on flag set.
func HighestActive(on [128]bool) (Note, bool) {
	for n := MaxMIDI; n >= MinMIDI; n-- {
		if on[n] {
			return newNote(n), true
		}
	}
	return Note{}, false
}

// Frequency is the equal-tempered frequency of MIDI note n.
func Frequency(n int) float64 {
	return A4Freq * math.Pow(2, float64(n-A4MIDI)/12)
}
