// Package mode runs the musical staff: each frame it detects a note from
// MIDI or audio, records note changes and draws the history on a grand
// staff.
package mode

import (
	"fmt"

	"github.com/whyrusleeping/pitchstaff/logger"
	"github.com/whyrusleeping/pitchstaff/note"
	"github.com/whyrusleeping/pitchstaff/pitch"
	"github.com/whyrusleeping/pitchstaff/staff"
	"github.com/whyrusleeping/pitchstaff/surface"
)

// Knob roles.
const (
	KnobSensitivity = iota
	KnobSize
	KnobOffset
	KnobForeground
	KnobBackground
)

// Frame is everything the host hands a mode for one frame.
type Frame struct {
	Knobs [surface.KnobCount]float64
	Trig  bool

	Audio      []int16
	SampleRate float64

	// MIDI is nil when the host has no MIDI layer.
	MIDI *[128]bool

	Width, Height int

	Foreground surface.Picker
	Background surface.Picker
}

// Options tune a State. The zero value gives the defaults.
type Options struct {
	History       int
	ThresholdBase float64
	ThresholdSpan float64

	// ThresholdSet keeps ThresholdBase and ThresholdSpan even when both
	// are zero.
	ThresholdSet bool
}

func (o Options) withDefaults() Options {
	if o.History <= 0 {
		o.History = note.DefaultHistory
	}
	if !o.ThresholdSet && o.ThresholdBase == 0 && o.ThresholdSpan == 0 {
		o.ThresholdBase = pitch.DefaultThresholdBase
		o.ThresholdSpan = pitch.DefaultThresholdSpan
	}
	return o
}

// State is what the staff remembers between frames.
type State struct {
	History *note.History

	// Current is the detection made in the most recent frame, if any.
	Current   note.Entry
	Detected  bool
	Frequency float64

	opts Options
}

// Init returns an empty State.
func Init(opts Options) *State {
	opts = opts.withDefaults()
	return &State{
		History: note.NewHistory(opts.History),
		opts:    opts,
	}
}

// Threshold is the correlation an audio block needs under f's
// sensitivity knob.
func (st *State) Threshold(f Frame) float64 {
	return pitch.Threshold(f.Knobs[KnobSensitivity], st.opts.ThresholdBase, st.opts.ThresholdSpan)
}

// Detect picks this frame's note. Held MIDI notes win over audio.
func (st *State) Detect(f Frame) (note.Entry, bool) {
	if f.MIDI != nil {
		if n, ok := note.HighestActive(*f.MIDI); ok {
			return note.Entry{Note: n, Source: note.SourceMIDI}, true
		}
	}

	hz, ok := pitch.Estimate(f.Audio, f.SampleRate, st.Threshold(f))
	if !ok {
		return note.Entry{}, false
	}
	n, ok := note.FromFrequency(hz)
	if !ok {
		return note.Entry{}, false
	}
	return note.Entry{Note: n, Source: note.SourceAudio, Frequency: hz}, true
}

// Step runs detection for one frame and records a note change. It reports
// whether the history grew a new note.
func Step(st *State, f Frame) bool {
	e, ok := st.Detect(f)
	st.Detected = ok
	if !ok {
		return false
	}

	st.Current = e
	if e.Source == note.SourceAudio {
		st.Frequency = e.Frequency
	}
	if !st.History.Push(e) {
		return false
	}
	logger.Log.Debug("note %s from %s (%.1fHz), history %d", e.Note, e.Source, e.Frequency, st.History.Len())
	return true
}

// Label describes the current detection, or is empty when nothing was
// heard this frame.
func (st *State) Label() string {
	if !st.Detected {
		return ""
	}
	if st.Current.Source == note.SourceMIDI {
		return fmt.Sprintf("%s (MIDI)", st.Current.Note)
	}
	return fmt.Sprintf("%s (%.0fHz)", st.Current.Note, st.Current.Frequency)
}

// Layout is the staff geometry for f.
func Layout(f Frame) staff.Layout {
	return staff.NewLayout(f.Width, f.Height, f.Knobs[KnobSize], f.Knobs[KnobOffset])
}

// Draw steps st and redraws the whole staff onto s.
func Draw(s surface.Surface, st *State, f Frame) {
	Step(st, f)

	fg, bg := f.Foreground, f.Background
	if fg == nil {
		fg = surface.Hue
	}
	if bg == nil {
		bg = surface.Hue
	}

	if f.Width == 0 || f.Height == 0 {
		f.Width, f.Height = s.Size()
	}

	s.Fill(bg(f.Knobs[KnobBackground]))
	staff.Render(s, Layout(f), st.History.Entries(), st.Label(), fg(f.Knobs[KnobForeground]))
}

// Mode is the lifecycle a host drives: Setup once when selected, then Draw
// every frame.
type Mode interface {
	Setup(s surface.Surface, f Frame)
	Draw(s surface.Surface, f Frame)
}

// MusicalStaff is the staff as a Mode.
type MusicalStaff struct {
	opts  Options
	state *State
}

func NewMusicalStaff(opts Options) *MusicalStaff {
	return &MusicalStaff{opts: opts, state: Init(opts)}
}

// Setup clears the history.
func (m *MusicalStaff) Setup(s surface.Surface, f Frame) {
	m.state = Init(m.opts)
	logger.Log.Debug("musical staff ready, %dx%d, history %d", f.Width, f.Height, m.state.History.Cap())
}

func (m *MusicalStaff) Draw(s surface.Surface, f Frame) {
	Draw(s, m.state, f)
}

func (m *MusicalStaff) State() *State {
	return m.state
}
