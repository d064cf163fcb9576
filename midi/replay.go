package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is one channel message on a file's absolute timeline.
type Event struct {
	At     time.Duration
	Status int64
	Data1  int64
	Data2  int64
}

// Replay feeds a MIDI file's notes into a NoteState as the host's clock
// advances.
type Replay struct {
	NoteState

	events []Event
	next   int
	loop   bool
	offset time.Duration
}

// ReadFile parses a standard MIDI file.
func ReadFile(path string) (s *smf.SMF, e error) {
	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	s, err = smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Events flattens every track's note and controller messages into one
// timeline. A note on with velocity zero becomes a note off. At equal
// times note offs sort first.
func Events(s *smf.SMF) []Event {
	var out []Event
	for _, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)

			var ch, key, vel uint8
			var e Event
			msg := midi.Message(ev.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				e = Event{Status: statusNoteOn | int64(ch), Data1: int64(key), Data2: int64(vel)}
			case msg.GetNoteEnd(&ch, &key):
				e = Event{Status: statusNoteOff | int64(ch), Data1: int64(key)}
			case msg.GetControlChange(&ch, &key, &vel):
				e = Event{Status: statusCC | int64(ch), Data1: int64(key), Data2: int64(vel)}
			default:
				continue
			}

			e.At = time.Duration(s.TimeAt(absTicks)) * time.Microsecond
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].At != out[j].At {
			return out[i].At < out[j].At
		}
		return out[i].releases() && !out[j].releases()
	})
	return out
}

func (e Event) releases() bool {
	s := e.Status & 0xf0
	return s == statusNoteOff || (s == statusNoteOn && e.Data2 == 0)
}

var ErrEmpty = errors.New("midi file has no note events")

func NewReplay(events []Event, loop bool) (*Replay, error) {
	if len(events) == 0 {
		return nil, ErrEmpty
	}
	return &Replay{events: events, loop: loop}, nil
}

// LoadReplay reads path and prepares it for playback.
func LoadReplay(path string, loop bool) (*Replay, error) {
	s, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReplay(Events(s), loop)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func (r *Replay) Length() time.Duration {
	return r.events[len(r.events)-1].At
}

// Advance applies every event up to elapsed time since playback started.
// A looping replay releases all notes and starts over once it runs out.
func (r *Replay) Advance(elapsed time.Duration) {
	for {
		for r.next < len(r.events) && r.offset+r.events[r.next].At <= elapsed {
			ev := r.events[r.next]
			r.Apply(ev.Status, ev.Data1, ev.Data2)
			r.next++
		}

		if r.next < len(r.events) || !r.loop {
			return
		}

		// guard against a file whose events all sit at zero
		length := r.Length()
		if length <= 0 {
			length = time.Millisecond
		}
		r.Reset()
		r.next = 0
		r.offset += length
		if r.offset > elapsed {
			return
		}
	}
}

// Done reports whether a non-looping replay has played every event.
func (r *Replay) Done() bool {
	return !r.loop && r.next >= len(r.events)
}
