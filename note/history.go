package note

// DefaultHistory is the number of note changes kept when no capacity is
// given.
const DefaultHistory = 20

// Source records where a detection came from. Audio entries carry the
// measured frequency, MIDI entries do not.
type Source int

const (
	SourceAudio Source = iota
	SourceMIDI
)

func (s Source) String() string {
	switch s {
	case SourceMIDI:
		return "midi"
	default:
		return "audio"
	}
}

type Entry struct {
	Note      Note
	Source    Source
	Frequency float64
}

// History is a bounded, oldest-first log of note changes. Consecutive
// entries never share a MIDI number.
type History struct {
	entries  []Entry
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &History{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Push appends e unless it repeats the last note. The oldest entry is
// dropped once the history is full. It reports whether e was appended.
func (h *History) Push(e Entry) bool {
	if last, ok := h.Last(); ok && last.Note.Same(e.Note) {
		return false
	}

	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, e)
	return true
}

func (h *History) Last() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int { return len(h.entries) }
func (h *History) Cap() int { return h.capacity }

func (h *History) Reset() {
	h.entries = h.entries[:0]
}
