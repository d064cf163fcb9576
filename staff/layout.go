// Package staff lays out a treble and bass grand staff and draws a
// history of notes onto it.
package staff

// MiddleC is the lowest note drawn on the treble staff.
const MiddleC = 60

type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "bass"
	}
	return "treble"
}

// Reference is the MIDI note on the middle line: B4 for treble, D3 for
// bass.
func (c Clef) Reference() int {
	if c == Bass {
		return 50
	}
	return 71
}

func ClefFor(midi int) Clef {
	if midi >= MiddleC {
		return Treble
	}
	return Bass
}

// Staff lines sit one step apart, two either side of the middle line.
const halfSpan = 2

// Layout is the per-frame geometry of the grand staff.
type Layout struct {
	Width, Height int

	NoteSize    float64
	LineSpacing float64

	XStart, XEnd float64
	CenterY      float64
	TrebleY      float64
	BassY        float64
}

// NewLayout derives the geometry from the screen size, the note size knob
// and the vertical offset knob.
func NewLayout(width, height int, sizeKnob, offsetKnob float64) Layout {
	noteSize := 20 + sizeKnob*40
	spacing := noteSize * 0.4
	w, h := float64(width), float64(height)

	center := h*0.5 + (offsetKnob-0.5)*h*0.2
	gap := spacing * 3

	return Layout{
		Width:       width,
		Height:      height,
		NoteSize:    noteSize,
		LineSpacing: spacing,
		XStart:      w * 0.1,
		XEnd:        w * 0.9,
		CenterY:     center,
		TrebleY:     center - gap/2,
		BassY:       center + gap/2,
	}
}

func (l Layout) StaffWidth() float64 {
	return l.XEnd - l.XStart
}

// Step is the vertical distance of one semitone, half a line spacing.
func (l Layout) Step() float64 {
	return l.LineSpacing / 2
}

// MiddleY is the y of the clef's middle line.
func (l Layout) MiddleY(c Clef) float64 {
	if c == Bass {
		return l.BassY
	}
	return l.TrebleY
}

func (l Layout) TopY(c Clef) float64 {
	return l.MiddleY(c) - halfSpan*l.Step()
}

func (l Layout) BottomY(c Clef) float64 {
	return l.MiddleY(c) + halfSpan*l.Step()
}

// LineYs returns the five staff lines from top to bottom.
func (l Layout) LineYs(c Clef) [5]float64 {
	var ys [5]float64
	for i := range ys {
		ys[i] = l.MiddleY(c) + float64(i-halfSpan)*l.Step()
	}
	return ys
}

// NoteY is the vertical centre of midi drawn against clef c.
func (l Layout) NoteY(c Clef, midi int) float64 {
	return l.MiddleY(c) - float64(midi-c.Reference())*l.Step()
}

// StemDown reports whether the stem hangs below the notehead, which it does
// from the middle line up.
func StemDown(c Clef, midi int) bool {
	return midi >= c.Reference()
}

// Ledgers is the number of ledger lines midi needs outside the staff,
// ceil(distance / step). Notes on or inside the outer lines need none.
func Ledgers(c Clef, midi int) int {
	off := midi - c.Reference()
	switch {
	case off > halfSpan:
		return off - halfSpan
	case off < -halfSpan:
		return -off - halfSpan
	}
	return 0
}

// ledgerYs returns the y of every ledger line from the staff edge out to
// the note.
func (l Layout) ledgerYs(c Clef, midi int) []float64 {
	n := Ledgers(c, midi)
	if n == 0 {
		return nil
	}

	edge, dir := l.TopY(c), -1.0
	if midi < c.Reference() {
		edge, dir = l.BottomY(c), 1.0
	}

	ys := make([]float64, n)
	for i := range ys {
		ys[i] = edge + dir*float64(i+1)*l.Step()
	}
	return ys
}
