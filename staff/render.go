package staff

import (
	"math"

	"github.com/whyrusleeping/pitchstaff/note"
	"github.com/whyrusleeping/pitchstaff/surface"
)

const (
	staffLineWidth = 2
	clefLineWidth  = 3
	braceLineWidth = 2
)

// LabelX and LabelY place the current-note label in the top left corner.
const (
	LabelX = 10
	LabelY = 10
)

// Placement is where one history entry lands on the grand staff.
type Placement struct {
	Entry    note.Entry
	Clef     Clef
	X, Y     float64
	StemDown bool
	LedgerYs []float64
}

// Place spreads entries evenly across the staff, oldest on the left, and
// resolves each one's staff, height, stem and ledger lines.
func Place(l Layout, entries []note.Entry) []Placement {
	if len(entries) == 0 {
		return nil
	}

	slot := l.StaffWidth() / float64(len(entries))
	out := make([]Placement, len(entries))
	for i, e := range entries {
		m := e.Note.MIDI
		c := ClefFor(m)
		out[i] = Placement{
			Entry:    e,
			Clef:     c,
			X:        l.XStart + float64(i)*slot + slot/2,
			Y:        l.NoteY(c, m),
			StemDown: StemDown(c, m),
			LedgerYs: l.ledgerYs(c, m),
		}
	}
	return out
}

// Render draws both staves with their clefs and brace, then every entry,
// then label if it is not empty. It does not clear the surface.
func Render(s surface.Surface, l Layout, entries []note.Entry, label string, fg surface.Color) {
	drawStaff(s, l, Treble, fg)
	drawStaff(s, l, Bass, fg)
	drawBrace(s, l, fg)

	for _, p := range Place(l, entries) {
		drawNote(s, l, p, fg)
	}

	if label != "" {
		s.Text(LabelX, LabelY, label, fg)
	}
}

func drawNote(s surface.Surface, l Layout, p Placement, fg surface.Color) {
	w := l.NoteSize * 0.6
	h := l.NoteSize * 0.4
	s.Ellipse(p.X, p.Y, w/2, h/2, fg)

	stem := l.NoteSize * 1.2
	if !p.StemDown {
		stem = -stem
	}
	s.Line(p.X+w/2, p.Y, p.X+w/2, p.Y+stem, max(1, int(l.NoteSize*0.1)), fg)

	for _, y := range p.LedgerYs {
		s.Line(p.X-w, y, p.X+w, y, max(1, int(l.NoteSize*0.08)), fg)
	}
}

func drawStaff(s surface.Surface, l Layout, c Clef, fg surface.Color) {
	for _, y := range l.LineYs(c) {
		s.Line(l.XStart, y, l.XEnd, y, staffLineWidth, fg)
	}

	x := l.XStart + 20
	mid := l.MiddleY(c)
	ls := l.LineSpacing

	if c == Treble {
		// G clef: a spine with a curl around the G line
		y := mid - ls*0.3
		s.Line(x, y-ls*0.8, x, y+ls*0.8, clefLineWidth, fg)
		r := ls * 0.3
		for i := 1; i < 5; i++ {
			a := (-90 + float64(i)*30) * math.Pi / 180
			s.Circle(x+r*math.Cos(a), y+r*math.Sin(a), 2, fg)
		}
		return
	}

	// F clef: two dots around the F line and a hook
	dotY := mid + ls
	s.Circle(x-8, dotY, 3, fg)
	s.Circle(x+8, dotY, 3, fg)
	s.Line(x, mid-ls*0.6, x, mid+ls*0.6, clefLineWidth, fg)
	r := ls * 0.25
	for i := 1; i < 8; i++ {
		a := (180 + float64(i)*20) * math.Pi / 180
		s.Circle(x+r*math.Cos(a), mid-ls*0.4+r*math.Sin(a), 2, fg)
	}
}

// drawBrace joins the two staves on the left with a curly bracket.
func drawBrace(s surface.Surface, l Layout, fg surface.Color) {
	x := l.XStart - 20
	top := l.TrebleY - l.LineSpacing*2.5
	bottom := l.BassY + l.LineSpacing*2.5
	height := bottom - top
	r := height * 0.15

	arc := func(cy, from, sweep float64) {
		const segs = 14
		px, py := 0.0, 0.0
		for i := 0; i <= segs; i++ {
			a := (from - sweep*float64(i)/segs) * math.Pi / 180
			nx, ny := x+r*math.Cos(a), cy+r*math.Sin(a)
			if i > 0 {
				s.Line(px, py, nx, ny, braceLineWidth, fg)
			}
			px, py = nx, ny
		}
	}

	arc(top+height*0.2, 180, 90)
	s.Line(x, top+height*0.2, x, bottom-height*0.2, braceLineWidth, fg)
	arc(bottom-height*0.2, 90, 90)
}
