package staff

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whyrusleeping/pitchstaff/note"
	"github.com/whyrusleeping/pitchstaff/surface"
)

const eps = 1e-9

func defaultLayout() Layout {
	return NewLayout(1280, 720, 0.5, 0.5)
}

func entries(midis ...int) []note.Entry {
	out := make([]note.Entry, len(midis))
	for i, m := range midis {
		out[i] = note.Entry{Note: note.FromMIDI(m), Source: note.SourceMIDI}
	}
	return out
}

func TestNewLayout(t *testing.T) {
	l := defaultLayout()

	assert.InDelta(t, 40.0, l.NoteSize, eps)
	assert.InDelta(t, 16.0, l.LineSpacing, eps)
	assert.InDelta(t, 128.0, l.XStart, eps)
	assert.InDelta(t, 1152.0, l.XEnd, eps)
	assert.InDelta(t, 360.0, l.CenterY, eps)
	assert.InDelta(t, 336.0, l.TrebleY, eps)
	assert.InDelta(t, 384.0, l.BassY, eps)

	small := NewLayout(1000, 500, 0, 0)
	assert.InDelta(t, 20.0, small.NoteSize, eps)
	assert.InDelta(t, 8.0, small.LineSpacing, eps)
	assert.InDelta(t, 200.0, small.CenterY, eps)

	big := NewLayout(1000, 500, 1, 1)
	assert.InDelta(t, 60.0, big.NoteSize, eps)
	assert.InDelta(t, 300.0, big.CenterY, eps)
}

func TestStaffLines(t *testing.T) {
	l := defaultLayout()

	treble := l.LineYs(Treble)
	for i, want := range []float64{320, 328, 336, 344, 352} {
		assert.InDelta(t, want, treble[i], eps)
	}
	bass := l.LineYs(Bass)
	for i, want := range []float64{368, 376, 384, 392, 400} {
		assert.InDelta(t, want, bass[i], eps)
	}

	assert.Less(t, l.BottomY(Treble), l.TopY(Bass))
}

func TestClefFor(t *testing.T) {
	assert.Equal(t, Bass, ClefFor(59))
	assert.Equal(t, Treble, ClefFor(60))

	for m := 0; m < 60; m++ {
		assert.Equal(t, Bass, ClefFor(m), "midi %d", m)
	}
	for m := 60; m <= 127; m++ {
		assert.Equal(t, Treble, ClefFor(m), "midi %d", m)
	}

	assert.Equal(t, 71, Treble.Reference())
	assert.Equal(t, 50, Bass.Reference())
}

func TestNoteY(t *testing.T) {
	l := defaultLayout()

	assert.InDelta(t, l.TrebleY, l.NoteY(Treble, 71), eps)
	assert.InDelta(t, l.BassY, l.NoteY(Bass, 50), eps)
	assert.InDelta(t, l.TrebleY+l.LineSpacing, l.NoteY(Treble, 69), eps)
	assert.InDelta(t, l.TopY(Treble), l.NoteY(Treble, 73), eps)
	assert.InDelta(t, l.BottomY(Bass), l.NoteY(Bass, 48), eps)

	// higher notes are drawn higher up the screen
	for m := 60; m < 127; m++ {
		assert.Greater(t, l.NoteY(Treble, m), l.NoteY(Treble, m+1))
	}
}

func TestLedgers(t *testing.T) {
	cases := []struct {
		clef Clef
		midi int
		want int
	}{
		{Treble, 73, 0},
		{Treble, 74, 1},
		{Treble, 75, 2},
		{Treble, 69, 0},
		{Treble, 68, 1},
		{Treble, 71, 0},
		{Treble, 60, 9},
		{Bass, 52, 0},
		{Bass, 53, 1},
		{Bass, 48, 0},
		{Bass, 47, 1},
		{Bass, 40, 8},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%s/%d", c.clef, c.midi), func(t *testing.T) {
			assert.Equal(t, c.want, Ledgers(c.clef, c.midi))
		})
	}
}

func TestLedgerPositions(t *testing.T) {
	l := defaultLayout()

	above := l.ledgerYs(Treble, 75)
	require.Len(t, above, 2)
	assert.InDelta(t, l.TopY(Treble)-l.Step(), above[0], eps)
	assert.InDelta(t, l.NoteY(Treble, 75), above[1], eps)

	below := l.ledgerYs(Bass, 47)
	require.Len(t, below, 1)
	assert.InDelta(t, l.BottomY(Bass)+l.Step(), below[0], eps)

	assert.Nil(t, l.ledgerYs(Treble, 71))
}

func TestStemDown(t *testing.T) {
	assert.True(t, StemDown(Treble, 71))
	assert.True(t, StemDown(Treble, 80))
	assert.False(t, StemDown(Treble, 70))
	assert.True(t, StemDown(Bass, 50))
	assert.False(t, StemDown(Bass, 49))
}

func TestPlace(t *testing.T) {
	l := defaultLayout()
	ps := Place(l, entries(59, 60, 71, 40))
	require.Len(t, ps, 4)

	for i, want := range []float64{256, 512, 768, 1024} {
		assert.InDelta(t, want, ps[i].X, eps)
	}
	assert.Equal(t, Bass, ps[0].Clef)
	assert.Equal(t, Treble, ps[1].Clef)
	assert.Equal(t, Treble, ps[2].Clef)
	assert.Equal(t, Bass, ps[3].Clef)
	assert.InDelta(t, l.TrebleY, ps[2].Y, eps)
	assert.True(t, ps[2].StemDown)
	assert.False(t, ps[1].StemDown)
	assert.Len(t, ps[3].LedgerYs, 8)

	assert.Nil(t, Place(l, nil))
}

var white = surface.Color{R: 255, G: 255, B: 255}

func TestRenderEmptyHistory(t *testing.T) {
	l := defaultLayout()
	rec := surface.NewRecorder(1280, 720)

	Render(rec, l, nil, "", white)

	assert.Empty(t, rec.Filter(surface.OpEllipse))
	assert.Empty(t, rec.Filter(surface.OpText))

	var staffLines int
	for _, op := range rec.Filter(surface.OpLine) {
		if op.X1 == l.XStart && op.X2 == l.XEnd && op.Y1 == op.Y2 {
			staffLines++
		}
	}
	assert.Equal(t, 10, staffLines)

	// clef dots
	assert.NotEmpty(t, rec.Filter(surface.OpCircle))
}

func ledgerOps(rec *surface.Recorder, p Placement, l Layout) []surface.Op {
	w := l.NoteSize * 0.6
	var out []surface.Op
	for _, op := range rec.Filter(surface.OpLine) {
		if op.Y1 == op.Y2 && op.X1 == p.X-w && op.X2 == p.X+w {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderNote(t *testing.T) {
	l := defaultLayout()
	rec := surface.NewRecorder(1280, 720)
	h := entries(74)

	Render(rec, l, h, "D5 (MIDI)", white)

	heads := rec.Filter(surface.OpEllipse)
	require.Len(t, heads, 1)
	assert.InDelta(t, 640.0, heads[0].X1, eps)
	assert.InDelta(t, 312.0, heads[0].Y1, eps)
	assert.InDelta(t, 12.0, heads[0].X2, eps)
	assert.InDelta(t, 8.0, heads[0].Y2, eps)

	// stem hangs down from the right of the head
	var stem *surface.Op
	for _, op := range rec.Filter(surface.OpLine) {
		if op.X1 == 652 && op.X2 == 652 {
			op := op
			stem = &op
		}
	}
	require.NotNil(t, stem)
	assert.InDelta(t, 312.0, stem.Y1, eps)
	assert.InDelta(t, 360.0, stem.Y2, eps)
	assert.Equal(t, 4, stem.Width)

	p := Place(l, h)[0]
	ledgers := ledgerOps(rec, p, l)
	require.Len(t, ledgers, 1)
	assert.InDelta(t, 312.0, ledgers[0].Y1, eps)
	assert.Equal(t, 3, ledgers[0].Width)

	text := rec.Filter(surface.OpText)
	require.Len(t, text, 1)
	assert.Equal(t, "D5 (MIDI)", text[0].Text)
	assert.InDelta(t, float64(LabelX), text[0].X1, eps)
}

func TestRenderStemUp(t *testing.T) {
	l := defaultLayout()
	rec := surface.NewRecorder(1280, 720)
	h := entries(70)

	Render(rec, l, h, "", white)
	p := Place(l, h)[0]

	var found bool
	for _, op := range rec.Filter(surface.OpLine) {
		if op.X1 == p.X+12 && op.Y1 == p.Y {
			found = true
			assert.InDelta(t, p.Y-48, op.Y2, eps)
		}
	}
	assert.True(t, found)
	assert.Empty(t, ledgerOps(rec, p, l))
}
