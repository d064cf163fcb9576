// Package term implements surface.Display on a terminal through tcell.
package term

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/whyrusleeping/pitchstaff/surface"
)

// Terminal draws onto a character grid. It keeps a logical pixel size so
// layouts computed for a window still fit, and scales every coordinate
// down to cells.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
	w, h   int
	bg     tcell.Color

	delta [surface.KnobCount]float64
}

var _ surface.Display = (*Terminal)(nil)

func Open(w, h int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.HideCursor()

	t := newTerminal(screen, w, h)
	go t.pump(screen.PollEvent)
	return t, nil
}

func newTerminal(screen tcell.Screen, w, h int) *Terminal {
	return &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		w:      w,
		h:      h,
		bg:     tcell.ColorBlack,
	}
}

// pump queues events from poll until poll returns nil or the terminal is
// closed.
func (t *Terminal) pump(poll func() tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			close(t.events)
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

func (t *Terminal) Close() {
	t.once.Do(func() {
		close(t.quit)
		t.screen.Fini()
	})
}

func (t *Terminal) Size() (int, int) { return t.w, t.h }

func (t *Terminal) cell(x, y float64) (int, int) {
	cols, rows := t.screen.Size()
	cx := int(math.Floor(x * float64(cols) / float64(t.w)))
	cy := int(math.Floor(y * float64(rows) / float64(t.h)))
	return cx, cy
}

func (t *Terminal) style(c surface.Color) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
		Background(t.bg)
}

func (t *Terminal) Fill(c surface.Color) {
	t.bg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	t.screen.Fill(' ', tcell.StyleDefault.Background(t.bg))
}

func (t *Terminal) Line(x1, y1, x2, y2 float64, width int, c surface.Color) {
	ax, ay := t.cell(x1, y1)
	bx, by := t.cell(x2, y2)

	r := '·'
	switch {
	case ay == by:
		r = '─'
	case ax == bx:
		r = '│'
	}

	steps := max(abs(bx-ax), abs(by-ay))
	st := t.style(c)
	for i := 0; i <= steps; i++ {
		f := 0.0
		if steps > 0 {
			f = float64(i) / float64(steps)
		}
		x := ax + int(math.Round(f*float64(bx-ax)))
		y := ay + int(math.Round(f*float64(by-ay)))
		t.screen.SetContent(x, y, r, nil, st)
	}
}

func (t *Terminal) Ellipse(cx, cy, rx, ry float64, c surface.Color) {
	x0, y0 := t.cell(cx-rx, cy-ry)
	x1, y1 := t.cell(cx+rx, cy+ry)
	mx, my := t.cell(cx, cy)

	st := t.style(c)
	t.screen.SetContent(mx, my, '●', nil, st)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x-mx) / math.Max(1, float64(x1-x0)/2)
			dy := float64(y-my) / math.Max(1, float64(y1-y0)/2)
			if dx*dx+dy*dy <= 1 {
				t.screen.SetContent(x, y, '●', nil, st)
			}
		}
	}
}

func (t *Terminal) Circle(cx, cy, r float64, c surface.Color) {
	t.Ellipse(cx, cy, r, r, c)
}

func (t *Terminal) Text(x, y float64, s string, c surface.Color) {
	cx, cy := t.cell(x, y)
	st := t.style(c)
	for i, r := range []rune(s) {
		t.screen.SetContent(cx+i, cy, r, nil, st)
	}
}

func (t *Terminal) Present() {
	t.screen.Show()
}

// Poll handles queued key events. Terminals report presses but not
// releases, so each press moves its knob once.
func (t *Terminal) Poll() bool {
	t.delta = [surface.KnobCount]float64{}
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return false
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.key(ev.Key(), ev.Rune()) {
					return false
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
			return true
		}
	}
}

// key applies one key press and reports false for the quit keys.
func (t *Terminal) key(k tcell.Key, r rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		if knob, d, ok := surface.KeyDelta(r); ok {
			t.delta[knob] += d
		}
	}
	return true
}

func (t *Terminal) KnobDelta() [surface.KnobCount]float64 {
	return t.delta
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
