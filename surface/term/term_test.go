package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whyrusleeping/pitchstaff/surface"
)

func simTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(cols, rows)

	return newTerminal(sim, 800, 400), sim
}

func runeAt(sim tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := sim.GetContent(x, y)
	return r
}

func TestTerminalScalesToCells(t *testing.T) {
	term, sim := simTerminal(t, 80, 40)
	defer term.Close()

	fg := surface.Color{R: 255, G: 255, B: 255}
	term.Fill(surface.Color{})
	term.Line(0, 100, 790, 100, 1, fg)
	term.Line(200, 0, 200, 300, 1, fg)
	term.Ellipse(400, 200, 5, 5, fg)
	term.Text(10, 390, "A4", fg)
	term.Present()

	assert.Equal(t, '─', runeAt(sim, 0, 10))
	assert.Equal(t, '─', runeAt(sim, 79, 10))
	assert.Equal(t, '│', runeAt(sim, 20, 5))
	assert.Equal(t, '●', runeAt(sim, 40, 20))
	assert.Equal(t, 'A', runeAt(sim, 1, 39))
	assert.Equal(t, '4', runeAt(sim, 2, 39))
}

func TestTerminalKeys(t *testing.T) {
	term, _ := simTerminal(t, 80, 40)
	defer term.Close()

	require.True(t, term.Poll())
	assert.True(t, term.key(tcell.KeyRune, 'q'))
	assert.True(t, term.key(tcell.KeyRune, 'q'))
	assert.True(t, term.key(tcell.KeyRune, 'g'))
	assert.True(t, term.key(tcell.KeyRune, 'z'))

	d := term.KnobDelta()
	assert.InDelta(t, 2*surface.KnobStep, d[0], 1e-12)
	assert.InDelta(t, -surface.KnobStep, d[4], 1e-12)

	require.True(t, term.Poll())
	assert.Equal(t, [surface.KnobCount]float64{}, term.KnobDelta())

	assert.False(t, term.key(tcell.KeyEscape, 0))
	assert.False(t, term.key(tcell.KeyCtrlC, 0))
}

func TestTerminalPollStopsWhenClosed(t *testing.T) {
	term, _ := simTerminal(t, 80, 40)
	defer term.Close()

	close(term.events)
	assert.False(t, term.Poll())
}

func TestTerminalPumpEndsWithPoll(t *testing.T) {
	term, _ := simTerminal(t, 80, 40)
	defer term.Close()

	term.pump(func() tcell.Event { return nil })
	assert.False(t, term.Poll())
}

func TestTerminalCloseReleasesPump(t *testing.T) {
	term, _ := simTerminal(t, 80, 40)

	done := make(chan struct{})
	go func() {
		term.pump(func() tcell.Event { return tcell.NewEventResize(80, 40) })
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(term.events) == cap(term.events)
	}, time.Second, time.Millisecond)

	term.Close()
	term.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump still blocked on a full queue")
	}
}
