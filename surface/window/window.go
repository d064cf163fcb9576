// Package window implements surface.Display on an SDL window.
package window

import (
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/gfx"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/whyrusleeping/pitchstaff/surface"
)

// Window draws into an SDL window through the SDL2_gfx primitives.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	w, h     int

	delta [surface.KnobCount]float64
}

var _ surface.Display = (*Window)(nil)

var scancodes = [surface.KnobCount][2]int{
	{int(sdl.SCANCODE_Q), int(sdl.SCANCODE_A)},
	{int(sdl.SCANCODE_W), int(sdl.SCANCODE_S)},
	{int(sdl.SCANCODE_E), int(sdl.SCANCODE_D)},
	{int(sdl.SCANCODE_R), int(sdl.SCANCODE_F)},
	{int(sdl.SCANCODE_T), int(sdl.SCANCODE_G)},
}

func Open(title string, w, h int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &Window{
		window:   window,
		renderer: renderer,
		w:        w,
		h:        h,
	}, nil
}

func (win *Window) Close() {
	win.renderer.Destroy()
	win.window.Destroy()
	sdl.Quit()
}

func (win *Window) Size() (int, int) { return win.w, win.h }

func (win *Window) Fill(c surface.Color) {
	win.renderer.SetDrawColor(c.R, c.G, c.B, 255)
	win.renderer.Clear()
}

func (win *Window) Line(x1, y1, x2, y2 float64, width int, c surface.Color) {
	if width < 1 {
		width = 1
	}
	gfx.ThickLineColor(win.renderer, px(x1), px(y1), px(x2), px(y2), int32(width), sdlColor(c))
}

func (win *Window) Ellipse(cx, cy, rx, ry float64, c surface.Color) {
	gfx.FilledEllipseColor(win.renderer, px(cx), px(cy), px(rx), px(ry), sdlColor(c))
}

func (win *Window) Circle(cx, cy, r float64, c surface.Color) {
	gfx.FilledCircleColor(win.renderer, px(cx), px(cy), px(r), sdlColor(c))
}

func (win *Window) Text(x, y float64, s string, c surface.Color) {
	gfx.StringColor(win.renderer, px(x), px(y), s, sdlColor(c))
}

func (win *Window) Present() {
	win.renderer.Present()
}

func (win *Window) Poll() bool {
	running := true
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event := event.(type) {
		case *sdl.QuitEvent:
			running = false
		case *sdl.KeyboardEvent:
			if event.Type == sdl.KEYDOWN && event.Keysym.Sym == sdl.K_ESCAPE {
				running = false
			}
		}
	}

	// knobs follow held keys, one step per frame
	keys := sdl.GetKeyboardState()
	for i, sc := range scancodes {
		win.delta[i] = 0
		if keys[sc[0]] != 0 {
			win.delta[i] += surface.KnobStep
		}
		if keys[sc[1]] != 0 {
			win.delta[i] -= surface.KnobStep
		}
	}
	return running
}

func (win *Window) KnobDelta() [surface.KnobCount]float64 {
	return win.delta
}

func px(v float64) int32 {
	return int32(math.Round(v))
}

func sdlColor(c surface.Color) sdl.Color {
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
