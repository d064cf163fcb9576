// Package surface defines the drawing primitives a mode renders with and
// the backends that implement them.
package surface

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type Color struct {
	R, G, B uint8
}

// Surface is an immediate-mode drawing target. Coordinates are in pixels
// with the origin at the top left.
type Surface interface {
	Size() (w, h int)
	Fill(c Color)
	Line(x1, y1, x2, y2 float64, width int, c Color)
	// Ellipse fills the ellipse centred on (cx, cy) with radii rx, ry.
	Ellipse(cx, cy, rx, ry float64, c Color)
	Circle(cx, cy, r float64, c Color)
	Text(x, y float64, s string, c Color)
}

// Picker maps a knob value in [0,1] onto a colour.
type Picker func(knob float64) Color

// Hue walks the colour wheel from red at 0 through cyan at 0.5 and back
// to red at 1. Channels are truncated to 8 bits.
func Hue(knob float64) Color {
	knob = math.Max(0, math.Min(1, knob))
	c := colorful.Hsv(math.Mod(knob*360, 360), 1, 1)
	return Color{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255)}
}
