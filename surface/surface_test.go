package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHue(t *testing.T) {
	assert.Equal(t, Color{255, 0, 0}, Hue(0))
	assert.Equal(t, Color{127, 255, 0}, Hue(0.25))
	assert.Equal(t, Color{0, 255, 255}, Hue(0.5))
	assert.Equal(t, Color{255, 0, 0}, Hue(-1))
	assert.Equal(t, Hue(1), Hue(2))
	assert.Equal(t, Color{255, 0, 0}, Hue(1))
	assert.Equal(t, Color{0, 0, 255}, Hue(2.0/3))

	// halfway channels truncate, 127.5 is 127
	assert.Equal(t, Color{127, 0, 255}, Hue(0.75))
}

func TestKeyDelta(t *testing.T) {
	k, d, ok := KeyDelta('q')
	assert.True(t, ok)
	assert.Equal(t, 0, k)
	assert.Equal(t, KnobStep, d)

	k, d, ok = KeyDelta('g')
	assert.True(t, ok)
	assert.Equal(t, 4, k)
	assert.Equal(t, -KnobStep, d)

	_, _, ok = KeyDelta('z')
	assert.False(t, ok)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(640, 480)
	w, h := r.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	r.Fill(Color{1, 2, 3})
	r.Line(0, 1, 2, 3, 2, Color{})
	r.Ellipse(10, 20, 3, 4, Color{})
	r.Text(5, 5, "A4", Color{})

	assert.Len(t, r.Ops, 4)
	lines := r.Filter(OpLine)
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Width)
	assert.Equal(t, "A4", r.Filter(OpText)[0].Text)

	r.Reset()
	assert.Empty(t, r.Ops)
}
