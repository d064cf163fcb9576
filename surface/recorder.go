package surface

// Op is one recorded draw call.
type Op struct {
	Kind   string
	X1, Y1 float64
	X2, Y2 float64
	Width  int
	Text   string
	Color  Color
}

const (
	OpFill    = "fill"
	OpLine    = "line"
	OpEllipse = "ellipse"
	OpCircle  = "circle"
	OpText    = "text"
)

// Recorder is a Surface that keeps every call instead of drawing it.
// Ellipse and Circle store the centre in X1/Y1 and the radii in X2/Y2.
type Recorder struct {
	W, H int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Fill(c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Color: c})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, width int, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c})
}

func (r *Recorder) Ellipse(cx, cy, rx, ry float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpEllipse, X1: cx, Y1: cy, X2: rx, Y2: ry, Color: c})
}

func (r *Recorder) Circle(cx, cy, rad float64, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X1: cx, Y1: cy, X2: rad, Y2: rad, Color: c})
}

func (r *Recorder) Text(x, y float64, s string, c Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X1: x, Y1: y, Text: s, Color: c})
}

// Filter returns the recorded calls of one kind.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
