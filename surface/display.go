package surface

// KnobCount is the number of continuous controls a host exposes.
const KnobCount = 5

// Display is a Surface that is shown to the user and accepts input.
type Display interface {
	Surface

	// Poll drains pending input. It returns false once the user asked to
	// quit.
	Poll() bool
	// KnobDelta reports the knob adjustments requested during the last
	// Poll.
	KnobDelta() [KnobCount]float64
	Present()
	Close()
}

// knobKeys pairs the raise and lower key for each knob, as the hardware
// runner lays them out.
var knobKeys = [KnobCount][2]rune{
	{'q', 'a'},
	{'w', 's'},
	{'e', 'd'},
	{'r', 'f'},
	{'t', 'g'},
}

// KnobStep is how far one key press or held frame moves a knob.
const KnobStep = 0.01

// KeyDelta maps a key onto the knob it moves and the direction.
func KeyDelta(r rune) (knob int, delta float64, ok bool) {
	for i, k := range knobKeys {
		switch r {
		case k[0]:
			return i, KnobStep, true
		case k[1]:
			return i, -KnobStep, true
		}
	}
	return 0, 0, false
}
