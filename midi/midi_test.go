package midi

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rakyll/portmidi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestNoteOnOff(t *testing.T) {
	var ns NoteState

	ns.Apply(0x90, 60, 100)
	ns.Apply(0x91, 64, 80) // channel 2
	s := ns.Snapshot()
	assert.True(t, s.On[60])
	assert.True(t, s.On[64])
	assert.True(t, s.Trig)
	assert.True(t, s.Any())

	// trigger fires once per note start
	assert.False(t, ns.Snapshot().Trig)

	ns.Apply(0x80, 60, 0)
	ns.Apply(0x90, 64, 0)
	s = ns.Snapshot()
	assert.False(t, s.On[60])
	assert.False(t, s.On[64])
	assert.False(t, s.Trig)
	assert.False(t, s.Any())
}

func TestKnobControllers(t *testing.T) {
	var ns NoteState

	ns.Apply(0xb0, 21, 127)
	ns.Apply(0xb0, 25, 0)
	ns.Apply(0xb0, 23, 64)
	ns.Apply(0xb0, 7, 100) // unbound
	s := ns.Snapshot()

	assert.Equal(t, 1.0, s.Knobs[0])
	assert.InDelta(t, 64.0/127, s.Knobs[2], 1e-12)
	assert.Equal(t, 0.0, s.Knobs[4])
	assert.Equal(t, [5]bool{true, false, true, false, true}, s.Moved)

	s = ns.Snapshot()
	assert.Equal(t, [5]bool{}, s.Moved)
	assert.Equal(t, 1.0, s.Knobs[0])
}

func TestApplyIgnoresBadNotes(t *testing.T) {
	var ns NoteState
	ns.Apply(0x90, 128, 100)
	ns.Apply(0x90, -1, 100)
	ns.Apply(0xe0, 60, 100)
	assert.Equal(t, Snapshot{}, ns.Snapshot())
}

func TestReset(t *testing.T) {
	var ns NoteState
	ns.Apply(0x90, 60, 100)
	ns.Apply(0xb0, 22, 127)
	ns.Reset()
	s := ns.Snapshot()
	assert.False(t, s.Any())
	assert.Equal(t, 1.0, s.Knobs[1])
}

func TestEventsFromFile(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.ControlChange(0, FirstKnobCC, 127))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(1, 67, 90))
	tr.Add(960, midi.NoteOn(1, 67, 0))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	evs := Events(parsed)
	require.Len(t, evs, 5)

	assert.Equal(t, Event{Status: 0xb0, Data1: FirstKnobCC, Data2: 127}, evs[0])
	assert.Equal(t, Event{Status: 0x90, Data1: 60, Data2: 100}, evs[1])

	// the release of 60 sorts before the start of 67
	assert.Equal(t, int64(0x80), evs[2].Status)
	assert.Equal(t, int64(60), evs[2].Data1)
	assert.Equal(t, Event{At: evs[2].At, Status: 0x91, Data1: 67, Data2: 90}, evs[3])

	// 960 ticks at 120bpm
	assert.InDelta(t, float64(500*time.Millisecond), float64(evs[2].At), float64(time.Millisecond))

	// velocity zero releases
	assert.Equal(t, int64(0x81), evs[4].Status)
	assert.True(t, evs[4].releases())
	assert.Greater(t, evs[4].At, evs[3].At)

	r, err := NewReplay(evs, false)
	require.NoError(t, err)
	r.Advance(0)
	snap := r.Snapshot()
	assert.True(t, snap.On[60])
	assert.True(t, snap.Moved[0])
	assert.Equal(t, 1.0, snap.Knobs[0])
}

func testEvents() []Event {
	return []Event{
		{At: 0, Status: 0x90, Data1: 60, Data2: 100},
		{At: 100 * time.Millisecond, Status: 0x80, Data1: 60},
		{At: 100 * time.Millisecond, Status: 0x90, Data1: 62, Data2: 100},
		{At: 200 * time.Millisecond, Status: 0x80, Data1: 62},
	}
}

func TestReplayAdvance(t *testing.T) {
	r, err := NewReplay(testEvents(), false)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, r.Length())

	r.Advance(50 * time.Millisecond)
	s := r.Snapshot()
	assert.True(t, s.On[60])
	assert.True(t, s.Trig)

	r.Advance(150 * time.Millisecond)
	s = r.Snapshot()
	assert.False(t, s.On[60])
	assert.True(t, s.On[62])
	assert.False(t, r.Done())

	r.Advance(time.Second)
	assert.False(t, r.Snapshot().Any())
	assert.True(t, r.Done())
}

func TestReplayLoops(t *testing.T) {
	r, err := NewReplay(testEvents(), true)
	require.NoError(t, err)

	r.Advance(250 * time.Millisecond)
	s := r.Snapshot()
	assert.True(t, s.On[60])
	assert.False(t, s.On[62])

	r.Advance(350 * time.Millisecond)
	s = r.Snapshot()
	assert.True(t, s.On[62])
	assert.False(t, r.Done())
}

func TestReplayEmpty(t *testing.T) {
	_, err := NewReplay(nil, false)
	assert.ErrorIs(t, err, ErrEmpty)
}

type fakeRead struct {
	events []portmidi.Event
	err    error
}

// fakeStream hands out reads in order, then empty reads.
type fakeStream struct {
	lk       sync.Mutex
	reads    []fakeRead
	calls    int
	closed   bool
	lateRead bool
}

func (f *fakeStream) Read(max int) ([]portmidi.Event, error) {
	f.lk.Lock()
	defer f.lk.Unlock()

	f.calls++
	if f.closed {
		f.lateRead = true
	}
	if len(f.reads) == 0 {
		return nil, nil
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return r.events, r.err
}

func (f *fakeStream) Close() error {
	f.lk.Lock()
	defer f.lk.Unlock()
	f.closed = true
	return nil
}

func TestInputReleasesNotesOnReadError(t *testing.T) {
	fs := &fakeStream{reads: []fakeRead{
		{events: []portmidi.Event{{Status: 0x90, Data1: 60, Data2: 100}}},
		{err: errors.New("device unplugged")},
	}}
	in := newInput(fs, time.Millisecond)

	select {
	case <-in.exited:
	case <-time.After(time.Second):
		t.Fatal("reader kept running after a read error")
	}

	assert.False(t, in.Snapshot().Any())
	assert.Equal(t, 2, fs.calls)

	require.NoError(t, in.Close())
	assert.True(t, fs.closed)
}

func TestInputAppliesEvents(t *testing.T) {
	fs := &fakeStream{reads: []fakeRead{
		{events: []portmidi.Event{
			{Status: 0x91, Data1: 64, Data2: 90},
			{Status: 0xb0, Data1: FirstKnobCC + 2, Data2: 127},
			{Status: 0xe0, Data1: 0, Data2: 64},
		}},
	}}
	in := newInput(fs, time.Millisecond)
	defer in.Close()

	require.Eventually(t, func() bool {
		fs.lk.Lock()
		defer fs.lk.Unlock()
		return fs.calls > 1
	}, time.Second, time.Millisecond)

	snap := in.Snapshot()
	assert.True(t, snap.On[64])
	assert.True(t, snap.Trig)
	assert.True(t, snap.Moved[2])
	assert.Equal(t, 1.0, snap.Knobs[2])
}

func TestInputCloseWaitsForReader(t *testing.T) {
	fs := &fakeStream{}
	in := newInput(fs, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, in.Close())
	require.NoError(t, in.Close())

	fs.lk.Lock()
	defer fs.lk.Unlock()
	assert.Positive(t, fs.calls)
	assert.True(t, fs.closed)
	assert.False(t, fs.lateRead)
}
