package midi

import (
	"fmt"
	"sync"
	"time"

	"github.com/rakyll/portmidi"
	"github.com/whyrusleeping/pitchstaff/logger"
)

// reader is the part of a portmidi stream Input uses.
type reader interface {
	Read(max int) ([]portmidi.Event, error)
	Close() error
}

// Input reads a portmidi device in the background.
type Input struct {
	NoteState

	stream reader
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func Init() error {
	return portmidi.Initialize()
}

func Terminate() {
	portmidi.Terminate()
}

// Open starts reading device id. A negative id picks the default input.
func Open(id int) (*Input, error) {
	dev := portmidi.DeviceID(id)
	if id < 0 {
		dev = portmidi.DefaultInputDeviceID()
	}

	stream, err := portmidi.NewInputStream(dev, 1024)
	if err != nil {
		return nil, fmt.Errorf("opening midi device %d: %w", dev, err)
	}

	return newInput(stream, time.Millisecond*2), nil
}

func newInput(r reader, poll time.Duration) *Input {
	in := &Input{
		stream: r,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go in.run(poll)
	return in
}

func (in *Input) run(poll time.Duration) {
	defer close(in.exited)

	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-in.done:
			return
		case <-tick.C:
		}

		events, err := in.stream.Read(1024)
		if err != nil {
			// nothing will release the held notes now
			logger.Log.Error("midi read: %s", err)
			in.Reset()
			return
		}

		for _, ev := range events {
			switch ev.Status & 0xf0 {
			case statusNoteOn, statusNoteOff, statusCC:
				in.Apply(ev.Status, ev.Data1, ev.Data2)
			default:
				logger.Log.Debug("midi: ignoring status %#x", ev.Status)
			}
		}
	}
}

// Close stops the reader and then closes the stream.
func (in *Input) Close() error {
	var err error
	in.once.Do(func() {
		close(in.done)
		<-in.exited
		err = in.stream.Close()
	})
	return err
}

type Device struct {
	ID     int
	Name   string
	Iface  string
	Input  bool
	Output bool
}

func (d Device) String() string {
	dir := ""
	if d.Input {
		dir += "in"
	}
	if d.Output {
		if dir != "" {
			dir += "/"
		}
		dir += "out"
	}
	return fmt.Sprintf("%d: %s (%s, %s)", d.ID, d.Name, d.Iface, dir)
}

// Devices lists every device portmidi can see. Init must have been called.
func Devices() []Device {
	n := portmidi.CountDevices()
	out := make([]Device, 0, n)
	for i := 0; i < n; i++ {
		info := portmidi.Info(portmidi.DeviceID(i))
		if info == nil {
			continue
		}
		out = append(out, Device{
			ID:     i,
			Name:   info.Name,
			Iface:  info.Interface,
			Input:  info.IsInputAvailable,
			Output: info.IsOutputAvailable,
		})
	}
	return out
}
