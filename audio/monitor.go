package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Monitor plays s on the default output device. The speaker then drives
// the stream, so a Recorder in the chain fills itself.
func Monitor(sr beep.SampleRate, s beep.Streamer) error {
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("opening speaker: %w", err)
	}
	speaker.Play(s)
	return nil
}

func StopMonitor() {
	speaker.Clear()
	speaker.Close()
}
