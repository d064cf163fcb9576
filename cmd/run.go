package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/spf13/cobra"
	"github.com/whyrusleeping/pitchstaff/audio"
	"github.com/whyrusleeping/pitchstaff/config"
	"github.com/whyrusleeping/pitchstaff/console"
	"github.com/whyrusleeping/pitchstaff/logger"
	"github.com/whyrusleeping/pitchstaff/midi"
	"github.com/whyrusleeping/pitchstaff/mode"
	"github.com/whyrusleeping/pitchstaff/note"
	"github.com/whyrusleeping/pitchstaff/surface"
	"github.com/whyrusleeping/pitchstaff/surface/term"
	"github.com/whyrusleeping/pitchstaff/surface/window"
)

type runFlags struct {
	source   string
	wave     string
	freq     float64
	notes    []int
	step     time.Duration
	wavPath  string
	midiFile string
	loop     bool
	monitor  bool
	console  bool
	lowpass  float64
	highpass float64
}

var rf runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the staff and start listening",
	Long: `Opens an SDL window (or the terminal with --backend term) and draws
every note change it detects. Audio comes from a generated tone, an
arpeggio or a WAV file; a MIDI device or file takes precedence while
notes are held. Keys q/a w/s e/d r/f t/g move knobs 1-5.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStaff(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Int("width", 0, "window width")
	f.Int("height", 0, "window height")
	f.Int("fps", 0, "frames per second")
	f.String("backend", "", "sdl or term")
	f.Int("midi-device", -1, "portmidi input device, see `devices`")
	f.Float64Slice("knobs", nil, "initial values of the five knobs")

	f.StringVar(&rf.source, "source", "tone", "audio source: tone, arp, wav or none")
	f.StringVar(&rf.wave, "wave", "sine", "tone waveform: sine, square or saw")
	f.Float64Var(&rf.freq, "freq", 440, "tone frequency in Hz")
	f.IntSliceVar(&rf.notes, "notes", []int{60, 64, 67, 72}, "arpeggio MIDI notes, 0 for a rest")
	f.DurationVar(&rf.step, "step", time.Millisecond*400, "arpeggio note length")
	f.StringVar(&rf.wavPath, "wav", "", "WAV file for --source wav")
	f.StringVar(&rf.midiFile, "midi-file", "", "standard MIDI file to replay")
	f.BoolVar(&rf.loop, "loop", true, "loop the WAV or MIDI file")
	f.BoolVar(&rf.monitor, "monitor", false, "play the audio source through the speaker")
	f.BoolVar(&rf.console, "console", false, "read knob and note commands from stdin")
	f.Float64Var(&rf.lowpass, "lowpass", 0, "low-pass cut-off in Hz ahead of detection, 0 for none")
	f.Float64Var(&rf.highpass, "highpass", 0, "high-pass cut-off in Hz ahead of detection, 0 for none")
}

func applyRunFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("width") {
		c.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		c.Height, _ = f.GetInt("height")
	}
	if f.Changed("fps") {
		c.FPS, _ = f.GetInt("fps")
	}
	if f.Changed("backend") {
		b, _ := f.GetString("backend")
		c.Backend = config.Backend(b)
	}
	if f.Changed("midi-device") {
		c.MIDIDevice, _ = f.GetInt("midi-device")
	}
	if f.Changed("knobs") {
		knobs, _ := f.GetFloat64Slice("knobs")
		if len(knobs) != surface.KnobCount {
			return fmt.Errorf("%w: --knobs needs %d values, got %d", config.ErrInvalid, surface.KnobCount, len(knobs))
		}
		copy(c.Knobs[:], knobs)
	}
	return nil
}

func openDisplay(c *config.Config) (surface.Display, error) {
	switch c.Backend {
	case config.BackendTerm:
		return term.Open(c.Width, c.Height)
	default:
		return window.Open("pitchstaff", c.Width, c.Height)
	}
}

// player is the running audio source and whatever needs stopping with it.
type player struct {
	src  audio.Source
	tone audio.Tone
	stop func()
}

func openAudio(ctx context.Context, c *config.Config) (*player, error) {
	sr := beep.SampleRate(c.SampleRate)
	p := &player{stop: func() {}}

	var stream beep.Streamer
	switch rf.source {
	case "none":
		return p, nil
	case "wav":
		if rf.wavPath == "" {
			return nil, fmt.Errorf("--source wav needs --wav")
		}
		clip, err := audio.LoadWAV(rf.wavPath)
		if err != nil {
			return nil, err
		}
		if rf.highpass > 0 {
			audio.NewHighPass(rf.highpass, clip.SampleRate()).Block(clip.Samples)
		}
		if rf.lowpass > 0 {
			audio.NewButterworth(rf.lowpass, clip.SampleRate()).Block(clip.Samples)
		}
		pb := audio.NewPlayback(clip, rf.loop)
		p.src = pb
		logger.Log.Info("playing %s (%s at %.0fHz)", rf.wavPath, clip.Duration(), clip.SampleRate())
		if rf.monitor {
			if err := audio.Monitor(clip.Format.SampleRate, pb.Streamer()); err != nil {
				return nil, err
			}
			p.stop = audio.StopMonitor
		}
		return p, nil
	case "tone", "arp":
		tone, err := audio.NewTone(rf.wave, sr, rf.freq, 0.8)
		if err != nil {
			return nil, err
		}
		p.tone = tone
		stream = tone

		if rf.source == "arp" {
			wave, _ := tone.(*audio.Wave)
			arp := audio.NewArp(tone, rf.notes, rf.step, func(rest bool) {
				if wave == nil {
					return
				}
				if rest {
					wave.SetAmplitude(0)
				} else {
					wave.SetAmplitude(0.8)
				}
			})
			actx, cancel := context.WithCancel(ctx)
			go arp.Run(actx)
			p.stop = cancel
		}
	default:
		return nil, fmt.Errorf("unknown audio source %q", rf.source)
	}

	if rf.highpass > 0 {
		stream = audio.NewHighPass(rf.highpass, float64(sr)).Process(stream)
	}
	if rf.lowpass > 0 {
		stream = audio.NewButterworth(rf.lowpass, float64(sr)).Process(stream)
	}

	live := audio.NewLive(stream, sr, c.FPS, c.BlockSize*4, !rf.monitor)
	p.src = live
	if rf.monitor {
		if err := audio.Monitor(sr, live.Streamer()); err != nil {
			p.stop()
			return nil, err
		}
		stopArp := p.stop
		p.stop = func() {
			stopArp()
			audio.StopMonitor()
		}
	}
	return p, nil
}

// notes is the MIDI layer of a run, if any.
type notes struct {
	src     midi.Source
	advance func(time.Duration)
	close   func()
}

// openMIDI returns a nil *notes when the run has no MIDI layer.
func openMIDI(c *config.Config) (*notes, error) {
	switch {
	case rf.midiFile != "":
		r, err := midi.LoadReplay(rf.midiFile, rf.loop)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("replaying %s (%s)", rf.midiFile, r.Length())
		return &notes{src: r, advance: r.Advance, close: func() {}}, nil
	case c.MIDIDevice >= 0:
		if err := midi.Init(); err != nil {
			return nil, fmt.Errorf("initializing portmidi: %w", err)
		}
		in, err := midi.Open(c.MIDIDevice)
		if err != nil {
			midi.Terminate()
			return nil, err
		}
		logger.Log.Info("reading midi device %d", c.MIDIDevice)
		return &notes{src: in, close: func() {
			in.Close()
			midi.Terminate()
		}}, nil
	}
	return nil, nil
}

func runStaff(ctx context.Context) error {
	if rf.console && cfg.Backend == config.BackendTerm {
		return fmt.Errorf("--console needs the sdl backend, the terminal is already in use")
	}

	disp, err := openDisplay(cfg)
	if err != nil {
		return err
	}
	defer disp.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := openAudio(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.stop()

	ns, err := openMIDI(cfg)
	if err != nil {
		return err
	}
	if ns != nil {
		defer ns.close()
	}

	var con *console.Console
	if rf.console {
		con = console.New(os.Stdout)
		go con.Run(cancel)
	}

	staff := mode.NewMusicalStaff(modeOptions(cfg))
	knobs := cfg.Knobs
	w, h := disp.Size()
	staff.Setup(disp, mode.Frame{Knobs: knobs, Width: w, Height: h})

	logger.Log.Info("running at %dx%d, %d fps, source %s", w, h, cfg.FPS, rf.source)

	tick := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer tick.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}

		if !disp.Poll() {
			return nil
		}
		elapsed := time.Since(start)

		for i, d := range disp.KnobDelta() {
			knobs[i] = config.Clamp(knobs[i] + d)
		}

		f := mode.Frame{
			Width:      w,
			Height:     h,
			SampleRate: float64(cfg.SampleRate),
			Foreground: surface.Hue,
			Background: surface.Hue,
		}

		if ns != nil {
			if ns.advance != nil {
				ns.advance(elapsed)
			}
			snap := ns.src.Snapshot()
			for i, moved := range snap.Moved {
				if moved {
					knobs[i] = snap.Knobs[i]
				}
			}
			f.Trig = snap.Trig
			f.MIDI = &snap.On
		}

		if con != nil {
			knobs = applyConsole(con, staff, p, knobs, f)
		}
		f.Knobs = knobs

		if p.src != nil {
			f.Audio = p.src.Block(elapsed, cfg.BlockSize)
			f.SampleRate = p.src.SampleRate()
		}

		staff.Draw(disp, f)
		disp.Present()
	}
}

func applyConsole(con *console.Console, staff *mode.MusicalStaff, p *player, knobs [surface.KnobCount]float64, f mode.Frame) [surface.KnobCount]float64 {
	for _, a := range con.Drain() {
		switch a.Name {
		case "clear":
			staff.Setup(nil, f)
		case "note", "freq":
			if p.tone == nil {
				logger.Log.Warn("no tone to retune")
				continue
			}
			hz := a.Value
			if a.Name == "note" {
				hz = note.Frequency(int(a.Value))
			}
			p.tone.SetFrequency(hz)
		default:
			var k int
			if _, err := fmt.Sscanf(a.Name, "knob%d", &k); err == nil && k >= 1 && k <= surface.KnobCount {
				knobs[k-1] = a.Value
			}
		}
	}

	for i, k := range knobs {
		con.Set(fmt.Sprintf("knob%d", i+1), k)
	}
	if p.tone != nil {
		con.Set("freq", p.tone.Frequency())
	}
	return knobs
}
