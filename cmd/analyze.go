package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/whyrusleeping/pitchstaff/audio"
	"github.com/whyrusleeping/pitchstaff/mode"
	"github.com/whyrusleeping/pitchstaff/pitch"
)

var (
	analyzeSensitivity float64
	analyzeLowpass     float64
	analyzeHighpass    float64
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.Float64Var(&analyzeSensitivity, "sensitivity", 0.5, "detection sensitivity, as knob1")
	f.Float64Var(&analyzeLowpass, "lowpass", 0, "low-pass cut-off in Hz ahead of detection, 0 for none")
	f.Float64Var(&analyzeHighpass, "highpass", 0, "high-pass cut-off in Hz ahead of detection, 0 for none")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Print the note changes in a WAV file",
	Long: `Runs the detector over consecutive blocks of a WAV file and prints a
line for every note change, with the autocorrelation and FFT readings
side by side, then the history the staff would show.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clip, err := audio.LoadWAV(args[0])
		if err != nil {
			return err
		}
		if analyzeHighpass > 0 {
			audio.NewHighPass(analyzeHighpass, clip.SampleRate()).Block(clip.Samples)
		}
		if analyzeLowpass > 0 {
			audio.NewButterworth(analyzeLowpass, clip.SampleRate()).Block(clip.Samples)
		}
		return analyze(cmd.OutOrStdout(), args[0], clip, cfg.BlockSize, analyzeSensitivity, modeOptions(cfg))
	},
}

func analyze(out io.Writer, name string, clip *audio.Clip, block int, sensitivity float64, opts mode.Options) error {
	st := mode.Init(opts)
	f := mode.Frame{SampleRate: clip.SampleRate()}
	f.Knobs[mode.KnobSensitivity] = sensitivity
	threshold := st.Threshold(f)

	fmt.Fprintf(out, "%s: %s at %.0fHz, %d sample blocks, threshold %.3f\n",
		name, clip.Duration().Round(time.Millisecond), clip.SampleRate(), block, threshold)

	blocks := clip.Blocks(block)
	for i, b := range blocks {
		f.Audio = b
		if !mode.Step(st, f) {
			continue
		}

		at := clip.Format.SampleRate.D(i * block).Round(time.Millisecond)
		r := pitch.Analyze(b, f.SampleRate, threshold)
		peak, ok := pitch.SpectralPeak(b, f.SampleRate)
		fft := "       -"
		if ok {
			fft = fmt.Sprintf("%6.1fHz", peak)
		}
		fmt.Fprintf(out, "%8s  %-4s %7.1fHz  corr %.3f  fft %s\n", at, st.Current.Note, st.Current.Frequency, r.Correlation, fft)
	}

	names := make([]string, 0, st.History.Len())
	for _, e := range st.History.Entries() {
		names = append(names, e.Note.String())
	}
	fmt.Fprintf(out, "history: %s\n", strings.Join(names, " "))
	return nil
}
