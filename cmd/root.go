package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/whyrusleeping/pitchstaff/config"
	"github.com/whyrusleeping/pitchstaff/logger"
	"github.com/whyrusleeping/pitchstaff/mode"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "pitchstaff",
	Short: "Draws the notes it hears on a grand staff",
	Long: `pitchstaff listens to a tone, a WAV file or a MIDI device, works out
which note is sounding, and draws the last few notes on a treble and bass
staff. Settings come from PITCHSTAFF_* environment variables and flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "", "debug, info, warn or error")
	f.Int("sample-rate", 0, "audio sample rate in Hz")
	f.Int("block", 0, "samples per analysed block")
	f.Int("history", 0, "note changes kept on the staff")
	f.Float64("threshold-base", 0, "correlation needed at full sensitivity")
	f.Float64("threshold-span", 0, "extra correlation needed at zero sensitivity")
}

// loadConfig layers the environment and then any flag that was set over
// the defaults.
func loadConfig(cmd *cobra.Command) error {
	c := config.Load()
	f := cmd.Flags()

	if f.Changed("log-level") {
		c.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("sample-rate") {
		c.SampleRate, _ = f.GetInt("sample-rate")
	}
	if f.Changed("block") {
		c.BlockSize, _ = f.GetInt("block")
	}
	if f.Changed("history") {
		c.History, _ = f.GetInt("history")
	}
	if f.Changed("threshold-base") {
		c.ThresholdBase, _ = f.GetFloat64("threshold-base")
	}
	if f.Changed("threshold-span") {
		c.ThresholdSpan, _ = f.GetFloat64("threshold-span")
	}
	if err := applyRunFlags(cmd, c); err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		return err
	}

	lv, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %s", config.ErrInvalid, err)
	}
	logger.Init(os.Stderr, lv)

	cfg = c
	return nil
}

func modeOptions(c *config.Config) mode.Options {
	return mode.Options{
		History:       c.History,
		ThresholdBase: c.ThresholdBase,
		ThresholdSpan: c.ThresholdSpan,
		ThresholdSet:  true,
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}
