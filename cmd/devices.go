package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whyrusleeping/pitchstaff/midi"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI devices",
	Long:  `Lists every portmidi device with the id to pass to run --midi-device.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := midi.Init(); err != nil {
			return fmt.Errorf("initializing portmidi: %w", err)
		}
		defer midi.Terminate()

		devs := midi.Devices()
		if len(devs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no midi devices")
			return nil
		}
		for _, d := range devs {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}
