package cmd

import (
	"fmt"

	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/progression"
	"github.com/spf13/cobra"
)

var scanAppend bool

func init() {
	scanCmd.Flags().BoolVar(&scanAppend, "append", false, "append the chords to the saved progression")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan FILE.mid",
	Short: "Recognizes the chords played in a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chords, err := midi.ScanFile(args[0], cfg.DebounceWindow())
		if err != nil {
			return err
		}
		printProgression(cmd.OutOrStdout(), chords)

		if !scanAppend {
			return nil
		}
		store := progression.New()
		if err := loadProgression(store, cfg.ProgressionPath); err != nil {
			return err
		}
		for _, c := range chords {
			store.Append(c)
		}
		if err := store.Save(cfg.ProgressionPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "appended %d chords to %v\n", len(chords), cfg.ProgressionPath)
		return nil
	},
}
