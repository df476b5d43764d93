package cmd

import (
	"fmt"

	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/playback"
	"github.com/jsphweid/chordloop/progression"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE.mid",
	Short: "Writes the saved progression as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := progression.New()
		if err := loadProgression(store, cfg.ProgressionPath); err != nil {
			return err
		}
		beatsPerMeasure, err := playback.ParseTimeSignature(cfg.TimeSignature)
		if err != nil {
			return err
		}
		bpm := tempo.New(cfg.BPM).BPM()
		if err := midi.ExportFile(args[0], store.Chords(), bpm, beatsPerMeasure); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d chords to %v\n", store.Len(), args[0])
		return nil
	},
}
