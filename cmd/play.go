package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jsphweid/chordloop/midi"
	"github.com/spf13/cobra"
)

var (
	playOut         string
	playFrom        float64
	playLoop        bool
	playNoMetronome bool
	playBPM         float64
)

func init() {
	playCmd.Flags().StringVar(&playOut, "out", "", "midi output port name or number (default from config)")
	playCmd.Flags().Float64Var(&playFrom, "from", 0, "beat to start from")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "loop until interrupted")
	playCmd.Flags().BoolVar(&playNoMetronome, "no-metronome", false, "disable the metronome")
	playCmd.Flags().Float64Var(&playBPM, "bpm", 0, "tempo (default from config)")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays the saved progression",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.Close()

		port := playOut
		if port == "" {
			port = cfg.MIDI.Out
		}
		app, err := NewApp(cfg, openOutput(port))
		if err != nil {
			return err
		}
		if err := loadProgression(app.Store, cfg.ProgressionPath); err != nil {
			return err
		}
		if app.Store.Len() == 0 {
			return fmt.Errorf("nothing to play in %v", cfg.ProgressionPath)
		}

		if playBPM > 0 {
			app.Tempo.SetBPM(playBPM)
		}
		if playLoop {
			app.Transport.SetLooping(true)
		}
		if playNoMetronome {
			app.Transport.SetMetronome(false)
		}
		app.Transport.OnIndex = func(i int) {
			if c, ok := app.Store.At(i); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %v\n", i, describe(c))
			}
		}
		app.Transport.Seek(playFrom)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		app.Transport.Play(ctx)
		return nil
	},
}
