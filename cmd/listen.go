package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/model"
	"github.com/spf13/cobra"
)

var (
	listenIn     string
	listenAppend bool
)

func init() {
	listenCmd.Flags().StringVar(&listenIn, "in", "", "midi input port name or number (default from config)")
	listenCmd.Flags().BoolVar(&listenAppend, "append", true, "append recognized chords to the saved progression")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Recognizes chords played on a MIDI input",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.Close()

		app, err := NewApp(cfg, nil)
		if err != nil {
			return err
		}
		if listenAppend {
			if err := loadProgression(app.Store, cfg.ProgressionPath); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if listenAppend {
			app.AutoAppend(func(i int, c model.Chord) {
				fmt.Fprintf(out, "%3d  %v\n", i, describe(c))
			})
		} else {
			app.Recognizer.OnChord(func(c model.Chord) {
				fmt.Fprintln(out, describe(c))
			})
		}

		port := listenIn
		if port == "" {
			port = cfg.MIDI.In
		}
		stop, err := midi.Listen(port, liveInput{app.Recognizer})
		if err != nil {
			return err
		}
		defer stop()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		fmt.Fprintln(out, "play some chords, ctrl-c to quit")
		<-ctx.Done()

		if !listenAppend {
			return nil
		}
		return app.Store.Save(cfg.ProgressionPath)
	},
}
