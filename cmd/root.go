package cmd

import (
	"github.com/jsphweid/chordloop/config"
	"github.com/jsphweid/chordloop/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.WithField("component", "cmd")

var (
	cfgPath  string
	logLevel string
	cfg      = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "chordloop",
	Short: "Chord recognition and progression looping",
	Long: `chordloop recognizes chords played on a MIDI keyboard and plays back
progressions of chords with a metronome, looping and seeking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.Level()
		if logLevel != "" {
			if level, err = logrus.ParseLevel(logLevel); err != nil {
				return err
			}
		}
		logrus.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", constants.GetConfigPath(), "path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides log_level from the config")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
