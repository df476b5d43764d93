package cmd

import (
	"fmt"

	"github.com/jsphweid/chordloop/db"
	"github.com/jsphweid/chordloop/progression"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

func remote() (*db.Client, error) {
	return db.New(cfg.Dynamo.Endpoint, cfg.Dynamo.Region, cfg.Dynamo.Table)
}

var pushCmd = &cobra.Command{
	Use:   "push NAME",
	Short: "Uploads the saved progression to DynamoDB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := remote()
		if err != nil {
			return err
		}
		store := progression.New()
		if err := loadProgression(store, cfg.ProgressionPath); err != nil {
			return err
		}
		return client.PutProgression(args[0], cfg.BPM, store.Chords())
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull [NAME]",
	Short: "Downloads a progression from DynamoDB, or lists them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := remote()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			names, err := client.ListProgressions()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		rec, err := client.GetProgression(args[0])
		if err != nil {
			return err
		}
		store := progression.New(rec.Chords...)
		if err := store.Save(cfg.ProgressionPath); err != nil {
			return err
		}
		printProgression(cmd.OutOrStdout(), rec.Chords)
		fmt.Fprintf(cmd.OutOrStdout(), "saved %v (%v bpm) to %v\n", rec.PK, rec.BPM, cfg.ProgressionPath)
		return nil
	},
}
