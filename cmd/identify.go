package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chordloop/chord"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(identifyCmd)
}

var identifyCmd = &cobra.Command{
	Use:   "identify NOTE...",
	Short: "Names the chord formed by some notes",
	Long: `Names the chord formed by some notes, e.g. "identify C4 E4 G4 Bb4".
The first note given is tried as the root first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := chord.Identify(args)
		if !ok {
			return fmt.Errorf("no chord matches %v", strings.Join(args, " "))
		}
		fmt.Println(describe(c))
		return nil
	},
}
