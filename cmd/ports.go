package cmd

import (
	"fmt"

	"github.com/jsphweid/chordloop/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Lists MIDI ports",
	Run: func(cmd *cobra.Command, args []string) {
		defer midi.Close()
		ins, outs := midi.Ports()
		fmt.Println("inputs:")
		for i, name := range ins {
			fmt.Printf("  %d: %v\n", i, name)
		}
		fmt.Println("outputs:")
		for i, name := range outs {
			fmt.Printf("  %d: %v\n", i, name)
		}
	},
}
