package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/progression"
)

// loadProgression fills store from path. A missing file leaves it empty.
func loadProgression(store *progression.Store, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithField("path", path).Debug("no saved progression")
		return nil
	}
	return store.Load(path)
}

// openOutput opens the configured output port, falling back to silent
// playback when there is none.
func openOutput(port string) midi.Sender {
	send, err := midi.OpenOut(port)
	if err != nil {
		log.WithError(err).Warn("no midi output, playing silently")
		return nil
	}
	return send
}

func describe(c model.Chord) string {
	name := chord.Name(c)
	if q, ok := chord.ParseQuality(c.Quality); ok {
		name = fmt.Sprintf("%v (%v %v)", name, c.Root, q.Name())
	}
	if c.Inversion > 0 {
		name += fmt.Sprintf(" inv %d", c.Inversion)
	}
	return name
}

func printProgression(w io.Writer, chords model.Progression) {
	if len(chords) == 0 {
		fmt.Fprintln(w, "(empty progression)")
		return
	}
	var beat float64
	for i, c := range chords {
		notes := ""
		if len(c.Notes) > 0 {
			notes = " [" + strings.Join(c.Notes, " ") + "]"
		}
		fmt.Fprintf(w, "%3d  beat %-6v %-28v %v beats%v\n", i, beat, describe(c), c.Duration, notes)
		if c.Playable() {
			beat += c.Duration
		}
	}
}
