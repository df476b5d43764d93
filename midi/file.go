package midi

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("parsing midi file %v panicked: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

// Changes flattens every track of s into note changes timed from the start
// of the file. A note-on with velocity 0 counts as a note-off.
func Changes(s *smf.SMF) []model.NoteChange {
	var res []model.NoteChange
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				res = append(res, model.NoteChange{
					Offset: time.Duration(s.TimeAt(absTicks)) * time.Microsecond,
					Note:   chord.NoteFromMIDI(int(key), float64(velocity)/127),
				})
			case event.Message.GetNoteEnd(&channel, &key):
				res = append(res, model.NoteChange{
					Offset:    time.Duration(s.TimeAt(absTicks)) * time.Microsecond,
					IsNoteOff: true,
					Note:      chord.NoteFromMIDI(int(key), 0),
				})
			}
		}
	}
	return res
}

// ScanFile recognizes the chords played in a MIDI file.
func ScanFile(path string, window time.Duration) ([]model.Chord, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return chord.Scan(Changes(s), window), nil
}
