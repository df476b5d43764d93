package chord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/chordloop/model"
	"golang.org/x/exp/slices"
)

// Scale is the canonical 12-tone scale every spelling is indexed into.
var Scale = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var enharmonics = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
	"Cb": "B",
	"Fb": "E",
	"E#": "F",
	"B#": "C",
}

// PitchIndex returns the position of a pitch class in Scale, or -1.
func PitchIndex(pitchClass string) int {
	if alias, ok := enharmonics[pitchClass]; ok {
		pitchClass = alias
	}
	return slices.Index(Scale, pitchClass)
}

// PitchClass strips the octave suffix from a note identifier ("Bb3" -> "Bb").
func PitchClass(identifier string) string {
	return strings.TrimRight(identifier, "-0123456789")
}

func ParseNote(identifier string) (model.NoteEvent, error) {
	pc := PitchClass(identifier)
	idx := PitchIndex(pc)
	if idx == -1 {
		return model.NoteEvent{}, fmt.Errorf("unknown pitch class in %q", identifier)
	}
	octave, err := strconv.Atoi(identifier[len(pc):])
	if err != nil {
		return model.NoteEvent{}, fmt.Errorf("missing octave in %q", identifier)
	}
	return model.NoteEvent{
		Identifier: identifier,
		PitchClass: pc,
		Octave:     octave,
		MIDINumber: (octave+1)*12 + idx,
		Velocity:   1,
	}, nil
}

// NoteFromMIDI names a MIDI key with sharp spelling, 60 being C4.
func NoteFromMIDI(number int, velocity float64) model.NoteEvent {
	pc := Scale[((number%12)+12)%12]
	octave := number/12 - 1
	return model.NoteEvent{
		Identifier: pc + strconv.Itoa(octave),
		PitchClass: pc,
		Octave:     octave,
		MIDINumber: number,
		Velocity:   velocity,
	}
}
