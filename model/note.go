package model

import "time"

type NoteEvent struct {
	Identifier string  `json:"identifier"`
	PitchClass string  `json:"pitch_class"`
	Octave     int     `json:"octave"`
	MIDINumber int     `json:"midi_number"`
	Velocity   float64 `json:"velocity"`
}

// NoteChange is a note event at an offset from the start of some input,
// e.g. a MIDI file.
type NoteChange struct {
	Offset    time.Duration
	IsNoteOff bool
	Note      NoteEvent
}
