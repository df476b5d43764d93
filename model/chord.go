package model

import "github.com/google/uuid"

// DefaultDuration is the length in beats given to chords that come out of
// recognition.
const DefaultDuration = 2

type Notes = []string

type Chord struct {
	ID        string  `json:"id"`
	Root      string  `json:"root"`
	Quality   string  `json:"quality"`
	Inversion int     `json:"inversion"`
	Duration  float64 `json:"duration"`
	Notes     Notes   `json:"notes"`
}

func NewChord(root string, quality string, duration float64) Chord {
	return Chord{
		ID:       uuid.New().String(),
		Root:     root,
		Quality:  quality,
		Duration: duration,
	}
}

// Playable reports whether the chord has a positive duration. Anything else
// is skipped by playback.
func (c Chord) Playable() bool {
	return c.Duration > 0
}

type Progression = []Chord
