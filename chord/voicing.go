package chord

import (
	"github.com/jsphweid/chordloop/model"
	"golang.org/x/exp/slices"
)

const defaultVoicingOctave = 3

// Voice returns the notes to sound for a chord. Recorded notes are used as
// they are; otherwise the chord is built from its root, quality and
// inversion, with the root octave (2..5) picked closest to the root of the
// previous voicing so consecutive chords stay close together.
func Voice(c model.Chord, previous []string) []string {
	if len(c.Notes) > 0 {
		return slices.Clone(c.Notes)
	}
	q, ok := ParseQuality(c.Quality)
	if !ok {
		return nil
	}
	rootIdx := PitchIndex(c.Root)
	if rootIdx == -1 {
		return nil
	}

	octave := defaultVoicingOctave
	if len(previous) > 0 {
		if prev, err := ParseNote(previous[0]); err == nil {
			octave = closestOctave(rootIdx, prev.MIDINumber)
		}
	}

	intervals := q.Intervals()
	keys := make([]int, len(intervals))
	for i, interval := range intervals {
		keys[i] = (octave+1)*12 + rootIdx + interval
	}

	n := len(keys)
	shift := floorDiv(c.Inversion, n)
	raised := ((c.Inversion % n) + n) % n
	for i := 0; i < raised; i++ {
		keys[i] += 12
	}
	for i := range keys {
		keys[i] += shift * 12
	}
	slices.Sort(keys)

	res := make([]string, 0, n)
	for _, k := range keys {
		res = append(res, NoteFromMIDI(k, 1).Identifier)
	}
	return res
}

func closestOctave(rootIdx int, previousRoot int) int {
	best := defaultVoicingOctave
	bestDistance := -1
	for octave := 2; octave <= 5; octave++ {
		distance := (octave+1)*12 + rootIdx - previousRoot
		if distance < 0 {
			distance = -distance
		}
		if bestDistance == -1 || distance < bestDistance {
			best = octave
			bestDistance = distance
		}
	}
	return best
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
