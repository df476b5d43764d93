package chord

import (
	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/util"
	"golang.org/x/exp/slices"
)

// Name renders a chord symbol such as "C", "F#m7" or "Bb7b9".
func Name(c model.Chord) string {
	if q, ok := ParseQuality(c.Quality); ok {
		return c.Root + q.String()
	}
	return c.Root + c.Quality
}

// Identify labels a set of held notes. Candidate roots are tried in the order
// their pitch class first appears in identifiers and the first one that
// matches a formula wins, so the press order breaks ties between ambiguous
// sets. Inversion is always reported as 0.
func Identify(identifiers []string) (model.Chord, bool) {
	var pitchClasses []string
	for _, id := range identifiers {
		pitchClasses = append(pitchClasses, PitchClass(id))
	}
	pitchClasses = util.Dedupe(pitchClasses)
	if len(pitchClasses) == 0 {
		return model.Chord{}, false
	}

	for _, root := range pitchClasses {
		intervals, ok := intervalsFrom(root, pitchClasses)
		if !ok {
			continue
		}
		q, ok := match(intervals)
		if !ok {
			continue
		}
		c := model.NewChord(root, q.String(), model.DefaultDuration)
		c.Notes = slices.Clone(identifiers)
		return c, true
	}
	return model.Chord{}, false
}

func intervalsFrom(root string, pitchClasses []string) ([]int, bool) {
	rootIdx := PitchIndex(root)
	if rootIdx == -1 {
		return nil, false
	}
	intervals := make([]int, 0, len(pitchClasses))
	for _, pc := range pitchClasses {
		idx := PitchIndex(pc)
		if idx == -1 {
			return nil, false
		}
		intervals = append(intervals, (idx-rootIdx+12)%12)
	}
	slices.Sort(intervals)
	return slices.Compact(intervals), true
}
