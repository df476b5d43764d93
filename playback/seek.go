package playback

import (
	"math"

	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/util"
)

func duration(c model.Chord) float64 {
	if !c.Playable() {
		return 0
	}
	return c.Duration
}

// BeatsBefore sums the durations of the chords before index.
func BeatsBefore(src Source, index int) float64 {
	var durations []float64
	for i := 0; i < index && i < src.Len(); i++ {
		if c, ok := src.At(i); ok {
			durations = append(durations, duration(c))
		}
	}
	return util.Sum(durations)
}

// Locate maps an absolute beat onto the chord containing it and the offset
// into that chord. Beats outside the progression map to the beginning.
func Locate(src Source, targetBeat float64) Options {
	var before float64
	for i := 0; i < src.Len(); i++ {
		c, ok := src.At(i)
		if !ok {
			continue
		}
		d := duration(c)
		if targetBeat >= before && targetBeat < before+d {
			return Options{StartIndex: i, StartOffsetBeats: targetBeat - before}
		}
		before += d
	}
	return Options{}
}

// TotalBeats is the length of the timeline: the progression plus a margin,
// rounded up to whole measures. An empty progression is one measure.
func TotalBeats(src Source, beatsPerMeasure int, margin float64) float64 {
	perMeasure := float64(beatsPerMeasure)
	if perMeasure <= 0 {
		perMeasure = 4
	}
	beats := BeatsBefore(src, src.Len())
	if beats == 0 {
		return perMeasure
	}
	if src.Len() > 0 {
		beats += margin
	}
	return math.Ceil(beats/perMeasure) * perMeasure
}
