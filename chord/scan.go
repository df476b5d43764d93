package chord

import (
	"time"

	"github.com/jsphweid/chordloop/model"
	"golang.org/x/exp/slices"
)

// Scan replays timestamped note changes through the same state machine the
// Recognizer uses, with window as the release debounce. Chords come back in
// the order they settled.
func Scan(changes []model.NoteChange, window time.Duration) []model.Chord {
	events := slices.Clone(changes)

	// prioritize smaller offset values then note off
	slices.SortStableFunc(events, func(a, b model.NoteChange) bool {
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.IsNoteOff && !b.IsNoteOff
	})

	var res []model.Chord
	var t tracker
	var armed bool
	var deadline time.Duration

	for _, evt := range events {
		if armed && evt.Offset >= deadline {
			if c, ok := t.settle(); ok {
				res = append(res, c)
			}
			armed = false
		}
		if evt.IsNoteOff {
			if t.release(evt.Note) {
				armed = true
				deadline = evt.Offset + window
			}
			continue
		}
		armed = false
		t.press(evt.Note)
	}

	if armed {
		if c, ok := t.settle(); ok {
			res = append(res, c)
		}
	}
	return res
}
