package midi

import (
	"math"

	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerBeat   = 960
	exportVelocity = 100
	// fraction of a chord's duration that sounds; the rest is silence so
	// consecutive chords don't run into each other when scanned back
	articulation = 0.9
)

// Export renders a progression as a two track SMF: a tempo/meter track and
// the voiced chords on channel 0.
func Export(chords model.Progression, bpm float64, beatsPerMeasure int) (*smf.SMF, error) {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var meta smf.Track
	meta.Add(0, smf.MetaMeter(uint8(beatsPerMeasure), 4))
	meta.Add(0, smf.MetaTempo(bpm))
	meta.Close(0)
	if err := res.Add(meta); err != nil {
		return nil, errors.Wrap(err, "error adding tempo track")
	}

	var track smf.Track
	var delta uint32
	var previous []string
	for _, c := range chords {
		if !c.Playable() {
			continue
		}
		length := uint32(math.Round(c.Duration * ticksPerBeat))
		sounding := uint32(float64(length) * articulation)

		var keys []uint8
		notes := chord.Voice(c, previous)
		for _, n := range notes {
			parsed, err := chord.ParseNote(n)
			if err != nil || parsed.MIDINumber < 0 || parsed.MIDINumber > 127 {
				continue
			}
			keys = append(keys, uint8(parsed.MIDINumber))
		}
		if len(keys) == 0 {
			delta += length
			continue
		}

		for i, key := range keys {
			if i == 0 {
				track.Add(delta, gomidi.NoteOn(0, key, exportVelocity))
			} else {
				track.Add(0, gomidi.NoteOn(0, key, exportVelocity))
			}
		}
		for i, key := range keys {
			if i == 0 {
				track.Add(sounding, gomidi.NoteOff(0, key))
			} else {
				track.Add(0, gomidi.NoteOff(0, key))
			}
		}
		delta = length - sounding
		previous = notes
	}
	track.Close(delta)
	if err := res.Add(track); err != nil {
		return nil, errors.Wrap(err, "error adding chord track")
	}
	return res, nil
}

func ExportFile(path string, chords model.Progression, bpm float64, beatsPerMeasure int) error {
	s, err := Export(chords, bpm, beatsPerMeasure)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return errors.Wrapf(err, "write failed for file %v", path)
	}
	return nil
}
