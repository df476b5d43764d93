package midi

import (
	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var log = logrus.WithField("component", "midi")

const sustainController = 64

// Handler receives live input. Calls come from the driver's goroutine.
type Handler interface {
	NoteOn(note model.NoteEvent)
	NoteOff(note model.NoteEvent)
	Sustain(down bool)
}

// Listen forwards messages from an input port to h until stop is called.
func Listen(port string, h Handler) (stop func(), err error) {
	in, err := findIn(port)
	if err != nil {
		return nil, errors.Wrapf(err, "can't find midi input %q", port)
	}

	stop, err = gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		Dispatch(msg, h)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "can't listen to midi input %q", port)
	}
	log.WithField("port", in.String()).Info("listening")
	return stop, nil
}

// Dispatch decodes one message and calls the matching Handler method.
// Anything other than notes and the sustain pedal is ignored.
func Dispatch(msg gomidi.Message, h Handler) {
	var ch, key, vel, controller, value uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		h.NoteOn(chord.NoteFromMIDI(int(key), float64(vel)/127))
	case msg.GetNoteEnd(&ch, &key):
		h.NoteOff(chord.NoteFromMIDI(int(key), 0))
	case msg.GetControlChange(&ch, &controller, &value):
		if controller == sustainController {
			h.Sustain(value >= 64)
		}
	default:
		// ignore
	}
}
