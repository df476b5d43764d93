package metronome

import (
	"time"

	"github.com/jsphweid/chordloop/midi"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var log = logrus.WithField("component", "metronome")

// General MIDI percussion: channel 10, hi/lo wood block.
const (
	DefaultChannel = 9
	DefaultStrong  = 76
	DefaultWeak    = 77
	clickLength    = 30 * time.Millisecond
)

type Metronome struct {
	send     midi.Sender
	channel  uint8
	strong   uint8
	weak     uint8
	velocity uint8

	now       func() time.Time
	afterFunc func(d time.Duration, f func())
}

// New returns a metronome clicking on send. Clicks are dropped when send is
// nil.
func New(send midi.Sender) *Metronome {
	return &Metronome{
		send:     send,
		channel:  DefaultChannel,
		strong:   DefaultStrong,
		weak:     DefaultWeak,
		velocity: 110,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (m *Metronome) SetNotes(strong, weak uint8) {
	m.strong = strong & 0x7f
	m.weak = weak & 0x7f
}

// Note returns the key for a beat: strong on the first beat of a measure.
func (m *Metronome) Note(beatIndex int, beatsPerMeasure int) uint8 {
	if beatsPerMeasure > 0 && beatIndex%beatsPerMeasure == 0 {
		return m.strong
	}
	return m.weak
}

// Click schedules a tick at the given time and returns immediately. Ticks
// whose time already passed sound right away.
func (m *Metronome) Click(beatIndex int, beatsPerMeasure int, at time.Time) {
	if m.send == nil {
		log.Debug("no output, dropping click")
		return
	}
	key := m.Note(beatIndex, beatsPerMeasure)
	delay := at.Sub(m.now())
	if delay < 0 {
		delay = 0
	}
	m.afterFunc(delay, func() {
		m.write(gomidi.NoteOn(m.channel, key, m.velocity))
		m.afterFunc(clickLength, func() {
			m.write(gomidi.NoteOff(m.channel, key))
		})
	})
}

func (m *Metronome) write(msg gomidi.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("click send panicked")
		}
	}()
	if err := m.send(msg); err != nil {
		log.WithError(err).Warn("click send failed")
	}
}
