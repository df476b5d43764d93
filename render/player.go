package render

import (
	"context"
	"sync"
	"time"

	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/playback"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var log = logrus.WithField("component", "render")

const (
	DefaultChannel  = 0
	DefaultVelocity = 90
)

// Player sounds chords on a MIDI output. Its Play method is the per-chord
// action handed to the playback scheduler.
type Player struct {
	send     midi.Sender
	tempo    *tempo.Tempo
	channel  uint8
	velocity uint8

	mu       sync.Mutex
	previous []string
	sounding map[uint8]bool
}

// NewPlayer returns a player writing to send. A nil send gives a silent
// player that still keeps time.
func NewPlayer(send midi.Sender, t *tempo.Tempo) *Player {
	return &Player{
		send:     send,
		tempo:    t,
		channel:  DefaultChannel,
		velocity: DefaultVelocity,
		sounding: make(map[uint8]bool),
	}
}

func (p *Player) SetChannel(ch uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channel = ch & 0x0f
}

// Play voices the chord, holds it for its remaining beats at the current
// tempo and releases it. It returns ctx.Err() when cut short.
func (p *Player) Play(ctx context.Context, item playback.Item) error {
	p.mu.Lock()
	notes := chord.Voice(item.Chord, p.previous)
	p.mu.Unlock()

	keys := midiKeys(notes)
	if len(keys) == 0 {
		log.WithField("chord", chord.Name(item.Chord)).Warn("nothing to voice")
	}
	if err := p.noteOn(keys); err != nil {
		return err
	}

	remaining := item.Chord.Duration - item.StartOffsetBeats
	timer := time.NewTimer(p.tempo.Beats(remaining))
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	if err := p.noteOff(keys); err != nil {
		return err
	}
	p.mu.Lock()
	p.previous = notes
	p.mu.Unlock()
	return ctx.Err()
}

// ReleaseAll silences every note still sounding and forgets the previous
// voicing so the next run starts from the default octave.
func (p *Player) ReleaseAll() error {
	p.mu.Lock()
	keys := maps.Keys(p.sounding)
	p.previous = nil
	p.mu.Unlock()
	slices.Sort(keys)
	return p.noteOff(keys)
}

func (p *Player) noteOn(keys []uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, key := range keys {
		p.sounding[key] = true
		if err := p.write(gomidi.NoteOn(p.channel, key, p.velocity)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) noteOff(keys []uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, key := range keys {
		delete(p.sounding, key)
		if err := p.write(gomidi.NoteOff(p.channel, key)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) write(msg gomidi.Message) error {
	if p.send == nil {
		return nil
	}
	return errors.Wrap(p.send(msg), "midi send failed")
}

func midiKeys(notes []string) []uint8 {
	var keys []uint8
	for _, n := range notes {
		parsed, err := chord.ParseNote(n)
		if err != nil || parsed.MIDINumber < 0 || parsed.MIDINumber > 127 {
			log.WithField("note", n).Debug("skipping unplayable note")
			continue
		}
		keys = append(keys, uint8(parsed.MIDINumber))
	}
	return keys
}
