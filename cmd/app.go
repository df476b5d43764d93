package cmd

import (
	"context"

	"github.com/jsphweid/chordloop/chord"
	"github.com/jsphweid/chordloop/config"
	"github.com/jsphweid/chordloop/metronome"
	"github.com/jsphweid/chordloop/midi"
	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/playback"
	"github.com/jsphweid/chordloop/progression"
	"github.com/jsphweid/chordloop/render"
	"github.com/jsphweid/chordloop/tempo"
)

// App holds everything a command needs: the progression, the recognizer
// feeding it and the transport playing it.
type App struct {
	Config     config.Config
	Store      *progression.Store
	Tempo      *tempo.Tempo
	Recognizer *chord.Recognizer
	Player     *render.Player
	Metronome  *metronome.Metronome
	Transport  *playback.Transport
}

// NewApp wires the components together. out may be nil, in which case
// playback keeps time silently.
func NewApp(c config.Config, out midi.Sender) (*App, error) {
	a := &App{
		Config:     c,
		Store:      progression.New(),
		Tempo:      tempo.New(c.BPM),
		Recognizer: chord.NewRecognizer(c.DebounceWindow()),
	}

	a.Player = render.NewPlayer(out, a.Tempo)
	a.Player.SetChannel(c.MIDI.Channel)
	a.Metronome = metronome.New(out)
	a.Metronome.SetNotes(c.Metronome.Strong, c.Metronome.Weak)

	s := playback.NewScheduler(a.Store, a.Tempo, a.Player.Play, a.Metronome)
	s.SetLooping(c.Looping)
	s.SetMetronome(c.Metronome.Enabled)
	s.OnStart = func(beat float64) {
		log.WithField("beat", beat).Info("playback started")
	}
	s.OnStop = func() {
		if err := a.Player.ReleaseAll(); err != nil {
			log.WithError(err).Warn("could not release notes")
		}
		log.Info("playback stopped")
	}
	a.Transport = playback.NewTransport(s)
	if err := a.Transport.SetTimeSignature(c.TimeSignature); err != nil {
		return nil, err
	}
	return a, nil
}

// AutoAppend adds every recognized chord to the progression, then calls
// notify if it is set.
func (a *App) AutoAppend(notify func(index int, c model.Chord)) {
	a.Recognizer.OnChord(func(c model.Chord) {
		i := a.Store.Append(c)
		if notify != nil {
			notify(i, c)
		}
	})
}

// StartPlayback plays from the seek position in the background. It reports
// false when already playing.
func (a *App) StartPlayback() bool {
	if a.Transport.IsPlaying() {
		return false
	}
	go a.Transport.Play(context.Background())
	return true
}

func (a *App) TransportState() model.TransportResponse {
	return model.TransportResponse{
		Playing:      a.Transport.IsPlaying(),
		CurrentIndex: a.Transport.CurrentIndex(),
		SeekBeat:     a.Transport.SeekBeat(),
		TotalBeats:   a.Transport.TotalBeats(),
		BPM:          a.Tempo.BPM(),
		Looping:      a.Transport.Looping(),
		Metronome:    a.Transport.MetronomeActive(),
	}
}

// liveInput adapts the recognizer to MIDI input. The sustain pedal is
// reported but plays no part in recognition.
type liveInput struct {
	*chord.Recognizer
}

func (liveInput) Sustain(down bool) {
	log.WithField("down", down).Debug("sustain pedal")
}

// newChord builds a chord from user input, normalizing the quality label to
// its canonical symbol.
func newChord(root string, quality string, duration float64, inversion int, notes []string) (model.Chord, error) {
	q, ok := chord.ParseQuality(quality)
	if !ok {
		return model.Chord{}, errUnknownQuality(quality)
	}
	if chord.PitchIndex(root) == -1 {
		return model.Chord{}, errUnknownRoot(root)
	}
	if inversion < 0 {
		return model.Chord{}, errNegativeInversion
	}
	for _, n := range notes {
		if _, err := chord.ParseNote(n); err != nil {
			return model.Chord{}, err
		}
	}
	c := model.NewChord(root, q.String(), duration)
	c.Inversion = inversion
	c.Notes = notes
	return c, nil
}
