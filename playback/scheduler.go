package playback

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "playback")

// Source is the progression being played. It is re-read on every step so
// chords appended during a run are picked up.
type Source interface {
	Len() int
	At(i int) (model.Chord, bool)
}

// Item is one dispatched chord.
type Item struct {
	Chord model.Chord
	Index int
	// beat within the chord at which playback starts
	StartOffsetBeats float64
	// absolute beat of the chord's start in the progression
	StartBeat float64
}

// PlayFunc sounds one chord and returns once its audible duration has
// elapsed, or earlier when ctx is cancelled.
type PlayFunc func(ctx context.Context, item Item) error

// Clicker emits a metronome tick scheduled for at. It must not block.
type Clicker interface {
	Click(beatIndex int, beatsPerMeasure int, at time.Time)
}

type Options struct {
	StartIndex       int
	StartOffsetBeats float64
}

type Scheduler struct {
	source    Source
	tempo     *tempo.Tempo
	play      PlayFunc
	metronome Clicker

	OnStart func(absoluteStartBeat float64)
	OnStop  func()
	OnIndex func(index int)

	mu              sync.Mutex
	playing         bool
	cancel          context.CancelFunc
	index           int
	looping         bool
	metronomeOn     bool
	beatsPerMeasure int

	now func() time.Time
}

func NewScheduler(source Source, t *tempo.Tempo, play PlayFunc, metronome Clicker) *Scheduler {
	return &Scheduler{
		source:          source,
		tempo:           t,
		play:            play,
		metronome:       metronome,
		index:           -1,
		metronomeOn:     metronome != nil,
		beatsPerMeasure: 4,
		now:             time.Now,
	}
}

func (s *Scheduler) SetLooping(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.looping = on
}

func (s *Scheduler) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

func (s *Scheduler) SetMetronome(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metronomeOn = on
}

func (s *Scheduler) MetronomeActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metronomeOn && s.metronome != nil
}

func (s *Scheduler) SetBeatsPerMeasure(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beatsPerMeasure = n
}

func (s *Scheduler) BeatsPerMeasure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beatsPerMeasure
}

func (s *Scheduler) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// CurrentIndex is the index of the chord being played, -1 when idle.
func (s *Scheduler) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Play runs the progression from opts until it ends, or until Stop or ctx
// cancels it. It returns immediately when a run is already in progress.
// OnStop is called exactly once for every run this starts.
func (s *Scheduler) Play(ctx context.Context, opts Options) {
	s.mu.Lock()
	if s.playing {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.playing = true
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.playing = false
		s.cancel = nil
		s.mu.Unlock()
		s.setIndex(-1)
		if s.OnStop != nil {
			s.OnStop()
		}
	}()

	err := s.run(ctx, opts)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		log.WithError(err).Debug("playback cancelled")
	default:
		log.WithError(err).Error("playback failed")
	}
}

// Stop cancels the current run. Safe to call any number of times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing || s.cancel == nil {
		return
	}
	s.cancel()
}

func (s *Scheduler) run(ctx context.Context, opts Options) error {
	for {
		start := BeatsBefore(s.source, opts.StartIndex) + opts.StartOffsetBeats
		if s.OnStart != nil {
			s.OnStart(start)
		}

		dispatched, err := s.pass(ctx, opts, start)
		if err != nil {
			return err
		}
		if ctx.Err() != nil || !s.Looping() {
			return nil
		}
		if dispatched == 0 {
			log.Debug("nothing playable, not looping")
			return nil
		}
		opts = Options{}
	}
}

// pass plays the progression once from opts and reports how many chords
// were handed to the play func.
func (s *Scheduler) pass(ctx context.Context, opts Options, start float64) (int, error) {
	var dispatched int
	globalBeat := start
	position := start

	for i := opts.StartIndex; i < s.source.Len(); i++ {
		if ctx.Err() != nil {
			return dispatched, nil
		}
		c, ok := s.source.At(i)
		if !ok || !c.Playable() {
			continue
		}
		s.setIndex(i)

		offset := 0.0
		if i == opts.StartIndex {
			offset = opts.StartOffsetBeats
		}

		if s.MetronomeActive() {
			globalBeat = s.clicks(ctx, c, offset, globalBeat)
		}
		if ctx.Err() != nil {
			return dispatched, nil
		}

		item := Item{Chord: c, Index: i, StartOffsetBeats: offset, StartBeat: position - offset}
		dispatched++
		if err := s.dispatch(ctx, item); err != nil {
			return dispatched, err
		}
		if ctx.Err() != nil {
			return dispatched, nil
		}
		position += c.Duration - offset
	}
	return dispatched, nil
}

// clicks schedules one metronome tick per whole beat left in the chord and
// returns the advanced global beat counter.
func (s *Scheduler) clicks(ctx context.Context, c model.Chord, offset float64, globalBeat float64) float64 {
	beat := s.tempo.BeatDuration()
	perMeasure := s.BeatsPerMeasure()
	now := s.now()
	for local := math.Floor(offset); local < c.Duration; local++ {
		if ctx.Err() != nil {
			break
		}
		at := now.Add(time.Duration((local - offset) * float64(beat)))
		s.metronome.Click(int(math.Floor(globalBeat)), perMeasure, at)
		globalBeat++
	}
	return globalBeat
}

func (s *Scheduler) dispatch(ctx context.Context, item Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("play func panicked on chord %d: %v", item.Index, r)
		}
	}()
	if err := s.play(ctx, item); err != nil {
		return errors.Wrapf(err, "playing chord %d", item.Index)
	}
	return nil
}

func (s *Scheduler) setIndex(i int) {
	s.mu.Lock()
	s.index = i
	s.mu.Unlock()
	if s.OnIndex != nil {
		s.OnIndex(i)
	}
}
