package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	mu     sync.Mutex
	chords []model.Chord
}

func progressionOf(durations ...float64) *sliceSource {
	s := &sliceSource{}
	for _, d := range durations {
		s.chords = append(s.chords, model.NewChord("C", "", d))
	}
	return s
}

func (s *sliceSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chords)
}

func (s *sliceSource) At(i int) (model.Chord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.chords) {
		return model.Chord{}, false
	}
	return s.chords[i], true
}

func (s *sliceSource) append(c model.Chord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chords = append(s.chords, c)
}

type recorder struct {
	mu     sync.Mutex
	items  []Item
	starts []float64
	stops  int
}

func (r *recorder) play(ctx context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

func (r *recorder) onStart(beat float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, beat)
}

func (r *recorder) onStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

func (r *recorder) indices() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []int
	for _, it := range r.items {
		res = append(res, it.Index)
	}
	return res
}

func (r *recorder) stopCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

type click struct {
	beat       int
	perMeasure int
	at         time.Time
}

type fakeMetronome struct {
	clicks []click
}

func (m *fakeMetronome) Click(beatIndex int, beatsPerMeasure int, at time.Time) {
	m.clicks = append(m.clicks, click{beatIndex, beatsPerMeasure, at})
}

func newScheduler(src Source, rec *recorder, play PlayFunc, metronome Clicker) *Scheduler {
	if play == nil {
		play = rec.play
	}
	s := NewScheduler(src, tempo.New(120), play, metronome)
	s.OnStart = rec.onStart
	s.OnStop = rec.onStop
	return s
}

func TestPlaysInOrderWithStartBeats(t *testing.T) {
	rec := &recorder{}
	s := newScheduler(progressionOf(2, 1, 3), rec, nil, nil)

	s.Play(context.Background(), Options{})

	assert.Equal(t, []int{0, 1, 2}, rec.indices())
	var beats []float64
	for _, it := range rec.items {
		beats = append(beats, it.StartBeat)
	}
	assert.Equal(t, []float64{0, 2, 3}, beats)
	assert.Equal(t, []float64{0}, rec.starts)
	assert.Equal(t, 1, rec.stops)
	assert.False(t, s.IsPlaying())
	assert.Equal(t, -1, s.CurrentIndex())
}

func TestPlayFromIndexAndOffset(t *testing.T) {
	rec := &recorder{}
	s := newScheduler(progressionOf(2, 1, 3), rec, nil, nil)

	s.Play(context.Background(), Options{StartIndex: 1, StartOffsetBeats: 0.5})

	require.Len(t, rec.items, 2)
	assert.Equal(t, 1, rec.items[0].Index)
	assert.Equal(t, 0.5, rec.items[0].StartOffsetBeats)
	assert.Equal(t, 2.0, rec.items[0].StartBeat)
	assert.Equal(t, 0.0, rec.items[1].StartOffsetBeats)
	assert.Equal(t, 3.0, rec.items[1].StartBeat)
	assert.Equal(t, []float64{2.5}, rec.starts)
}

func TestSkipsChordsWithoutDuration(t *testing.T) {
	rec := &recorder{}
	s := newScheduler(progressionOf(0, 2, -1, 1), rec, nil, nil)

	s.Play(context.Background(), Options{})

	assert.Equal(t, []int{1, 3}, rec.indices())
	assert.Equal(t, 2.0, rec.items[1].StartBeat)
}

func TestMetronomeClicks(t *testing.T) {
	rec := &recorder{}
	m := &fakeMetronome{}
	s := newScheduler(progressionOf(2, 1), rec, nil, m)
	s.SetBeatsPerMeasure(3)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Play(context.Background(), Options{})

	require.Len(t, m.clicks, 3)
	assert.Equal(t, click{0, 3, now}, m.clicks[0])
	assert.Equal(t, click{1, 3, now.Add(500 * time.Millisecond)}, m.clicks[1])
	assert.Equal(t, click{2, 3, now}, m.clicks[2])
}

func TestMetronomeClicksFromOffset(t *testing.T) {
	rec := &recorder{}
	m := &fakeMetronome{}
	s := newScheduler(progressionOf(2), rec, nil, m)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Play(context.Background(), Options{StartOffsetBeats: 0.5})

	require.Len(t, m.clicks, 2)
	assert.Equal(t, 0, m.clicks[0].beat)
	assert.Equal(t, now.Add(-250*time.Millisecond), m.clicks[0].at)
	assert.Equal(t, 1, m.clicks[1].beat)
	assert.Equal(t, now.Add(250*time.Millisecond), m.clicks[1].at)
}

func TestMetronomeCanBeDisabled(t *testing.T) {
	rec := &recorder{}
	m := &fakeMetronome{}
	s := newScheduler(progressionOf(2, 2), rec, nil, m)
	s.SetMetronome(false)

	s.Play(context.Background(), Options{})

	assert.Empty(t, m.clicks)
	assert.Len(t, rec.items, 2)
}

func TestStopDuringFirstChord(t *testing.T) {
	rec := &recorder{}
	started := make(chan struct{})
	stopped := make(chan struct{})
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		if item.Index == 0 {
			close(started)
		}
		<-ctx.Done()
		return ctx.Err()
	}
	s := newScheduler(progressionOf(2, 1, 3), rec, play, nil)
	s.OnStop = func() {
		rec.onStop()
		close(stopped)
	}

	go s.Play(context.Background(), Options{})
	<-started
	assert.True(t, s.IsPlaying())
	assert.Equal(t, 0, s.CurrentIndex())

	s.Stop()
	s.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("OnStop never fired")
	}

	assert.Equal(t, []int{0}, rec.indices())
	assert.Equal(t, 1, rec.stopCount())
	assert.False(t, s.IsPlaying())
	s.Stop()
	assert.Equal(t, 1, rec.stopCount())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	rec := &recorder{}
	s := newScheduler(progressionOf(1), rec, nil, nil)
	s.Stop()
	assert.Equal(t, 0, rec.stops)
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		close(started)
		<-release
		return nil
	}
	s := newScheduler(progressionOf(1), rec, play, nil)

	go func() {
		s.Play(context.Background(), Options{})
		close(done)
	}()
	<-started
	s.Play(context.Background(), Options{})
	close(release)
	<-done

	assert.Equal(t, []float64{0}, rec.starts)
	assert.Equal(t, 1, rec.stops)
}

func TestLoopingRestartsFromTheTop(t *testing.T) {
	rec := &recorder{}
	var s *Scheduler
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		if len(rec.indices()) == 4 {
			s.Stop()
		}
		return nil
	}
	s = newScheduler(progressionOf(1, 1), rec, play, nil)
	s.SetLooping(true)

	s.Play(context.Background(), Options{StartIndex: 1})

	assert.Equal(t, []int{1, 0, 1, 0}, rec.indices())
	assert.Equal(t, 0.0, rec.items[1].StartOffsetBeats)
	assert.Equal(t, []float64{1, 0, 0}, rec.starts)
	assert.Equal(t, 1, rec.stops)
}

func TestLoopingEmptyProgressionEnds(t *testing.T) {
	rec := &recorder{}
	s := newScheduler(progressionOf(), rec, nil, nil)
	s.SetLooping(true)

	s.Play(context.Background(), Options{})

	assert.Empty(t, rec.items)
	assert.Equal(t, []float64{0}, rec.starts)
	assert.Equal(t, 1, rec.stops)
}

func TestPlayFuncErrorEndsRun(t *testing.T) {
	rec := &recorder{}
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		if item.Index == 1 {
			return errors.New("boom")
		}
		return nil
	}
	s := newScheduler(progressionOf(1, 1, 1), rec, play, nil)
	s.SetLooping(true)

	s.Play(context.Background(), Options{})

	assert.Equal(t, []int{0, 1}, rec.indices())
	assert.Equal(t, 1, rec.stops)
	assert.False(t, s.IsPlaying())
}

func TestPlayFuncPanicEndsRun(t *testing.T) {
	rec := &recorder{}
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		panic("voice exploded")
	}
	s := newScheduler(progressionOf(1, 1), rec, play, nil)

	assert.NotPanics(t, func() { s.Play(context.Background(), Options{}) })
	assert.Equal(t, []int{0}, rec.indices())
	assert.Equal(t, 1, rec.stops)
}

func TestParentContextCancels(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	play := func(c context.Context, item Item) error {
		rec.play(c, item)
		cancel()
		return nil
	}
	s := newScheduler(progressionOf(1, 1), rec, play, nil)

	s.Play(ctx, Options{})

	assert.Equal(t, []int{0}, rec.indices())
	assert.Equal(t, 1, rec.stops)
}

func TestSeesChordsAppendedDuringRun(t *testing.T) {
	rec := &recorder{}
	src := progressionOf(1)
	play := func(ctx context.Context, item Item) error {
		rec.play(ctx, item)
		if item.Index == 0 {
			src.append(model.NewChord("F", "", 1))
		}
		return nil
	}
	s := newScheduler(src, rec, play, nil)

	s.Play(context.Background(), Options{})

	require.Equal(t, []int{0, 1}, rec.indices())
	assert.Equal(t, "F", rec.items[1].Chord.Root)
}

func TestOnIndexReportsProgress(t *testing.T) {
	rec := &recorder{}
	var seen []int
	s := newScheduler(progressionOf(1, 0, 1), rec, nil, nil)
	s.OnIndex = func(i int) { seen = append(seen, i) }

	s.Play(context.Background(), Options{})

	assert.Equal(t, []int{0, 2, -1}, seen)
}
