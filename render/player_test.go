package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/playback"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type output struct {
	mu   sync.Mutex
	sent []gomidi.Message
	err  error
}

func (o *output) send(msg gomidi.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return o.err
}

func (o *output) messages() []gomidi.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]gomidi.Message(nil), o.sent...)
}

func item(root, quality string, duration float64) playback.Item {
	return playback.Item{Chord: model.NewChord(root, quality, duration)}
}

func TestPlaySoundsAndReleasesChord(t *testing.T) {
	out := &output{}
	p := NewPlayer(out.send, tempo.New(300))

	start := time.Now()
	require.NoError(t, p.Play(context.Background(), item("C", "", 0.1)))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOn(0, 48, DefaultVelocity),
		gomidi.NoteOn(0, 52, DefaultVelocity),
		gomidi.NoteOn(0, 55, DefaultVelocity),
		gomidi.NoteOff(0, 48),
		gomidi.NoteOff(0, 52),
		gomidi.NoteOff(0, 55),
	}, out.messages())
}

func TestPlayUsesRecordedNotes(t *testing.T) {
	out := &output{}
	p := NewPlayer(out.send, tempo.New(300))
	it := item("C", "", 0.05)
	it.Chord.Notes = model.Notes{"E4", "C5"}

	require.NoError(t, p.Play(context.Background(), it))
	assert.Equal(t, gomidi.NoteOn(0, 64, DefaultVelocity), out.messages()[0])
	assert.Len(t, out.messages(), 4)
}

func TestPlayLeadsVoicesFromPreviousChord(t *testing.T) {
	out := &output{}
	p := NewPlayer(out.send, tempo.New(300))
	p.SetChannel(2)

	require.NoError(t, p.Play(context.Background(), item("C", "", 0.05)))
	require.NoError(t, p.Play(context.Background(), item("F", "", 0.05)))

	// F3 is closer to C3 than F2
	assert.Equal(t, gomidi.NoteOn(2, 53, DefaultVelocity), out.messages()[6])
}

func TestPlayCancelled(t *testing.T) {
	out := &output{}
	p := NewPlayer(out.send, tempo.New(40))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- p.Play(ctx, item("A", "m", 8)) }()
	assert.Eventually(t, func() bool { return len(out.messages()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Play did not return after cancel")
	}
	assert.Len(t, out.messages(), 6)
}

func TestPlayFromOffsetWaitsRemainder(t *testing.T) {
	p := NewPlayer(nil, tempo.New(60))
	it := item("C", "", 1.02)
	it.StartOffsetBeats = 1

	start := time.Now()
	require.NoError(t, p.Play(context.Background(), it))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestReleaseAll(t *testing.T) {
	out := &output{}
	p := NewPlayer(out.send, tempo.New(40))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go p.Play(ctx, item("C", "", 8))
	assert.Eventually(t, func() bool { return len(out.messages()) == 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.ReleaseAll())
	msgs := out.messages()
	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOff(0, 48),
		gomidi.NoteOff(0, 52),
		gomidi.NoteOff(0, 55),
	}, msgs[3:6])
}

func TestSendError(t *testing.T) {
	out := &output{err: errors.New("port closed")}
	p := NewPlayer(out.send, tempo.New(300))
	err := p.Play(context.Background(), item("C", "", 0.05))
	assert.ErrorContains(t, err, "port closed")
}
