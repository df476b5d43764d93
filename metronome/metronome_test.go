package metronome

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type scheduled struct {
	delays []time.Duration
	sent   []gomidi.Message
}

func newTestMetronome(now time.Time) (*Metronome, *scheduled) {
	s := &scheduled{}
	m := New(func(msg gomidi.Message) error {
		s.sent = append(s.sent, msg)
		return nil
	})
	m.now = func() time.Time { return now }
	m.afterFunc = func(d time.Duration, f func()) {
		s.delays = append(s.delays, d)
		f()
	}
	return m, s
}

func TestAccents(t *testing.T) {
	m := New(nil)
	var notes []uint8
	for beat := 0; beat < 8; beat++ {
		notes = append(notes, m.Note(beat, 4))
	}
	assert.Equal(t, []uint8{76, 77, 77, 77, 76, 77, 77, 77}, notes)
	assert.Equal(t, uint8(76), m.Note(3, 3))
	assert.Equal(t, uint8(77), m.Note(0, 0))
}

func TestClickIsScheduled(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, s := newTestMetronome(now)

	m.Click(4, 4, now.Add(250*time.Millisecond))

	assert.Equal(t, []time.Duration{250 * time.Millisecond, clickLength}, s.delays)
	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOn(DefaultChannel, DefaultStrong, 110),
		gomidi.NoteOff(DefaultChannel, DefaultStrong),
	}, s.sent)
}

func TestPastClickSoundsNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, s := newTestMetronome(now)
	m.SetNotes(60, 61)

	m.Click(1, 4, now.Add(-time.Second))

	require.NotEmpty(t, s.delays)
	assert.Equal(t, time.Duration(0), s.delays[0])
	assert.Equal(t, gomidi.NoteOn(DefaultChannel, 61, 110), s.sent[0])
}

func TestClickWithoutOutputIsDropped(t *testing.T) {
	m := New(nil)
	called := false
	m.afterFunc = func(time.Duration, func()) { called = true }
	assert.NotPanics(t, func() { m.Click(0, 4, time.Now()) })
	assert.False(t, called)
}

func TestSendFailuresDoNotPanic(t *testing.T) {
	m := New(func(gomidi.Message) error { return errors.New("gone") })
	m.afterFunc = func(d time.Duration, f func()) { f() }
	assert.NotPanics(t, func() { m.Click(0, 4, time.Now()) })

	m = New(func(gomidi.Message) error { panic("driver crashed") })
	m.afterFunc = func(d time.Duration, f func()) { f() }
	assert.NotPanics(t, func() { m.Click(0, 4, time.Now()) })
}

func TestRealTimerFires(t *testing.T) {
	sent := make(chan gomidi.Message, 2)
	m := New(func(msg gomidi.Message) error {
		sent <- msg
		return nil
	})
	m.Click(0, 4, time.Now().Add(10*time.Millisecond))

	select {
	case msg := <-sent:
		assert.Equal(t, gomidi.NoteOn(DefaultChannel, DefaultStrong, 110), msg)
	case <-time.After(time.Second):
		t.Fatal("click never sent")
	}
}
