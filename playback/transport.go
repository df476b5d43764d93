package playback

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jsphweid/chordloop/constants"
)

// Transport remembers where the next play should start. Seeking is only
// honoured while stopped, and stopping rewinds to the beginning.
type Transport struct {
	*Scheduler

	mu       sync.Mutex
	seekBeat float64
}

func NewTransport(s *Scheduler) *Transport {
	return &Transport{Scheduler: s}
}

// Seek sets the beat the next Play starts from. It returns false while
// playing, in which case nothing changes.
func (t *Transport) Seek(beat float64) bool {
	if t.IsPlaying() {
		return false
	}
	if beat < 0 {
		beat = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seekBeat = beat
	return true
}

func (t *Transport) SeekBeat() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seekBeat
}

// Play starts from the seek position. Like Scheduler.Play it blocks for the
// whole run.
func (t *Transport) Play(ctx context.Context) {
	if t.IsPlaying() {
		return
	}
	t.Scheduler.Play(ctx, Locate(t.source, t.SeekBeat()))
}

func (t *Transport) Stop() {
	t.Scheduler.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seekBeat = 0
}

func (t *Transport) TotalBeats() float64 {
	return TotalBeats(t.source, t.BeatsPerMeasure(), constants.TimelineMarginBeats)
}

// SetTimeSignature takes a signature like "3/4" and applies its numerator as
// the beats per measure.
func (t *Transport) SetTimeSignature(sig string) error {
	n, err := ParseTimeSignature(sig)
	if err != nil {
		return err
	}
	t.SetBeatsPerMeasure(n)
	return nil
}

func ParseTimeSignature(sig string) (int, error) {
	num, _, ok := strings.Cut(strings.TrimSpace(sig), "/")
	if !ok {
		return 0, fmt.Errorf("invalid time signature %q", sig)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid time signature %q", sig)
	}
	return n, nil
}
