package tempo

import (
	"sync"
	"time"

	"github.com/jsphweid/chordloop/util"
)

const (
	MinBPM     = 40
	MaxBPM     = 300
	DefaultBPM = 85
)

// Tempo holds a bpm value clamped to [MinBPM, MaxBPM]. Durations are derived
// on every call so a change mid-playback applies to the next read.
type Tempo struct {
	mu  sync.RWMutex
	bpm float64
}

func New(bpm float64) *Tempo {
	t := &Tempo{}
	t.SetBPM(bpm)
	return t
}

// SetBPM stores bpm, silently clamped to the valid range.
func (t *Tempo) SetBPM(bpm float64) {
	if bpm != bpm {
		bpm = DefaultBPM
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bpm = util.Clamp(bpm, MinBPM, MaxBPM)
}

func (t *Tempo) BPM() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bpm
}

func (t *Tempo) BeatDurationMs() float64 {
	return 60000 / t.BPM()
}

func (t *Tempo) BeatDuration() time.Duration {
	return time.Duration(t.BeatDurationMs() * float64(time.Millisecond))
}

// Beats converts a number of beats into wall-clock time at the current tempo.
func (t *Tempo) Beats(n float64) time.Duration {
	return time.Duration(n * t.BeatDurationMs() * float64(time.Millisecond))
}
