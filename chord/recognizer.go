package chord

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chordloop/constants"
	"github.com/jsphweid/chordloop/model"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "chord")

type Listener func(model.Chord)

// Recognizer turns a live note-on/note-off stream into recognized chords.
// Once every key is up it waits for the debounce window, then analyzes the
// last set of notes that were held together.
type Recognizer struct {
	mu         sync.Mutex
	state      tracker
	generation uint64
	debounced  func(f func())
	listener   Listener
	detected   *model.Chord
}

func NewRecognizer(window time.Duration) *Recognizer {
	if window <= 0 {
		window = constants.DebounceWindow
	}
	return &Recognizer{debounced: debounce.New(window)}
}

// OnChord registers the listener notified for every recognized chord. It is
// called from the debounce timer's goroutine.
func (r *Recognizer) OnChord(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

func (r *Recognizer) NoteOn(n model.NoteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// invalidates any armed settle
	r.generation++
	r.state.press(n)
}

func (r *Recognizer) NoteOff(n model.NoteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.release(n) {
		return
	}
	gen := r.generation
	r.debounced(func() { r.settle(gen) })
}

func (r *Recognizer) settle(gen uint64) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	c, ok := r.state.settle()
	if ok {
		r.detected = &c
	}
	listener := r.listener
	r.mu.Unlock()

	if !ok {
		log.Debug("no chord recognized")
		return
	}
	log.WithField("chord", Name(c)).Debug("chord recognized")
	if listener != nil {
		listener(c)
	}
}

// Held returns the identifiers currently down, in press order.
func (r *Recognizer) Held() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.held.identifiers()
}

// Detected returns the most recently recognized chord.
func (r *Recognizer) Detected() (model.Chord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detected == nil {
		return model.Chord{}, false
	}
	return *r.detected, true
}
