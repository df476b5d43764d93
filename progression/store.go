package progression

import (
	"fmt"
	"sync"

	"github.com/jsphweid/chordloop/model"
	"github.com/jsphweid/chordloop/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var log = logrus.WithField("component", "progression")

// Store is the ordered chord sequence. Insertion order is playback order.
type Store struct {
	mu     sync.RWMutex
	chords model.Progression
}

func New(chords ...model.Chord) *Store {
	return &Store{chords: slices.Clone(chords)}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chords)
}

func (s *Store) At(i int) (model.Chord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.chords) {
		return model.Chord{}, false
	}
	return s.chords[i], true
}

// Chords returns a copy of the whole sequence.
func (s *Store) Chords() model.Progression {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chords)
}

func (s *Store) Append(c model.Chord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chords = append(s.chords, c)
	log.WithField("chord", c.Root+c.Quality).Debug("appended")
	return len(s.chords) - 1
}

func (s *Store) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.chords) {
		return fmt.Errorf("no chord at index %d", i)
	}
	s.chords = slices.Delete(s.chords, i, i+1)
	return nil
}

func (s *Store) SetInversion(i int, inversion int) error {
	if inversion < 0 {
		return fmt.Errorf("inversion must be >= 0, got %d", inversion)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.chords) {
		return fmt.Errorf("no chord at index %d", i)
	}
	s.chords[i].Inversion = inversion
	// recorded notes no longer describe the voicing
	s.chords[i].Notes = nil
	return nil
}

func (s *Store) Replace(chords model.Progression) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chords = slices.Clone(chords)
}

func (s *Store) Clear() {
	s.Replace(nil)
}

func (s *Store) Save(path string) error {
	if err := util.CreateBinary(path, s.Chords()); err != nil {
		return errors.Wrap(err, "could not save progression")
	}
	return nil
}

// Load replaces the contents with the progression saved at path.
func (s *Store) Load(path string) error {
	chords, err := util.ReadBinary[model.Progression](path)
	if err != nil {
		return errors.Wrap(err, "could not load progression")
	}
	s.Replace(chords)
	log.WithField("path", path).WithField("chords", len(chords)).Info("loaded progression")
	return nil
}
