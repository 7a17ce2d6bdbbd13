// Package memstore keeps the todo collection in process memory.
// It backs tests and the "memory" storage driver.
package memstore

import (
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// Store hands out copies so callers can't alias the stored slice, which
// keeps it behaving like a file that is re-read on every Load.
type Store struct {
	mu      sync.Mutex
	items   []model.Todo
	saves   int
	loadErr error
	saveErr error
}

// New returns a store seeded with items.
func New(items ...model.Todo) *Store {
	return &Store{items: clone(items)}
}

func (s *Store) Load() ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return clone(s.items), nil
}

func (s *Store) Save(items []model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items = clone(items)
	s.saves++
	return nil
}

// FailLoad makes every Load return err until cleared with nil.
func (s *Store) FailLoad(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

// FailSave makes every Save return err until cleared with nil.
func (s *Store) FailSave(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
}

// Saves reports how many successful saves happened.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func clone(items []model.Todo) []model.Todo {
	out := make([]model.Todo, len(items))
	copy(out, items)
	return out
}
