// Package todos implements the todo operations on top of a Store: every
// call loads the whole collection, applies one lookup or mutation and,
// for mutations, saves the whole collection back.
package todos

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

// Store loads and saves the whole collection. Nothing is cached between
// calls: every Load reads the backing storage again.
type Store interface {
	Load() ([]model.Todo, error)
	Save(items []model.Todo) error
}

// Service runs the five todo operations.
type Service struct {
	store     Store
	logger    *log.Logger
	serialize bool
	mu        sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSerializedWrites runs each load-mutate-save under one lock so
// concurrent mutations can't overwrite each other.
func WithSerializedWrites(on bool) Option {
	return func(s *Service) { s.serialize = on }
}

// NewService returns a service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: logging.Discard()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) lock() func() {
	if !s.serialize {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Create appends a new todo. The id must not already be in use.
func (s *Service) Create(req CreateRequest) (model.Todo, error) {
	if err := req.Validate(); err != nil {
		return model.Todo{}, err
	}
	defer s.lock()()

	items, err := s.store.Load()
	if err != nil {
		return model.Todo{}, unexpected(MsgCreateUnexpected, err)
	}
	if model.IndexByID(items, req.ID) >= 0 {
		return model.Todo{}, newError(ErrDuplicate, MsgDuplicate)
	}

	todo := model.New(req.ID, req.Todo)
	items = append(items, todo)
	if err := s.store.Save(items); err != nil {
		return model.Todo{}, unexpected(MsgCreateUnexpected, err)
	}
	s.logger.Debug("todo created", "id", todo.ID)
	return todo, nil
}

// List returns the collection as stored.
func (s *Service) List() ([]model.Todo, error) {
	items, err := s.store.Load()
	if err != nil {
		return nil, unexpected(MsgUnexpected, err)
	}
	return items, nil
}

// Get returns the first todo matching key.
func (s *Service) Get(key Key) (model.Todo, error) {
	items, err := s.store.Load()
	if err != nil {
		return model.Todo{}, unexpected(MsgUnexpected, err)
	}
	idx := find(items, key)
	if idx < 0 {
		return model.Todo{}, newError(ErrNotFound, MsgNotFound)
	}
	return items[idx], nil
}

// Update replaces the text of the first todo matching key. The id and any
// other stored field are left untouched.
func (s *Service) Update(key Key, req UpdateRequest) (model.Todo, error) {
	if err := req.Validate(); err != nil {
		return model.Todo{}, err
	}
	defer s.lock()()

	items, err := s.store.Load()
	if err != nil {
		return model.Todo{}, unexpected(MsgUnexpected, err)
	}
	idx := find(items, key)
	if idx < 0 {
		return model.Todo{}, newError(ErrNotFound, MsgNotFound)
	}

	if err := items[idx].SetText(req.Todo); err != nil {
		return model.Todo{}, unexpected(MsgUnexpected, err)
	}
	if err := s.store.Save(items); err != nil {
		return model.Todo{}, unexpected(MsgUnexpected, err)
	}
	s.logger.Debug("todo updated", "id", items[idx].ID)
	return items[idx], nil
}

// Delete removes the first todo matching key.
func (s *Service) Delete(key Key) error {
	defer s.lock()()

	items, err := s.store.Load()
	if err != nil {
		return unexpected(MsgUnexpected, err)
	}
	idx := find(items, key)
	if idx < 0 {
		return newError(ErrNotFound, MsgNotFound)
	}

	items = model.Remove(items, idx)
	if err := s.store.Save(items); err != nil {
		return unexpected(MsgUnexpected, err)
	}
	s.logger.Debug("todo deleted", "key", key)
	return nil
}

func find(items []model.Todo, key Key) int {
	id, ok := key.ID()
	if !ok {
		return -1
	}
	return model.IndexByID(items, id)
}
