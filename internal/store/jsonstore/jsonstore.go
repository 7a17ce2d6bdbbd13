package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking: concurrent load/save pairs can interleave and the last
// writer wins.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// ErrCorrupt marks storage content that is not a JSON array. Load treats it
// as an empty collection.
var ErrCorrupt = errors.New("corrupt todo file")

// FileStore keeps the collection in one JSON document.
type FileStore struct {
	path    string
	durable bool
	logger  *log.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used to report the corrupt-file fallback.
func WithLogger(l *log.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDurableWrites makes Save write a temp file and rename it over the
// target instead of truncating in place.
func WithDurableWrites(on bool) Option {
	return func(s *FileStore) { s.durable = on }
}

// New returns a store for path. A relative path resolves against the
// working directory at call time.
func New(path string, opts ...Option) *FileStore {
	if path == "" {
		path = DefaultFileName
	}
	s := &FileStore{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the resolved file location.
func (s *FileStore) Path() (string, error) {
	if filepath.IsAbs(s.path) {
		return s.path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, s.path), nil
}

// Load reads the whole collection. A missing file and a corrupt file both
// yield an empty collection; the latter is logged.
func (s *FileStore) Load() ([]model.Todo, error) {
	p, err := s.Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	items, err := Decode(b)
	if errors.Is(err, ErrCorrupt) {
		return s.corruptFallback(p, err), nil
	}
	return items, err
}

func (s *FileStore) corruptFallback(path string, err error) []model.Todo {
	s.logger.Warn("error parsing JSON from file, using empty list", "path", path, "err", err)
	return []model.Todo{}
}

// Save overwrites the file with the whole collection.
func (s *FileStore) Save(items []model.Todo) error {
	p, err := s.Path()
	if err != nil {
		return err
	}
	b, err := Encode(items)
	if err != nil {
		return err
	}
	if s.durable {
		return writeAtomic(p, b)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Decode parses a stored document. Anything that is not a JSON array
// reports ErrCorrupt.
func Decode(b []byte) ([]model.Todo, error) {
	var items []model.Todo
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if items == nil {
		// "null" parses cleanly but isn't a list.
		return nil, fmt.Errorf("%w: not a JSON array", ErrCorrupt)
	}
	return items, nil
}

// Encode renders the collection with 2-space indentation.
func Encode(items []model.Todo) ([]byte, error) {
	if items == nil {
		items = []model.Todo{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

func writeAtomic(path string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
