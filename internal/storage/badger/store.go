// Package badger provides the embedded BadgerHold storage backend.
package badger

import (
	"fmt"
	"os"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/avogel/papertrade/internal/common"
)

// Store wraps a BadgerHold database connection and allocates entity IDs.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger

	seqMu sync.Mutex
}

// sequence is a persisted ID counter, keyed by entity name.
type sequence struct {
	Name  string `badgerhold:"key"`
	Value int64
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// DB returns the underlying badgerhold store.
func (s *Store) DB() *badgerhold.Store {
	return s.db
}

// nextID increments and returns the persisted counter for name.
func (s *Store) nextID(name string) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	var seq sequence
	err := s.db.Get(name, &seq)
	if err != nil && err != badgerhold.ErrNotFound {
		return 0, fmt.Errorf("failed to read sequence '%s': %w", name, err)
	}

	seq.Name = name
	seq.Value++
	if err := s.db.Upsert(name, &seq); err != nil {
		return 0, fmt.Errorf("failed to advance sequence '%s': %w", name, err)
	}
	return seq.Value, nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
