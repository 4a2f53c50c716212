// Package store persists per-user library collections and sessions in
// an embedded Badger database.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/eflixapp/eflix-server/internal/logger"
)

// Store wraps a Badger database holding JSON documents.
type Store struct {
	db     *badger.DB
	logger *logger.Logger
}

// New opens the database at path, creating it on first run.
func New(path string, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	// Library writes are rare and small; sync every write so a crash
	// never loses a saved video or session.
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db at %s: %w", path, err)
	}

	if log != nil {
		log.Info("Document store opened", "path", path)
	}

	return &Store{db: db, logger: log}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing document store")
	}
	return s.db.Close()
}

// Ping verifies the database is readable. A missing probe key is fine;
// only a failing read reports unhealthy.
func (s *Store) Ping() error {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("ping"))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
