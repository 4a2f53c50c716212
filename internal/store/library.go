package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/errors"
)

// Sentinel errors for library operations.
var (
	ErrEntryNotFound     = errors.ErrNotFound.WithMessage("library entry not found")
	ErrUnknownCollection = errors.ErrValidation.WithMessage("unknown library collection")
)

// UpsertMyListEntry stores a video on the user's list, keyed by the
// video identity. Repeat adds overwrite the stored record.
func (s *Store) UpsertMyListEntry(ctx context.Context, uid string, video domain.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}

	key := libraryKey(domain.CollectionMyList, uid, video.Identity())
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// ListMyList retrieves all my-list entries for a user. Order is not
// guaranteed.
func (s *Store) ListMyList(ctx context.Context, uid string) ([]domain.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := libraryPrefix(domain.CollectionMyList, uid)
	videos := make([]domain.Video, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var video domain.Video
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &video)
			})
			if err != nil {
				return err
			}
			videos = append(videos, video)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return videos, nil
}

// UpsertHistoryEntry stores a viewing-history entry keyed by the video
// identity. Replays overwrite the entry, refreshing the timestamp.
func (s *Store) UpsertHistoryEntry(ctx context.Context, uid string, entry domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := libraryKey(domain.CollectionHistory, uid, entry.Identity())
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// ListHistory retrieves all history entries for a user, most recently
// viewed first. Zero timestamps sort oldest.
func (s *Store) ListHistory(ctx context.Context, uid string) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := libraryPrefix(domain.CollectionHistory, uid)
	entries := make([]domain.HistoryEntry, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry domain.HistoryEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b domain.HistoryEntry) int {
		return b.ViewedAt.Compare(a.ViewedAt)
	})

	return entries, nil
}

// DeleteEntry removes a single entry from one of the user's
// collections. Deleting an absent entry returns ErrEntryNotFound so
// callers can settle bulk deletions per item.
func (s *Store) DeleteEntry(ctx context.Context, uid, collection, videoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !domain.ValidCollection(collection) {
		return ErrUnknownCollection
	}

	key := libraryKey(collection, uid, videoID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check entry exists: %w", err)
	}
	if !exists {
		return ErrEntryNotFound
	}

	return s.delete(key)
}
