package service

import (
	"context"
	"sync"
	"time"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/logger"
	"github.com/eflixapp/eflix-server/internal/store"
)

// LibraryService mediates between callers and the per-user library
// collections. Every operation treats a nil session as "logged out"
// and degrades to a no-op with empty results, so callers never branch
// on authentication state.
type LibraryService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(st *store.Store, log *logger.Logger) *LibraryService {
	return &LibraryService{
		store:  st,
		logger: log,
	}
}

// AddToMyList saves a video on the user's list. Adding the same video
// twice overwrites the stored record.
func (s *LibraryService) AddToMyList(ctx context.Context, session *domain.Session, video domain.Video) error {
	if session == nil {
		return nil
	}
	return s.store.UpsertMyListEntry(ctx, session.UID, video)
}

// FetchMyList returns the user's saved videos.
func (s *LibraryService) FetchMyList(ctx context.Context, session *domain.Session) ([]domain.Video, error) {
	if session == nil {
		return []domain.Video{}, nil
	}
	return s.store.ListMyList(ctx, session.UID)
}

// AddToHistory records a play event, stamping the entry with the
// current time. Replaying a video refreshes its timestamp.
func (s *LibraryService) AddToHistory(ctx context.Context, session *domain.Session, video domain.Video) error {
	if session == nil {
		return nil
	}
	entry := domain.HistoryEntry{
		Video:    video,
		ViewedAt: time.Now(),
	}
	return s.store.UpsertHistoryEntry(ctx, session.UID, entry)
}

// FetchHistory returns the user's viewing history, most recent first.
func (s *LibraryService) FetchHistory(ctx context.Context, session *domain.Session) ([]domain.HistoryEntry, error) {
	if session == nil {
		return []domain.HistoryEntry{}, nil
	}
	return s.store.ListHistory(ctx, session.UID)
}

// DeleteResult reports how a bulk deletion settled per item.
type DeleteResult struct {
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// DeleteEntries removes a set of entries from one collection. Each id
// is deleted independently; the batch joins before returning and
// reports which ids were removed and which were not. A failed delete
// leaves its entry intact.
func (s *LibraryService) DeleteEntries(ctx context.Context, session *domain.Session, collection string, ids []string) (*DeleteResult, error) {
	if session == nil {
		return &DeleteResult{Deleted: []string{}, Failed: []string{}}, nil
	}
	if !domain.ValidCollection(collection) {
		return nil, errors.Validationf("unknown collection %q", collection)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		deleted = make([]string, 0, len(ids))
		failed  = make([]string, 0)
	)

	for _, videoID := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.DeleteEntry(ctx, session.UID, collection, videoID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("delete entry failed",
					"uid", session.UID,
					"collection", collection,
					"video_id", videoID,
					"error", err,
				)
				failed = append(failed, videoID)
				return
			}
			deleted = append(deleted, videoID)
		}()
	}
	wg.Wait()

	return &DeleteResult{Deleted: deleted, Failed: failed}, nil
}
