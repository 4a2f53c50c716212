package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), logger.New(logger.Config{}))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestMyListUpsertAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := domain.Video{
		ID:        "v1",
		Title:     "Intro to Transformers",
		Category:  "LLM",
		DriveLink: "https://drive.google.com/file/d/a/view",
	}

	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", video))

	list, err := s.ListMyList(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Intro to Transformers", list[0].Title)
}

func TestMyListUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := domain.Video{ID: "v1", Title: "Intro to Transformers"}

	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", video))
	video.Summary = "updated"
	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", video))

	list, err := s.ListMyList(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "updated", list[0].Summary)
}

func TestMyListEmptyForNewUser(t *testing.T) {
	s := newTestStore(t)

	list, err := s.ListMyList(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistorySortedByViewedAtDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	entries := []domain.HistoryEntry{
		{Video: domain.Video{ID: "old"}, ViewedAt: now.Add(-2 * time.Hour)},
		{Video: domain.Video{ID: "newest"}, ViewedAt: now},
		{Video: domain.Video{ID: "middle"}, ViewedAt: now.Add(-time.Hour)},
		{Video: domain.Video{ID: "zero"}},
	}
	for _, e := range entries {
		require.NoError(t, s.UpsertHistoryEntry(ctx, "user-1", e))
	}

	history, err := s.ListHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "newest", history[0].ID)
	assert.Equal(t, "middle", history[1].ID)
	assert.Equal(t, "old", history[2].ID)
	assert.Equal(t, "zero", history[3].ID)
}

func TestHistoryReplayOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	entry := domain.HistoryEntry{Video: domain.Video{ID: "v1"}, ViewedAt: now.Add(-time.Hour)}
	require.NoError(t, s.UpsertHistoryEntry(ctx, "user-1", entry))

	entry.ViewedAt = now
	require.NoError(t, s.UpsertHistoryEntry(ctx, "user-1", entry))

	history, err := s.ListHistory(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.WithinDuration(t, now, history[0].ViewedAt, time.Second)
}

func TestIdentityFallbackKeysDistinctEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := domain.Video{DriveLink: "https://drive.google.com/file/d/one/view"}
	b := domain.Video{DriveLink: "https://drive.google.com/file/d/two/view"}

	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", a))
	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", b))

	list, err := s.ListMyList(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := domain.Video{ID: "v1"}
	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", video))

	require.NoError(t, s.DeleteEntry(ctx, "user-1", domain.CollectionMyList, "v1"))

	list, err := s.ListMyList(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteAbsentEntry(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteEntry(context.Background(), "user-1", domain.CollectionMyList, "ghost")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestDeleteUnknownCollection(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteEntry(context.Background(), "user-1", "favorites", "v1")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCollectionsIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := domain.Video{ID: "shared"}
	require.NoError(t, s.UpsertMyListEntry(ctx, "alice", video))
	require.NoError(t, s.UpsertMyListEntry(ctx, "bob", video))

	require.NoError(t, s.DeleteEntry(ctx, "alice", domain.CollectionMyList, "shared"))

	aliceList, err := s.ListMyList(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceList)

	bobList, err := s.ListMyList(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobList, 1)
}

func TestCollectionsIsolatedFromEachOther(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := domain.Video{ID: "v1"}
	require.NoError(t, s.UpsertMyListEntry(ctx, "user-1", video))
	require.NoError(t, s.UpsertHistoryEntry(ctx, "user-1", domain.HistoryEntry{Video: video, ViewedAt: time.Now()}))

	require.NoError(t, s.DeleteEntry(ctx, "user-1", domain.CollectionHistory, "v1"))

	list, err := s.ListMyList(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContextCancellation(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.UpsertMyListEntry(ctx, "user-1", domain.Video{ID: "v1"}))
	_, err := s.ListHistory(ctx, "user-1")
	assert.Error(t, err)
}
