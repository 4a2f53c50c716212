package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/eflixapp/eflix-server/internal/errors"
)

func TestMyList_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Post("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"id": "v1", "title": "Intro to Transformers", "category": "LLM"},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Save failed: %s", resp.Body.String())

	resp = ts.api.Get("/api/v1/library/mylist", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MyListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Videos, 1)
	assert.Equal(t, "v1", envelope.Data.Videos[0].ID)
	assert.Equal(t, "Intro to Transformers", envelope.Data.Videos[0].Title)
}

func TestMyList_SaveTwiceKeepsOneEntry(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	for range 2 {
		resp := ts.api.Post("/api/v1/library/mylist",
			"Authorization: Bearer "+token,
			map[string]any{"id": "v1", "title": "Intro to Transformers"},
		)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/library/mylist", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MyListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Len(t, envelope.Data.Videos, 1)
}

func TestMyList_SaveWithoutIdentityRejected(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Post("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Orphan Record"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Equal(t, string(domainerrors.CodeValidation), envelope.Code)
}

func TestMyList_DriveLinkOnlyIdentity(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Post("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Legacy Record", "driveLink": "https://drive.google.com/file/d/abc123/view"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/library/mylist", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MyListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.Len(t, envelope.Data.Videos, 1)
	assert.Equal(t, "Legacy Record", envelope.Data.Videos[0].Title)
}

func TestHistory_RecordsMostRecentFirst(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Post("/api/v1/library/history",
		"Authorization: Bearer "+token,
		map[string]any{"id": "v1", "title": "Intro to Transformers"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	time.Sleep(5 * time.Millisecond)

	resp = ts.api.Post("/api/v1/library/history",
		"Authorization: Bearer "+token,
		map[string]any{"id": "v2", "title": "Gradient Boosting"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/library/history", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HistoryResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Entries, 2)
	assert.Equal(t, "v2", envelope.Data.Entries[0].ID)
	assert.Equal(t, "v1", envelope.Data.Entries[1].ID)
	assert.False(t, envelope.Data.Entries[0].ViewedAt.IsZero())
}

func TestHistory_ReplayRefreshesTimestamp(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	for _, id := range []string{"v1", "v2", "v1"} {
		resp := ts.api.Post("/api/v1/library/history",
			"Authorization: Bearer "+token,
			map[string]any{"id": id, "title": "Video " + id},
		)
		require.Equal(t, http.StatusOK, resp.Code)
		time.Sleep(5 * time.Millisecond)
	}

	resp := ts.api.Get("/api/v1/library/history", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HistoryResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	// The replay moved v1 back to the top without duplicating it.
	require.Len(t, envelope.Data.Entries, 2)
	assert.Equal(t, "v1", envelope.Data.Entries[0].ID)
	assert.Equal(t, "v2", envelope.Data.Entries[1].ID)
}

func TestDeleteEntries_SettlesPerItem(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	for _, id := range []string{"v1", "v2"} {
		resp := ts.api.Post("/api/v1/library/mylist",
			"Authorization: Bearer "+token,
			map[string]any{"id": id, "title": "Video " + id},
		)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Delete("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"ids": []string{"v1", "ghost"}},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Delete failed: %s", resp.Body.String())

	var envelope testEnvelope[DeleteEntriesResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1"}, envelope.Data.Deleted)
	assert.Equal(t, []string{"ghost"}, envelope.Data.Failed)

	// The failed id left nothing behind; v2 survives.
	resp = ts.api.Get("/api/v1/library/mylist", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[MyListResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &list)
	require.NoError(t, err)
	require.Len(t, list.Data.Videos, 1)
	assert.Equal(t, "v2", list.Data.Videos[0].ID)
}

func TestDeleteEntries_UnknownCollection(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Delete("/api/v1/library/watchlater",
		"Authorization: Bearer "+token,
		map[string]any{"ids": []string{"v1"}},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteEntries_EmptyBatchRejected(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Delete("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"ids": []string{}},
	)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestLibrary_IsolatedPerUser(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signIn(t)

	resp := ts.api.Post("/api/v1/library/mylist",
		"Authorization: Bearer "+token,
		map[string]any{"id": "v1", "title": "Intro to Transformers"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	// A second session for the same identity still sees the list; the
	// store keys on the identity-provider subject, not the session.
	other := ts.signIn(t)
	resp = ts.api.Get("/api/v1/library/mylist", "Authorization: Bearer "+other)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[MyListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.Len(t, envelope.Data.Videos, 1)
}

func TestLibrary_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/library/mylist")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/library/history", map[string]any{"id": "v1", "title": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
