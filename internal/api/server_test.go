package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eflixapp/eflix-server/internal/auth"
	"github.com/eflixapp/eflix-server/internal/config"
	"github.com/eflixapp/eflix-server/internal/domain"
	domainerrors "github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/http/response"
	"github.com/eflixapp/eflix-server/internal/identity"
	"github.com/eflixapp/eflix-server/internal/logger"
	"github.com/eflixapp/eflix-server/internal/service"
	"github.com/eflixapp/eflix-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
// Success and detailed-error envelopes share the field set.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fakeVerifier resolves two known ID tokens.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, rawIDToken string) (*identity.Identity, error) {
	switch rawIDToken {
	case "valid-token":
		return &identity.Identity{UID: "sub-1", Email: "ada@dtlabs.ai", DisplayName: "Ada"}, nil
	case "outsider-token":
		return &identity.Identity{UID: "sub-2", Email: "mallory@example.com", DisplayName: "Mallory"}, nil
	default:
		return nil, domainerrors.Unauthorized("invalid ID token")
	}
}

// stubFetcher serves a settable catalog listing.
type stubFetcher struct {
	mu     sync.Mutex
	videos []domain.Video
	err    error
}

func (f *stubFetcher) Fetch(_ context.Context) ([]domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videos, f.err
}

func (f *stubFetcher) set(videos []domain.Video, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = videos
	f.err = err
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api     humatest.TestAPI
	fetcher *stubFetcher
}

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard})
	tmpDir := t.TempDir()

	st, err := store.New(filepath.Join(tmpDir, "db"), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	fetcher := &stubFetcher{videos: sampleCatalog()}

	services := &Services{
		Session: service.NewSessionService(st, tokens, fakeVerifier{}, "dtlabs.ai", log),
		Catalog: service.NewCatalogService(fetcher, log),
		Library: service.NewLibraryService(st, log),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:        "Test Server",
			CORSOrigins: []string{"http://localhost:5173"},
		},
	}

	s := NewServer(st, services, cfg, log)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		fetcher: fetcher,
	}
}

func sampleCatalog() []domain.Video {
	return []domain.Video{
		{ID: "v1", Title: "Intro to Transformers", Category: "LLM", DriveLink: "https://drive.google.com/file/d/abc123/view"},
		{ID: "v2", Title: "Gradient Boosting", Category: "ML", Thumbnail: "https://cdn.example.com/gb.png"},
		{ID: "v3", Title: "Prompt Engineering", Category: "LLM", DriveLink: "https://drive.google.com/file/d/xyz789/view"},
	}
}

// signIn authenticates the allowed test identity and returns the access token.
func (ts *testServer) signIn(t *testing.T) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signin", map[string]any{"id_token": "valid-token"})
	require.Equal(t, http.StatusOK, resp.Code, "Sign-in failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result response.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.True(t, result.Success)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "Test Server", data["server"])

	components, ok := data["components"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, components, "database")
}

func TestUnknownRouteReturns404(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
