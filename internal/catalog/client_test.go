package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.New(logger.Config{Level: 10}) // quiet
	return NewClient(srv.URL, 5*time.Second, log)
}

func TestClientFetch(t *testing.T) {
	t.Run("parses a listing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"v1","title":"Intro to Transformers","category":"LLM","driveLink":"https://drive.google.com/file/d/a/view"},
				{"title":"Feature Stores","category":"DataPlatform","driveLink":"https://drive.google.com/file/d/b/view"}
			]`))
		})

		videos, err := client.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "v1", videos[0].ID)
		assert.Equal(t, "DataPlatform", videos[1].Category)
	})

	t.Run("error payload maps to unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"sheet quota exceeded"}`))
		})

		_, err := client.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
		assert.Contains(t, err.Error(), "sheet quota exceeded")
	})

	t.Run("non-2xx maps to unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
	})

	t.Run("malformed body maps to unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})

		_, err := client.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
	})

	t.Run("unreachable endpoint maps to unavailable", func(t *testing.T) {
		log := logger.New(logger.Config{})
		client := NewClient("http://127.0.0.1:1", time.Second, log)

		_, err := client.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
	})

	t.Run("empty array is a valid empty catalog", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		videos, err := client.Fetch(context.Background())
		require.NoError(t, err)
		assert.Empty(t, videos)
	})
}
