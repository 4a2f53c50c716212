package service

import (
	"context"

	"github.com/eflixapp/eflix-server/internal/catalog"
	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/logger"
	"github.com/eflixapp/eflix-server/internal/thumbnail"
)

// CatalogFetcher retrieves the full catalog listing from upstream.
type CatalogFetcher interface {
	Fetch(ctx context.Context) ([]domain.Video, error)
}

// CatalogService proxies the external catalog endpoint and applies the
// category filter. Upstream failures surface as UNAVAILABLE coded
// errors for the caller to present; there is no automatic retry.
type CatalogService struct {
	client CatalogFetcher
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(client CatalogFetcher, log *logger.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: log,
	}
}

// Browse fetches the catalog and returns the videos matching the
// category, each with its thumbnail resolved. An empty category means
// "all".
func (s *CatalogService) Browse(ctx context.Context, category string) ([]domain.Video, error) {
	if category == "" {
		category = domain.CategoryAll
	}

	videos, err := s.client.Fetch(ctx)
	if err != nil {
		s.logger.Warn("catalog fetch failed", "error", err)
		return nil, err
	}

	filtered := catalog.Filter(videos, category)

	// Resolve thumbnails on a copy so the filter result stays shared-safe.
	out := make([]domain.Video, len(filtered))
	copy(out, filtered)
	for i := range out {
		out[i].Thumbnail = thumbnail.Resolve(out[i])
	}

	return out, nil
}

// Categories returns the fixed category set, with the "all" sentinel
// first.
func (s *CatalogService) Categories() []string {
	out := make([]string, 0, len(domain.Categories)+1)
	out = append(out, domain.CategoryAll)
	out = append(out, domain.Categories...)
	return out
}
