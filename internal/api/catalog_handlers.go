package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eflixapp/eflix-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "browseCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "Browse catalog",
		Description: "Returns the proxied catalog listing filtered by category, with thumbnails resolved",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBrowseCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/categories",
		Summary:     "List categories",
		Description: "Returns the fixed category set, with the all sentinel first",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)
}

// === DTOs ===

// BrowseCatalogInput contains parameters for browsing the catalog.
type BrowseCatalogInput struct {
	Authorization string `header:"Authorization"`
	Category      string `query:"category" doc:"Category filter; empty or all returns everything"`
}

// VideoResponse contains video data in API responses. Field names match
// the upstream catalog payload.
type VideoResponse struct {
	ID          string `json:"id,omitempty" doc:"Catalog video ID"`
	Title       string `json:"title" doc:"Video title"`
	Summary     string `json:"summary,omitempty" doc:"Short summary"`
	Description string `json:"description,omitempty" doc:"Long description"`
	Category    string `json:"category,omitempty" doc:"Category label"`
	DriveLink   string `json:"driveLink,omitempty" doc:"Source drive link"`
	Thumbnail   string `json:"thumbnail,omitempty" doc:"Resolved thumbnail URL"`
}

// CatalogResponse contains the filtered catalog listing.
type CatalogResponse struct {
	Videos []VideoResponse `json:"videos" doc:"Matching videos"`
}

// CatalogOutput wraps the catalog response for Huma.
type CatalogOutput struct {
	Body CatalogResponse
}

// CategoriesResponse contains the category selector values.
type CategoriesResponse struct {
	Categories []string `json:"categories" doc:"Category values"`
}

// CategoriesOutput wraps the categories response for Huma.
type CategoriesOutput struct {
	Body CategoriesResponse
}

// ListCategoriesInput contains parameters for listing categories.
type ListCategoriesInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func (s *Server) handleBrowseCatalog(ctx context.Context, input *BrowseCatalogInput) (*CatalogOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	videos, err := s.services.Catalog.Browse(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	return &CatalogOutput{Body: CatalogResponse{Videos: mapVideos(videos)}}, nil
}

func (s *Server) handleListCategories(ctx context.Context, input *ListCategoriesInput) (*CategoriesOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	return &CategoriesOutput{Body: CategoriesResponse{Categories: s.services.Catalog.Categories()}}, nil
}

// === Helpers ===

func mapVideo(v domain.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Summary:     v.Summary,
		Description: v.Description,
		Category:    v.Category,
		DriveLink:   v.DriveLink,
		Thumbnail:   v.Thumbnail,
	}
}

func mapVideos(videos []domain.Video) []VideoResponse {
	out := make([]VideoResponse, len(videos))
	for i, v := range videos {
		out[i] = mapVideo(v)
	}
	return out
}
