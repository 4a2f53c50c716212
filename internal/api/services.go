package api

import (
	"github.com/eflixapp/eflix-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Session *service.SessionService
	Catalog *service.CatalogService
	Library *service.LibraryService
}
