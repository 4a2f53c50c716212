package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eflixapp/eflix-server/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the
// live session it resolves to.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.Session, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	session, err := s.services.Session.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return session, nil
}
