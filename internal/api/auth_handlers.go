package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signIn",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signin",
		Summary:     "Sign in",
		Description: "Exchanges an identity-provider ID token for a session access token. Rate limited per client IP.",
		Tags:        []string{"Authentication"},
	}, s.handleSignIn)

	huma.Register(s.api, huma.Operation{
		OperationID: "signOut",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signout",
		Summary:     "Sign out",
		Description: "Revokes the current session",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSignOut)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Current user",
		Description: "Returns the session behind the presented access token",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// SignInRequest is the request body for sign-in.
type SignInRequest struct {
	IDToken string `json:"id_token" validate:"required" doc:"Identity-provider ID token"`
}

// SignInInput wraps the sign-in request with headers for Huma.
type SignInInput struct {
	Body          SignInRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// SessionResponse contains session data in API responses.
type SessionResponse struct {
	ID          string    `json:"id" doc:"Session ID"`
	UID         string    `json:"uid" doc:"Identity-provider subject"`
	Email       string    `json:"email" doc:"Account email"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	CreatedAt   time.Time `json:"created_at" doc:"Session creation time"`
	ExpiresAt   time.Time `json:"expires_at" doc:"Session expiry time"`
}

// AuthResponse contains the minted access token and session info.
type AuthResponse struct {
	AccessToken string          `json:"access_token" doc:"PASETO access token"`
	TokenType   string          `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn   int             `json:"expires_in" doc:"Token expiry in seconds"`
	Session     SessionResponse `json:"session" doc:"Created session"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// SignOutInput carries the bearer token for sign-out.
type SignOutInput struct {
	Authorization string `header:"Authorization"`
}

// CurrentUserInput carries the bearer token for the current-user lookup.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// SessionOutput wraps a session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleSignIn(ctx context.Context, input *SignInInput) (*AuthOutput, error) {
	key := forwardedClientIP(input.XForwardedFor, input.XRealIP)
	if key == "" {
		key = "unknown"
	}
	if !s.authRateLimiter.Allow(key) {
		s.logger.Warn("sign-in rate limit exceeded", "ip", key)
		return nil, huma.Error429TooManyRequests("Too many sign-in attempts. Please try again later.")
	}

	resp, err := s.services.Session.SignIn(ctx, service.SignInRequest{IDToken: input.Body.IDToken})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		Body: AuthResponse{
			AccessToken: resp.AccessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(time.Until(resp.ExpiresAt).Seconds()),
			Session:     mapSession(resp.Session),
		},
	}, nil
}

func (s *Server) handleSignOut(ctx context.Context, input *SignOutInput) (*MessageOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Session.SignOut(ctx, session); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Signed out successfully"}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*SessionOutput, error) {
	session, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSession(session)}, nil
}

// === Helpers ===

func mapSession(session *domain.Session) SessionResponse {
	return SessionResponse{
		ID:          session.ID,
		UID:         session.UID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		CreatedAt:   session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	}
}
