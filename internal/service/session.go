package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/eflixapp/eflix-server/internal/auth"
	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/errors"
	"github.com/eflixapp/eflix-server/internal/id"
	"github.com/eflixapp/eflix-server/internal/identity"
	"github.com/eflixapp/eflix-server/internal/logger"
	"github.com/eflixapp/eflix-server/internal/store"
)

// SessionEventType distinguishes session lifecycle notifications.
type SessionEventType string

// Session lifecycle event types.
const (
	SessionStarted SessionEventType = "started"
	SessionEnded   SessionEventType = "ended"
)

// SessionEvent is delivered to subscribers on sign-in and sign-out.
type SessionEvent struct {
	Type    SessionEventType
	Session *domain.Session
}

// SessionService handles sign-in, sign-out, and token verification.
// Sign-in accepts an identity-provider ID token; only emails on the
// configured domain are allowed through.
type SessionService struct {
	store         *store.Store
	tokens        *auth.TokenService
	verifier      identity.Verifier
	allowedDomain string
	logger        *logger.Logger

	mu          sync.RWMutex
	subscribers []func(SessionEvent)
}

// NewSessionService creates a new session service.
func NewSessionService(
	st *store.Store,
	tokens *auth.TokenService,
	verifier identity.Verifier,
	allowedDomain string,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		store:         st,
		tokens:        tokens,
		verifier:      verifier,
		allowedDomain: strings.ToLower(allowedDomain),
		logger:        log,
	}
}

// SignInRequest carries the identity-provider token from the client.
type SignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// SignInResponse contains the minted access token and the session.
type SignInResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Session     *domain.Session `json:"session"`
}

// SignIn verifies the ID token, enforces the email-domain allowlist,
// and mints a session. A wrong-domain email yields a forbidden error
// and no session.
func (s *SessionService) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	ident, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		s.logger.Warn("sign-in token rejected", "error", err)
		return nil, err
	}

	if !s.emailAllowed(ident.Email) {
		s.logger.Warn("sign-in from disallowed domain", "email", ident.Email)
		return nil, errors.Forbiddenf("access restricted to @%s accounts", s.allowedDomain)
	}

	sessionID, err := id.Generate("ses")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:          sessionID,
		UID:         ident.UID,
		Email:       ident.Email,
		DisplayName: ident.DisplayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.tokens.AccessTokenDuration()),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(session)
	if err != nil {
		// Roll back the orphaned record; nothing references it yet.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("session started", "session_id", session.ID, "uid", session.UID)
	s.notify(SessionEvent{Type: SessionStarted, Session: session})

	return &SignInResponse{
		AccessToken: accessToken,
		ExpiresAt:   session.ExpiresAt,
		Session:     session,
	}, nil
}

// SignOut revokes the session. Revoking an already-absent session
// succeeds; sign-out is idempotent.
func (s *SessionService) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("session ended", "session_id", session.ID, "uid", session.UID)
	s.notify(SessionEvent{Type: SessionEnded, Session: session})
	return nil
}

// VerifyAccessToken resolves a bearer token to its live session.
// Revoked and expired sessions fail verification even when the token
// itself is still valid.
func (s *SessionService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, errors.ErrUnauthorized.WithMessage("invalid access token").WithCause(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Subscribe registers a callback for session lifecycle events.
// Callbacks run synchronously on the signing-in goroutine and must not
// block.
func (s *SessionService) Subscribe(fn func(SessionEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *SessionService) notify(event SessionEvent) {
	s.mu.RLock()
	subs := make([]func(SessionEvent), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}

func (s *SessionService) emailAllowed(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+s.allowedDomain)
}
