package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the authenticated session.
const sessionKey ctxKey = "session"

// GetSession returns the authenticated session from context.
// Returns 401 error if the request carried no valid token.
func GetSession(ctx context.Context) (*domain.Session, error) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	if !ok || session == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return session, nil
}

// setSession stores the session in context.
func setSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// authMiddleware returns a middleware that resolves Bearer tokens to live
// sessions and stores them in context. If no token is present or it is
// invalid, the request continues without a session; handlers use
// GetSession or authenticateRequest to reject where auth is required.
func authMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := authHeader[7:]
			session, err := sessions.VerifyAccessToken(r.Context(), token)
			if err != nil {
				// Invalid token - continue without session (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
