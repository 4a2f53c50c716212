// Package identity verifies identity-provider ID tokens.
//
// The SPA performs the provider sign-in flow itself and posts the
// resulting ID token to this server; the server only ever verifies.
package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/eflixapp/eflix-server/internal/errors"
)

// Identity is the verified principal extracted from an ID token.
type Identity struct {
	// UID is the provider subject, stable per user.
	UID         string
	Email       string
	DisplayName string
}

// Verifier validates a raw ID token and extracts the principal.
type Verifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// OIDCVerifier verifies tokens against a discovered OIDC provider.
type OIDCVerifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	clientID string
}

// NewOIDCVerifier discovers the issuer and prepares a token verifier
// bound to the given client ID (the expected token audience).
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover OIDC provider %q: %w", issuer, err)
	}
	return &OIDCVerifier{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		clientID: clientID,
	}, nil
}

// Verify checks signature, issuer, audience, and expiry, then pulls
// the profile claims the application needs.
func (v *OIDCVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.ErrUnauthorized.WithMessage("invalid ID token").WithCause(err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.ErrUnauthorized.WithMessage("malformed ID token claims").WithCause(err)
	}
	if claims.Email == "" {
		return nil, errors.Unauthorized("ID token carries no email claim")
	}

	return &Identity{
		UID:         idToken.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

// OAuth2Config returns the provider endpoints for clients that build
// their own authorization redirect. The server holds no client secret;
// the SPA uses the implicit/PKCE flow.
func (v *OIDCVerifier) OAuth2Config(redirectURL string) oauth2.Config {
	return oauth2.Config{
		ClientID:    v.clientID,
		RedirectURL: redirectURL,
		Endpoint:    v.provider.Endpoint(),
		Scopes:      []string{oidc.ScopeOpenID, "profile", "email"},
	}
}
