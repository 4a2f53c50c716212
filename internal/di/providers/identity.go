package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/eflixapp/eflix-server/internal/config"
	"github.com/eflixapp/eflix-server/internal/identity"
	"github.com/eflixapp/eflix-server/internal/logger"
)

// ProvideIdentityVerifier provides the OIDC token verifier. Provider
// discovery performs a network round trip, so this runs once at startup.
func ProvideIdentityVerifier(i do.Injector) (*identity.OIDCVerifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	verifier, err := identity.NewOIDCVerifier(context.Background(), cfg.Identity.Issuer, cfg.Identity.ClientID)
	if err != nil {
		return nil, err
	}

	log.Info("Identity verifier ready",
		"issuer", cfg.Identity.Issuer,
		"allowed_domain", cfg.Identity.AllowedDomain,
	)

	return verifier, nil
}
