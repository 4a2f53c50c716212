package providers

import (
	"github.com/samber/do/v2"

	"github.com/eflixapp/eflix-server/internal/catalog"
	"github.com/eflixapp/eflix-server/internal/config"
	"github.com/eflixapp/eflix-server/internal/logger"
)

// ProvideCatalogClient provides the external catalog endpoint client.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, log), nil
}
