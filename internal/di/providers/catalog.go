package providers

import (
	"github.com/samber/do/v2"

	"github.com/readtrailapp/readtrail-server/internal/config"
	"github.com/readtrailapp/readtrail-server/internal/logger"
	"github.com/readtrailapp/readtrail-server/internal/metadata/googlebooks"
)

// CatalogClientHandle wraps the Google Books client with shutdown capability.
type CatalogClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideCatalogClient provides the Google Books API client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := googlebooks.NewClient(cfg.Catalog.APIKey, cfg.Catalog.Language, log.Logger)

	return &CatalogClientHandle{Client: client}, nil
}
