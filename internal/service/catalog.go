package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/readtrailapp/readtrail-server/internal/errors"
	"github.com/readtrailapp/readtrail-server/internal/metadata/googlebooks"
)

// CatalogService searches the Google Books catalog. Query prefixes
// select the search mode: "isbn:", "inauthor:" and "intitle:" run
// scoped lookups, anything else is a free-text search.
type CatalogService struct {
	client *googlebooks.Client
	logger *slog.Logger
}

// NewCatalogService creates a catalog search service.
func NewCatalogService(client *googlebooks.Client, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: logger,
	}
}

// Search runs a catalog search, dispatching on the query prefix.
func (s *CatalogService) Search(ctx context.Context, query string, maxResults int) ([]googlebooks.Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}

	var (
		results []googlebooks.Volume
		err     error
	)
	switch {
	case strings.HasPrefix(query, "isbn:"):
		results, err = s.client.SearchByISBN(ctx, strings.TrimPrefix(query, "isbn:"))
	case strings.HasPrefix(query, "inauthor:"):
		results, err = s.client.SearchByAuthor(ctx, strings.Trim(strings.TrimPrefix(query, "inauthor:"), `"`), maxResults)
	case strings.HasPrefix(query, "intitle:"):
		results, err = s.client.SearchByTitle(ctx, strings.Trim(strings.TrimPrefix(query, "intitle:"), `"`), maxResults)
	default:
		results, err = s.client.Search(ctx, query, maxResults)
	}
	if err != nil {
		return nil, domainerrors.Upstream("book search is currently unavailable").WithCause(err)
	}

	return results, nil
}

// GetVolume fetches a single catalog volume by its Google Books ID.
func (s *CatalogService) GetVolume(ctx context.Context, volumeID string) (*googlebooks.Volume, error) {
	volume, err := s.client.GetVolume(ctx, volumeID)
	if err != nil {
		if errors.Is(err, googlebooks.ErrVolumeNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found in catalog", volumeID)
		}
		return nil, domainerrors.Upstream("book lookup is currently unavailable").WithCause(fmt.Errorf("get volume: %w", err))
	}
	return volume, nil
}
