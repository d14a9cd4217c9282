package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/readtrailapp/readtrail-server/internal/http/response"
)

// handleSearchCatalog searches the book catalog. The query supports
// isbn:, inauthor: and intitle: prefixes for targeted lookups.
func (s *Server) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	maxResults := 0
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "max_results must be a number", s.logger)
			return
		}
		maxResults = n
	}

	volumes, err := s.catalogService.Search(r.Context(), query, maxResults)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, volumes, s.logger)
}

// handleGetCatalogVolume fetches a single catalog volume by ID.
func (s *Server) handleGetCatalogVolume(w http.ResponseWriter, r *http.Request) {
	volume, err := s.catalogService.GetVolume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, volume, s.logger)
}
