package api

import (
	"net/http"

	"github.com/readtrailapp/readtrail-server/internal/http/response"
)

// handleGetDashboard assembles the home screen summary.
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.dashboardService.Get(r.Context(), getUserID(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dash, s.logger)
}
