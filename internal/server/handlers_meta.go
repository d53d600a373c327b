package server

import (
	"net/http"

	"taskly/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := s.store.SchemaVersion(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok", SchemaVersion: version})
}

func successResponse() api.SuccessResponse {
	return api.SuccessResponse{Success: true}
}
