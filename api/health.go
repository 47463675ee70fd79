package api

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		OK:   true,
		Time: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
