package api

import (
	"net/http"
	"time"
)

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		ServiceVersion: ServiceVersion,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleLiveness answers as long as the process is serving requests.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "alive",
		"uptime": time.Since(s.startTime).String(),
	})
}

// handleReadiness verifies the database answers before reporting ready.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if _, err := s.db.Stats(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeInternal, "database not ready")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
