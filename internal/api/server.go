package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwl313/yuuka-grow-sub000/internal/store"
)

// Config carries the server's runtime settings. Passed in explicitly so the
// server holds no process-wide state.
type Config struct {
	// AdminToken guards the admin console routes. Empty disables them.
	AdminToken string
}

// Server handles HTTP requests for submissions, the leaderboard, and the
// admin console.
type Server struct {
	db        store.DB
	config    Config
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates a new API server.
func NewServer(db store.DB, config Config) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)

	return &Server{
		db:        db,
		config:    config,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLogger)
	r.Use(s.RecoveryHandler)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/submissions", s.handleSubmit)
		r.Get("/submissions/{id}", s.handleGetSubmission)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/endings/stats", s.handleEndingStats)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.AdminAuth)
			r.Get("/submissions", s.handleAdminListSubmissions)
			r.Delete("/submissions/{id}", s.handleAdminDeleteSubmission)
			r.Get("/stats", s.handleAdminStats)
		})
	})

	return r
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Service-Version", ServiceVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	apiErr := NewError(errType, message).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()
	s.writeJSON(w, status, apiErr)
}
