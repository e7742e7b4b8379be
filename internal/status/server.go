// Package status serves the live scoreboard over HTTP so a running pool
// can be inspected without signalling the process.
package status

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mugloar/mugomatic/internal/runner"
)

// Server handles status HTTP requests.
type Server struct {
	scoreboard *runner.Scoreboard
	logger     *log.Logger
	startTime  time.Time
}

// NewServer creates a status server over the pool's scoreboard.
func NewServer(sb *runner.Scoreboard) *Server {
	return &Server{
		scoreboard: sb,
		logger:     log.New(os.Stdout, "[STATUS] ", log.LstdFlags),
		startTime:  time.Now(),
	}
}

// Routes sets up the HTTP routes with standard middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.scoreboard.Snapshot())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}
