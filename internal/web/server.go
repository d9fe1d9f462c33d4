// Package web serves a single study session over HTTP as JSON.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	gosync "sync"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/session"
)

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run domain.Run) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	router   *http.ServeMux
	recorder RunRecorder

	mu      gosync.Mutex // guards session
	session *session.Session
}

// NewServer creates and configures a new server around sess. recorder may
// be nil, in which case finished runs are not stored.
func NewServer(sess *session.Session, recorder RunRecorder) *Server {
	s := &Server{
		router:   http.NewServeMux(),
		recorder: recorder,
		session:  sess,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/deck", s.handleGetDeck())
	s.router.HandleFunc("/deck/flip", s.handleFlip())
	s.router.HandleFunc("/deck/next", s.handleNext())
	s.router.HandleFunc("/deck/restart", s.handleRestart())
}

// handleGetDeck renders the current view of the session.
func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.Lock()
		view := s.session.View()
		s.mu.Unlock()
		writeJSON(w, view)
	}
}

// handleFlip reveals the answer of the current card.
func (s *Server) handleFlip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.Lock()
		s.session.Flip()
		view := s.session.View()
		s.mu.Unlock()
		writeJSON(w, view)
	}
}

// handleNext records an answer. The form value "correct" must parse as a bool.
func (s *Server) handleNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		correct, err := strconv.ParseBool(r.PostFormValue("correct"))
		if err != nil {
			http.Error(w, "Invalid value for correct", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		finished := s.session.Next(correct)
		view := s.session.View()
		run := s.session.Run()
		s.mu.Unlock()

		if finished {
			slog.Info("Deck exhausted", "deck", run.Deck, "questions", run.Questions, "attempts", run.Attempts)
			if s.recorder != nil {
				if err := s.recorder.RecordRun(r.Context(), run); err != nil {
					slog.Error("Failed to record run", "deck", run.Deck, "error", err)
				}
			}
		}
		writeJSON(w, view)
	}
}

// handleRestart resets the session to the deck it started from.
func (s *Server) handleRestart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.mu.Lock()
		s.session.Restart()
		view := s.session.View()
		s.mu.Unlock()
		writeJSON(w, view)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
