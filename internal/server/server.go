// Package server is the thin HTTP control surface over the monitor: a
// homepage redirect, a read-only snapshot endpoint, and an authenticated
// manual check trigger.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shop-monitor/internal/runner"
	"shop-monitor/internal/snapshot"
)

// homepageURL is where GET / points visitors.
const homepageURL = "https://go.skyfall.dev/som-monitor"

type Server struct {
	store     *snapshot.Store
	runner    *runner.Runner
	masterKey string
}

// New builds the router.
func New(store *snapshot.Store, run *runner.Runner, masterKey string) http.Handler {
	s := &Server{store: store, runner: run, masterKey: masterKey}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleHome)
	r.Get("/api/shop", s.handleShop)
	r.Post("/api/check", s.handleCheck)
	return r
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, homepageURL, http.StatusFound)
}

// handleShop serves the current snapshot: the in-memory cache when the
// process has one, otherwise the file (which primes the cache).
func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Read()
	if err != nil {
		http.Error(w, fmt.Sprintf("Internal server error: %v", err), http.StatusInternalServerError)
		return
	}
	if items == nil {
		http.Error(w, "No snapshot yet", http.StatusNotFound)
		return
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("Internal server error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleCheck triggers a run synchronously. 401 without the master key, 409
// when a run is already in flight, 500 with the error text when the run
// failed.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if auth == "" || auth != "Bearer "+s.masterKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	err := s.runner.Run(r.Context())
	switch {
	case errors.Is(err, runner.ErrAlreadyRunning):
		http.Error(w, "Check already in progress", http.StatusConflict)
	case err != nil:
		log.Printf("Error during manual check: %v", err)
		http.Error(w, fmt.Sprintf("Internal server error: %v", err), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Check completed successfully"))
	}
}
