// Package server exposes the board REST API and a read-only HTML view of
// the board.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/store"
)

// Server wires the storage backend to the HTTP API.
type Server struct {
	store store.Store
	log   *zap.Logger
}

// New returns a Server over the given storage backend.
func New(st store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: st, log: log}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(allowCORS)
	api.HandleFunc("/cards", s.handleListCards).Methods(http.MethodGet)
	api.HandleFunc("/card", s.handleCreateCard).Methods(http.MethodPost)
	api.HandleFunc("/card/{id}", s.handlePatchCard).Methods(http.MethodPatch)
	api.HandleFunc("/card/{id}", s.handleDeleteCard).Methods(http.MethodDelete)
	api.HandleFunc("/reorder", s.handleReorder).Methods(http.MethodPost)
	api.PathPrefix("/").HandlerFunc(preflight).Methods(http.MethodOptions)

	r.HandleFunc("/", s.handleBoardPage).Methods(http.MethodGet)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// allowCORS mirrors the permissive cross-origin policy of the original
// backend so a browser frontend on another origin can talk to the API.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
