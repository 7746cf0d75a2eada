package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/model"
	"github.com/gmllt/kanbo/internal/store"
)

// handleListCards serves GET /api/cards.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list cards failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

type createCardRequest struct {
	Title       string   `json:"title"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	DueDate     string   `json:"due_date"`
}

// handleCreateCard serves POST /api/card.
func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !model.KnownStatus(req.Status) {
		req.Status = model.StatusTodo
	}

	card, err := s.store.Create(r.Context(), model.Card{
		Title:       req.Title,
		Status:      req.Status,
		Description: req.Description,
		Priority:    req.Priority,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	})
	if err != nil {
		s.log.Error("create card failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create card")
		return
	}
	s.log.Info("card created", zap.String("card_id", card.ID), zap.String("status", card.Status))
	writeJSON(w, http.StatusCreated, card)
}

// handlePatchCard serves PATCH /api/card/{id}.
func (s *Server) handlePatchCard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch model.CardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	card, err := s.store.Patch(r.Context(), id, patch)
	switch {
	case errors.Is(err, store.ErrEmptyPatch):
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case err != nil:
		s.log.Error("patch card failed", zap.String("card_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update card")
		return
	}
	s.log.Info("card updated", zap.String("card_id", id))
	writeJSON(w, http.StatusOK, card)
}

// handleDeleteCard serves DELETE /api/card/{id}.
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
		return
	case err != nil:
		s.log.Error("delete card failed", zap.String("card_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete card")
		return
	}
	s.log.Info("card deleted", zap.String("card_id", id))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type reorderRequest struct {
	Orders map[string][]string `json:"orders"`
	// Legacy single-column form, still accepted.
	Column string   `json:"column"`
	Order  []string `json:"order"`
}

// handleReorder serves POST /api/reorder.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var orders model.Snapshot
	switch {
	case req.Orders != nil:
		orders = model.Snapshot(req.Orders)
	case req.Column != "" && req.Order != nil:
		orders = model.Snapshot{req.Column: req.Order}
	default:
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := s.store.Reorder(r.Context(), orders); err != nil {
		s.log.Error("reorder failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to reorder")
		return
	}
	s.log.Info("board reordered", zap.Int("columns", len(orders)))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
