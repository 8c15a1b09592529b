package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/audioworx/feedsync/internal/models"
)

// Store is the read-mostly slice of the database the ops API serves.
type Store interface {
	RecentSessions(ctx context.Context, limit int) ([]*models.SyncSession, error)
	Suppliers(ctx context.Context) ([]*models.Supplier, error)
	DeduplicateProducts(ctx context.Context) (int64, error)
}

type Handlers struct {
	store  Store
	logger *slog.Logger
}

func NewHandlers(store Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		logger: logger,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSessions returns the most recent sync sessions, newest first.
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	sessions, err := h.store.RecentSessions(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// ListSuppliers returns every supplier row with its connection status.
func (h *Handlers) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.Suppliers(r.Context())
	if err != nil {
		h.logger.Error("failed to list suppliers", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"suppliers": suppliers})
}

// Deduplicate runs the manual duplicate cleanup over the product table.
func (h *Handlers) Deduplicate(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.DeduplicateProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to deduplicate products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to deduplicate products")
		return
	}

	h.logger.Info("manual dedup finished", "removed", removed)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
