// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prepdrill/backend/internal/service"
	"github.com/prepdrill/backend/internal/store"
)

// maxBodyBytes caps request bodies; a full session result is a few KB.
const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	store        store.Store
	history      *service.LocalHistory
	trainer      *service.Trainer
	logger       *slog.Logger
	resultsLimit int
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s store.Store, trainer *service.Trainer, logger *slog.Logger, resultsLimit int) *Handler {
	if resultsLimit <= 0 {
		resultsLimit = store.DefaultListLimit
	}
	return &Handler{
		store:        s,
		history:      service.NewLocalHistory(s, resultsLimit),
		trainer:      trainer,
		logger:       logger,
		resultsLimit: resultsLimit,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

type validator interface {
	Validate() error
}

// decodeAndValidate decodes the JSON body into v and runs its Validate
// method. It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// queryLimit parses ?limit=N. Missing means fallback; anything that is not
// a positive integer is rejected.
func queryLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return n, true
}
