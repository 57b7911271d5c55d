package api

import (
	"net/http"
	"strconv"

	"github.com/prepdrill/backend/internal/domain/result"
)

// ── Request / Response types ────────────────────────────────────────────────

// SaveResultRequest is the body of POST /results. Fields use the stored
// result's JSON names.
type SaveResultRequest struct {
	result.SessionResult
}

func (r *SaveResultRequest) Validate() error {
	return r.SessionResult.Validate()
}

type SaveResultResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /results?limit=N
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, h.resultsLimit)
	if !ok {
		return
	}

	results, err := h.store.ListResults(r.Context(), limit)
	if h.handleStoreError(w, err, "results") {
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// POST /results
func (h *Handler) createResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.saveResult(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusCreated, SaveResultResponse{ID: id, Success: true})
}

// GET /results/{resultID}
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("resultID"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid result id")
		return
	}

	res, err := h.store.GetResult(r.Context(), id)
	if h.handleStoreError(w, err, "result") {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handler) saveResult(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req SaveResultRequest
	if !decodeAndValidate(w, r, &req) {
		return 0, false
	}
	// The store assigns ids.
	req.ID = 0

	id, err := h.store.SaveResult(r.Context(), req.SessionResult)
	if err != nil {
		h.logger.Error("failed to save result", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save result")
		return 0, false
	}

	h.logger.Info("result saved",
		"result_id", id,
		"score_percentage", req.ScorePercentage,
		"total_questions", req.TotalQuestions,
	)
	return id, true
}
