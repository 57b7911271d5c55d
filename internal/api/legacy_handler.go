package api

import (
	"net/http"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/domain/result"
)

const (
	actionGetStatistics = "get_statistics"
	actionSaveResult    = "save_result"
)

// legacyResult is a result row as get_statistics has always returned it:
// the session header without the attempt log.
type legacyResult struct {
	ID              int64                  `json:"id"`
	Timestamp       time.Time              `json:"test_date"`
	TotalQuestions  int                    `json:"total_questions"`
	CorrectAnswers  int                    `json:"correct_answers"`
	ScorePercentage int                    `json:"score_percentage"`
	Categories      []exercise.Preposition `json:"prepositions"`
}

func toLegacyResults(results []result.SessionResult) []legacyResult {
	out := make([]legacyResult, len(results))
	for i, r := range results {
		out[i] = legacyResult{
			ID:              r.ID,
			Timestamp:       r.Timestamp,
			TotalQuestions:  r.TotalQuestions,
			CorrectAnswers:  r.CorrectAnswers,
			ScorePercentage: r.ScorePercentage,
			Categories:      r.Categories,
		}
	}
	return out
}

// /api?action=get_statistics (GET) or /api?action=save_result (POST).
// A missing action means get_statistics.
func (h *Handler) legacy(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		action = actionGetStatistics
	}

	switch {
	case action == actionGetStatistics && r.Method == http.MethodGet:
		results, err := h.store.ListResults(r.Context(), h.resultsLimit)
		if h.handleStoreError(w, err, "results") {
			return
		}
		respondJSON(w, http.StatusOK, toLegacyResults(results))

	case action == actionSaveResult && r.Method == http.MethodPost:
		id, ok := h.saveResult(w, r)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, SaveResultResponse{ID: id, Success: true})

	default:
		respondError(w, http.StatusNotFound, "Not found")
	}
}
