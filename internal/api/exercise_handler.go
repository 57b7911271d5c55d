package api

import (
	"net/http"

	"github.com/prepdrill/backend/internal/domain/exercise"
)

type ExerciseResponse struct {
	ID            int                    `json:"id"`
	Sentence      string                 `json:"sentence"`
	CorrectAnswer exercise.Preposition   `json:"correct_answer"`
	Options       []exercise.Preposition `json:"options"`
	RuleCategory  string                 `json:"rule_category"`
	Hint          string                 `json:"hint"`
}

func toExerciseResponses(exs []exercise.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, len(exs))
	for i, e := range exs {
		out[i] = ExerciseResponse{
			ID:            e.ID,
			Sentence:      e.Sentence,
			CorrectAnswer: e.CorrectAnswer,
			Options:       e.Options,
			RuleCategory:  e.RuleCategory,
			Hint:          exercise.Hint(e.RuleCategory),
		}
	}
	return out
}

// GET /exercises?categories=at,on
func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	catalog := h.trainer.Catalog()

	raw := r.URL.Query().Get("categories")
	if raw == "" {
		respondJSON(w, http.StatusOK, toExerciseResponses(catalog.All()))
		return
	}

	categories, err := exercise.ParseCategories(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	exs, err := catalog.FilterByCategories(categories)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toExerciseResponses(exs))
}
