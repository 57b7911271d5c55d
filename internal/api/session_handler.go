package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Categories []string `json:"categories"`
	Count      int      `json:"count,omitempty"` // 0 = default length
	Smart      bool     `json:"smart"`
}

func (r *CreateSessionRequest) Validate() error {
	if len(r.Categories) == 0 {
		return errors.New("categories is required")
	}
	if r.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func (r *CreateSessionRequest) config() (practicesession.SessionConfig, error) {
	categories := make([]exercise.Preposition, 0, len(r.Categories))
	for _, c := range r.Categories {
		p, err := exercise.ParsePreposition(c)
		if err != nil {
			return practicesession.SessionConfig{}, err
		}
		categories = append(categories, p)
	}
	return practicesession.SessionConfig{Categories: categories, Count: r.Count, Smart: r.Smart}, nil
}

type CreateSessionResponse struct {
	ID             string                 `json:"id"`
	Categories     []exercise.Preposition `json:"categories"`
	RequestedCount int                    `json:"requested_count"`
	Smart          bool                   `json:"smart"`
	WeakRules      []string               `json:"weak_rules"`
	Exercises      []ExerciseResponse     `json:"exercises"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
// A smart request whose history cannot be read comes back with smart=false.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cfg, err := req.config()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.trainer.Start(r.Context(), cfg)
	if err != nil {
		if errors.Is(err, exercise.ErrInvalidSelection) || errors.Is(err, practicesession.ErrInvalidCount) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to build session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to build session")
		return
	}

	weak := session.WeakRules
	if weak == nil {
		weak = []string{}
	}
	respondJSON(w, http.StatusCreated, CreateSessionResponse{
		ID:             session.ID,
		Categories:     session.Categories,
		RequestedCount: session.RequestedCount,
		Smart:          session.SmartMode,
		WeakRules:      weak,
		Exercises:      toExerciseResponses(session.Exercises),
		CreatedAt:      session.CreatedAt,
	})
}
