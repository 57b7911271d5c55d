package result

import (
	"errors"
	"fmt"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
)

var ErrInvalidResult = errors.New("invalid result")

// AttemptRecord is the stored projection of one answered exercise.
type AttemptRecord struct {
	ExerciseID    int                  `json:"exercise_id"`
	Sentence      string               `json:"sentence"`
	RuleCategory  string               `json:"rule_category"`
	ChosenAnswer  exercise.Preposition `json:"answer"`
	CorrectAnswer exercise.Preposition `json:"correct_answer"`
	IsCorrect     bool                 `json:"correct"`
}

// SessionResult is the finished record of one session. The ID is zero
// until a store assigns one.
type SessionResult struct {
	ID              int64                  `json:"id,omitempty"`
	Timestamp       time.Time              `json:"test_date"`
	TotalQuestions  int                    `json:"total_questions"`
	CorrectAnswers  int                    `json:"correct_answers"`
	ScorePercentage int                    `json:"score_percentage"`
	Categories      []exercise.Preposition `json:"prepositions"`
	Attempts        []AttemptRecord        `json:"answers"`
}

// New builds a result from the attempt log, deriving the totals.
func New(ts time.Time, categories []exercise.Preposition, attempts []AttemptRecord) SessionResult {
	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}

	cats := make([]exercise.Preposition, len(categories))
	copy(cats, categories)
	recs := make([]AttemptRecord, len(attempts))
	copy(recs, attempts)

	return SessionResult{
		Timestamp:       ts,
		TotalQuestions:  len(attempts),
		CorrectAnswers:  correct,
		ScorePercentage: Percent(correct, len(attempts)),
		Categories:      cats,
		Attempts:        recs,
	}
}

// Validate checks that the stored totals agree with each other.
func (r SessionResult) Validate() error {
	switch {
	case r.TotalQuestions < 0 || r.CorrectAnswers < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidResult)
	case r.CorrectAnswers > r.TotalQuestions:
		return fmt.Errorf("%w: correct_answers exceeds total_questions", ErrInvalidResult)
	case r.ScorePercentage < 0 || r.ScorePercentage > 100:
		return fmt.Errorf("%w: score_percentage must be between 0 and 100", ErrInvalidResult)
	case r.ScorePercentage != Percent(r.CorrectAnswers, r.TotalQuestions):
		return fmt.Errorf("%w: score_percentage %d does not match %d/%d",
			ErrInvalidResult, r.ScorePercentage, r.CorrectAnswers, r.TotalQuestions)
	case len(r.Categories) == 0:
		return fmt.Errorf("%w: prepositions must not be empty", ErrInvalidResult)
	}
	for _, p := range r.Categories {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown preposition %q", ErrInvalidResult, p)
		}
	}

	// Older clients may omit the attempt log; when present it must add up.
	if len(r.Attempts) == 0 {
		return nil
	}
	if len(r.Attempts) != r.TotalQuestions {
		return fmt.Errorf("%w: %d answers for %d questions", ErrInvalidResult, len(r.Attempts), r.TotalQuestions)
	}
	correct := 0
	for _, a := range r.Attempts {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != r.CorrectAnswers {
		return fmt.Errorf("%w: %d correct answers recorded, correct_answers is %d", ErrInvalidResult, correct, r.CorrectAnswers)
	}
	return nil
}

// Percent returns round(100*part/total) with halves rounded up, or 0 when
// total is not positive.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
