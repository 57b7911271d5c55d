package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/domain/result"
)

var (
	ErrNotFound = errors.New("not found")
)

// DefaultListLimit matches how many results the statistics page shows.
const DefaultListLimit = 50

// Store persists session results. Implementations must be safe for
// concurrent use.
type Store interface {
	SaveResult(ctx context.Context, r result.SessionResult) (int64, error)
	GetResult(ctx context.Context, id int64) (*result.SessionResult, error)
	// ListResults returns up to limit results, newest first.
	ListResults(ctx context.Context, limit int) ([]result.SessionResult, error)
	// ListAttempts returns every stored attempt, oldest result first.
	ListAttempts(ctx context.Context) ([]result.AttemptRecord, error)
	Close() error
}

func encodeAnswers(attempts []result.AttemptRecord) ([]byte, error) {
	if attempts == nil {
		attempts = []result.AttemptRecord{}
	}
	b, err := json.Marshal(attempts)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return b, nil
}

func decodeAnswers(b []byte) ([]result.AttemptRecord, error) {
	var out []result.AttemptRecord
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return out, nil
}

func prepositionStrings(ps []exercise.Preposition) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func toPrepositions(ss []string) []exercise.Preposition {
	out := make([]exercise.Preposition, len(ss))
	for i, s := range ss {
		out[i] = exercise.Preposition(s)
	}
	return out
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
