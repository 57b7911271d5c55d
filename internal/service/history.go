package service

import (
	"context"
	"fmt"

	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/stats"
	"github.com/prepdrill/backend/internal/store"
)

// History is the statistics collaborator: past results, aggregated
// history and persistence. statsclient.Client is the remote
// implementation; LocalHistory reads a store directly.
type History interface {
	FetchPastResults(ctx context.Context) ([]result.SessionResult, error)
	FetchRuleAccuracyHistory(ctx context.Context) ([]stats.RuleAccuracy, error)
	FetchErrorPatternHistory(ctx context.Context) ([]stats.ErrorPattern, error)
	PersistSessionResult(ctx context.Context, r result.SessionResult) (int64, error)
}

// DefaultErrorPatternLimit caps how many error patterns are reported.
const DefaultErrorPatternLimit = 10

// LocalHistory serves History from a store in the same process.
type LocalHistory struct {
	store        store.Store
	resultsLimit int
	errorsLimit  int
}

var _ History = (*LocalHistory)(nil)

func NewLocalHistory(s store.Store, resultsLimit int) *LocalHistory {
	return &LocalHistory{store: s, resultsLimit: resultsLimit, errorsLimit: DefaultErrorPatternLimit}
}

func (h *LocalHistory) FetchPastResults(ctx context.Context) ([]result.SessionResult, error) {
	results, err := h.store.ListResults(ctx, h.resultsLimit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

func (h *LocalHistory) FetchRuleAccuracyHistory(ctx context.Context) ([]stats.RuleAccuracy, error) {
	attempts, err := h.store.ListAttempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return stats.ComputeRuleAccuracy(attempts), nil
}

func (h *LocalHistory) FetchErrorPatternHistory(ctx context.Context) ([]stats.ErrorPattern, error) {
	attempts, err := h.store.ListAttempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	patterns := stats.ComputeErrorPatterns(attempts)
	if len(patterns) > h.errorsLimit {
		patterns = patterns[:h.errorsLimit]
	}
	return patterns, nil
}

func (h *LocalHistory) PersistSessionResult(ctx context.Context, r result.SessionResult) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	id, err := h.store.SaveResult(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return id, nil
}
