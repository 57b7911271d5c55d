package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
)

// DefaultHistoryTimeout bounds the history fetch made before a smart session.
const DefaultHistoryTimeout = 2 * time.Second

// Trainer starts practice sessions. Smart sessions need history; when it
// cannot be fetched in time the trainer quietly builds a standard session
// with the same selection.
type Trainer struct {
	builder        *practicesession.Builder
	history        History
	logger         *slog.Logger
	historyTimeout time.Duration
}

// NewTrainer creates a Trainer. history may be nil, in which case smart
// sessions always fall back to standard ones.
func NewTrainer(builder *practicesession.Builder, history History, logger *slog.Logger, historyTimeout time.Duration) *Trainer {
	if historyTimeout <= 0 {
		historyTimeout = DefaultHistoryTimeout
	}
	return &Trainer{
		builder:        builder,
		history:        history,
		logger:         logger,
		historyTimeout: historyTimeout,
	}
}

// Catalog returns the catalog sessions are drawn from.
func (t *Trainer) Catalog() *exercise.Catalog {
	return t.builder.Catalog()
}

// Start builds a session for cfg, filling in the default count.
func (t *Trainer) Start(ctx context.Context, cfg practicesession.SessionConfig) (*practicesession.PracticeSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Smart {
		return t.StartSmart(ctx, cfg.Categories, cfg.Count)
	}
	return t.StartStandard(cfg.Categories, cfg.Count)
}

func (t *Trainer) StartStandard(categories []exercise.Preposition, count int) (*practicesession.PracticeSession, error) {
	session, err := t.builder.Build(categories, count)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	return session, nil
}

// StartSmart fetches rule accuracy history and builds a weak-rule session.
// Any history failure, including the timeout, yields a standard session.
func (t *Trainer) StartSmart(ctx context.Context, categories []exercise.Preposition, count int) (*practicesession.PracticeSession, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("build session: %w: no categories selected", exercise.ErrInvalidSelection)
	}
	if count < 1 {
		return nil, fmt.Errorf("build session: %w: got %d", practicesession.ErrInvalidCount, count)
	}

	if t.history == nil {
		t.logger.Warn("smart session without history source, using standard selection")
		return t.StartStandard(categories, count)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, t.historyTimeout)
	defer cancel()

	history, err := t.history.FetchRuleAccuracyHistory(fetchCtx)
	if err != nil {
		t.logger.Warn("rule history unavailable, using standard selection",
			"error", err,
			"timeout", t.historyTimeout,
		)
		return t.StartStandard(categories, count)
	}

	session, err := t.builder.BuildSmart(categories, count, history)
	if err != nil {
		return nil, fmt.Errorf("build smart session: %w", err)
	}

	t.logger.Debug("smart session built",
		"session_id", session.ID,
		"weak_rules", session.WeakRules,
		"exercises", len(session.Exercises),
	)
	return session, nil
}
