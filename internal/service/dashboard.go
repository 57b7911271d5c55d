package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/stats"
)

// Dashboard is everything the statistics view shows. When the history
// source fails every section is empty and Degraded is set.
type Dashboard struct {
	Totals        stats.Totals           `json:"totals"`
	Recent        []result.SessionResult `json:"recent"`
	RuleAccuracy  []stats.RuleAccuracy   `json:"rule_accuracy"`
	WeakRules     []stats.RuleAccuracy   `json:"weak_rules"`
	ErrorPatterns []stats.ErrorPattern   `json:"error_patterns"`
	Degraded      bool                   `json:"degraded"`
}

type StatsService struct {
	history History
	catalog *exercise.Catalog
	logger  *slog.Logger
}

func NewStatsService(history History, catalog *exercise.Catalog, logger *slog.Logger) *StatsService {
	return &StatsService{history: history, catalog: catalog, logger: logger}
}

// Dashboard fetches results, rule accuracy and error patterns concurrently.
// A failure is logged and reported through Degraded, not returned.
func (s *StatsService) Dashboard(ctx context.Context) Dashboard {
	var (
		results  []result.SessionResult
		rules    []stats.RuleAccuracy
		patterns []stats.ErrorPattern
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.history.FetchPastResults(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = s.history.FetchRuleAccuracyHistory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		patterns, err = s.history.FetchErrorPatternHistory(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("statistics unavailable", "error", err)
		return emptyDashboard(true)
	}

	d := emptyDashboard(false)
	d.Totals = stats.AggregateTotals(results)
	if results != nil {
		d.Recent = results
	}
	if rules != nil {
		d.RuleAccuracy = rules
	}
	if patterns != nil {
		d.ErrorPatterns = patterns
	}
	if weak := practicesession.RankWeakRules(s.catalog, rules); weak != nil {
		d.WeakRules = weak
	}
	return d
}

func emptyDashboard(degraded bool) Dashboard {
	return Dashboard{
		Recent:        []result.SessionResult{},
		RuleAccuracy:  []stats.RuleAccuracy{},
		WeakRules:     []stats.RuleAccuracy{},
		ErrorPatterns: []stats.ErrorPattern{},
		Degraded:      degraded,
	}
}
