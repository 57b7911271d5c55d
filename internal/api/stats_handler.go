package api

import (
	"net/http"

	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/stats"
)

// GET /stats/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	results, err := h.history.FetchPastResults(r.Context())
	if h.handleStoreError(w, err, "results") {
		return
	}
	respondJSON(w, http.StatusOK, stats.AggregateTotals(results))
}

// GET /stats/rules
func (h *Handler) getRuleAccuracy(w http.ResponseWriter, r *http.Request) {
	rules, err := h.history.FetchRuleAccuracyHistory(r.Context())
	if h.handleStoreError(w, err, "attempts") {
		return
	}
	if rules == nil {
		rules = []stats.RuleAccuracy{}
	}
	respondJSON(w, http.StatusOK, rules)
}

// GET /stats/errors?limit=N
func (h *Handler) getErrorPatterns(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, 0)
	if !ok {
		return
	}

	attempts, err := h.store.ListAttempts(r.Context())
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	patterns := stats.ComputeErrorPatterns(attempts)
	if limit > 0 && len(patterns) > limit {
		patterns = patterns[:limit]
	}
	if patterns == nil {
		patterns = []stats.ErrorPattern{}
	}
	respondJSON(w, http.StatusOK, patterns)
}

// GET /stats/weak
func (h *Handler) getWeakRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.history.FetchRuleAccuracyHistory(r.Context())
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	weak := practicesession.RankWeakRules(h.trainer.Catalog(), rules)
	if weak == nil {
		weak = []stats.RuleAccuracy{}
	}
	respondJSON(w, http.StatusOK, weak)
}
