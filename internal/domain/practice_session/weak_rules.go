package practicesession

import (
	"sort"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/stats"
)

const (
	WeakAccuracyThreshold = 70 // below this a rule counts as weak
	MinAttemptsForWeak    = 2
	MaxWeakRules          = 5
)

// RankWeakRules returns up to MaxWeakRules weak rules, lowest accuracy
// first. Equal accuracy keeps catalog order; rules unknown to the catalog
// go after known ones, by name.
func RankWeakRules(catalog *exercise.Catalog, history []stats.RuleAccuracy) []stats.RuleAccuracy {
	var weak []stats.RuleAccuracy
	for _, ra := range history {
		pct, ok := ra.Accuracy()
		if !ok || ra.TotalAttempts < MinAttemptsForWeak || pct >= WeakAccuracyThreshold {
			continue
		}
		weak = append(weak, ra)
	}

	order := func(rule string) int {
		if i := catalog.RuleIndex(rule); i >= 0 {
			return i
		}
		return len(catalog.RuleOrder())
	}
	sort.SliceStable(weak, func(i, j int) bool {
		oi, oj := order(weak[i].RuleCategory), order(weak[j].RuleCategory)
		if oi != oj {
			return oi < oj
		}
		return weak[i].RuleCategory < weak[j].RuleCategory
	})
	sort.SliceStable(weak, func(i, j int) bool {
		return *weak[i].AccuracyPercentage < *weak[j].AccuracyPercentage
	})

	if len(weak) > MaxWeakRules {
		weak = weak[:MaxWeakRules]
	}
	return weak
}
