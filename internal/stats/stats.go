// Package stats aggregates session history into totals, per-rule accuracy
// and error patterns. Every function is a pure projection of its input.
package stats

import (
	"sort"

	"github.com/prepdrill/backend/internal/domain/result"
)

// Totals summarizes a list of session results.
type Totals struct {
	Count               int `json:"count"`
	MeanScorePercentage int `json:"mean_score_percentage"`
	MaxScorePercentage  int `json:"max_score_percentage"`
}

// RuleAccuracy is the success rate for one rule category. AccuracyPercentage
// is nil when there are no attempts.
type RuleAccuracy struct {
	RuleCategory       string `json:"rule_category"`
	TotalAttempts      int    `json:"total_attempts"`
	CorrectAttempts    int    `json:"correct_attempts"`
	AccuracyPercentage *int   `json:"accuracy_percentage,omitempty"`
}

// ErrorPattern counts wrong answers for one sentence.
type ErrorPattern struct {
	RuleCategory string `json:"rule_category"`
	Sentence     string `json:"sentence"`
	ErrorCount   int    `json:"error_count"`
	ExerciseID   int    `json:"exercise_id"`
}

// AggregateTotals computes count, mean and best score. An empty history
// yields all zeros.
func AggregateTotals(results []result.SessionResult) Totals {
	if len(results) == 0 {
		return Totals{}
	}

	sum, best := 0, 0
	for _, r := range results {
		sum += r.ScorePercentage
		if r.ScorePercentage > best {
			best = r.ScorePercentage
		}
	}

	return Totals{
		Count:               len(results),
		MeanScorePercentage: result.Percent(sum, 100*len(results)),
		MaxScorePercentage:  best,
	}
}

// AccuracyFromCounts builds a RuleAccuracy from raw counts, leaving the
// percentage unset when total is zero.
func AccuracyFromCounts(rule string, total, correct int) RuleAccuracy {
	ra := RuleAccuracy{
		RuleCategory:    rule,
		TotalAttempts:   total,
		CorrectAttempts: correct,
	}
	if total > 0 {
		pct := result.Percent(correct, total)
		ra.AccuracyPercentage = &pct
	}
	return ra
}

// Accuracy returns the percentage and whether it is defined.
func (ra RuleAccuracy) Accuracy() (int, bool) {
	if ra.AccuracyPercentage == nil {
		return 0, false
	}
	return *ra.AccuracyPercentage, true
}

// ComputeRuleAccuracy groups attempts by rule category. The output is
// sorted by rule category so it does not depend on input order. Attempts
// without a rule category are skipped.
func ComputeRuleAccuracy(attempts []result.AttemptRecord) []RuleAccuracy {
	type counts struct{ total, correct int }
	byRule := make(map[string]*counts)
	for _, a := range attempts {
		if a.RuleCategory == "" {
			continue
		}
		c, ok := byRule[a.RuleCategory]
		if !ok {
			c = &counts{}
			byRule[a.RuleCategory] = c
		}
		c.total++
		if a.IsCorrect {
			c.correct++
		}
	}

	out := make([]RuleAccuracy, 0, len(byRule))
	for rule, c := range byRule {
		out = append(out, AccuracyFromCounts(rule, c.total, c.correct))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RuleCategory < out[j].RuleCategory
	})
	return out
}

// ComputeErrorPatterns counts incorrect attempts per (rule, sentence),
// most frequent first. Ties go to the lower exercise id. Attempts without
// a rule category are skipped.
func ComputeErrorPatterns(attempts []result.AttemptRecord) []ErrorPattern {
	type key struct{ rule, sentence string }
	byKey := make(map[key]*ErrorPattern)
	for _, a := range attempts {
		if a.IsCorrect || a.RuleCategory == "" {
			continue
		}
		k := key{a.RuleCategory, a.Sentence}
		p, ok := byKey[k]
		if !ok {
			p = &ErrorPattern{RuleCategory: a.RuleCategory, Sentence: a.Sentence, ExerciseID: a.ExerciseID}
			byKey[k] = p
		}
		p.ErrorCount++
		if a.ExerciseID < p.ExerciseID {
			p.ExerciseID = a.ExerciseID
		}
	}

	out := make([]ErrorPattern, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ErrorCount != b.ErrorCount {
			return a.ErrorCount > b.ErrorCount
		}
		if a.ExerciseID != b.ExerciseID {
			return a.ExerciseID < b.ExerciseID
		}
		if a.RuleCategory != b.RuleCategory {
			return a.RuleCategory < b.RuleCategory
		}
		return a.Sentence < b.Sentence
	})
	return out
}

// Flatten collects the attempt logs of several results in order.
func Flatten(results []result.SessionResult) []result.AttemptRecord {
	var out []result.AttemptRecord
	for _, r := range results {
		out = append(out, r.Attempts...)
	}
	return out
}
