package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/service"
	"github.com/prepdrill/backend/internal/stats"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show results, rule accuracy and common mistakes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd)
			d := service.NewStatsService(a.client, a.catalog, a.logger).Dashboard(cmd.Context())
			printDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func newWeakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weak",
		Short: "List the rules smart mode will focus on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd)
			d := service.NewStatsService(a.client, a.catalog, a.logger).Dashboard(cmd.Context())
			printWeak(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printDashboard(out io.Writer, d service.Dashboard) {
	if d.Degraded {
		fmt.Fprintln(out, "Statistics service unavailable.")
		return
	}
	if d.Totals.Count == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return
	}

	fmt.Fprintf(out, "Sessions: %d   Average: %d%%   Best: %d%%\n\n",
		d.Totals.Count, d.Totals.MeanScorePercentage, d.Totals.MaxScorePercentage)

	fmt.Fprintf(out, "%-20s  %8s  %8s  %8s\n", "Rule", "Attempts", "Correct", "Accuracy")
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for _, ra := range d.RuleAccuracy {
		fmt.Fprintf(out, "%-20s  %8d  %8d  %8s\n", ra.RuleCategory, ra.TotalAttempts, ra.CorrectAttempts, formatAccuracy(ra))
	}

	if len(d.ErrorPatterns) > 0 {
		fmt.Fprintln(out, "\nMost missed:")
		for _, p := range d.ErrorPatterns {
			fmt.Fprintf(out, "  %3dx  %s  (%s)\n", p.ErrorCount, p.Sentence, p.RuleCategory)
		}
	}
}

func printWeak(out io.Writer, d service.Dashboard) {
	switch {
	case d.Degraded:
		fmt.Fprintln(out, "Statistics service unavailable.")
	case len(d.WeakRules) == 0:
		fmt.Fprintln(out, "No weak rules. Keep practicing!")
	default:
		for i, ra := range d.WeakRules {
			fmt.Fprintf(out, "%d. %-20s %s over %d attempts\n", i+1, ra.RuleCategory, formatAccuracy(ra), ra.TotalAttempts)
		}
	}
}

func formatAccuracy(ra stats.RuleAccuracy) string {
	pct, ok := ra.Accuracy()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d%%", pct)
}
