package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/domain/exercise"
)

func newExercisesCmd() *cobra.Command {
	var categories string
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the built-in exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := exercise.Default()
			exs := catalog.All()
			if categories != "" {
				selected, err := exercise.ParseCategories(categories)
				if err != nil {
					return err
				}
				if exs, err = catalog.FilterByCategories(selected); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%3s  %-4s  %-16s  %s\n", "ID", "Ans", "Rule", "Sentence")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, e := range exs {
				fmt.Fprintf(out, "%3d  %-4s  %-16s  %s\n", e.ID, e.CorrectAnswer, e.RuleCategory, e.Sentence)
			}
			fmt.Fprintf(out, "\n%d exercises\n", len(exs))
			return nil
		},
	}
	cmd.Flags().StringVar(&categories, "categories", "", "comma-separated prepositions to show")
	return cmd
}
