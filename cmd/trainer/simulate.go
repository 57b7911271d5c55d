package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/simulation"
)

func newSimulateCmd() *cobra.Command {
	var (
		flags    sessionFlags
		sessions int
		skill    float64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play synthetic sessions to seed the statistics service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			if sessions < 1 {
				return fmt.Errorf("--sessions must be positive, got %d", sessions)
			}

			a := newApp(cmd)
			profile := simulation.DefaultProfile()
			if cmd.Flags().Changed("skill") {
				profile = simulation.Profile{Default: skill}
			}

			pub := a.newPublisher()
			sim := simulation.New(a.trainer, pub, profile, rand.New(rand.NewSource(time.Now().UnixNano())), a.logger)
			sum, runErr := sim.Run(cmd.Context(), sessions, cfg)
			pub.Close()
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Played %d sessions: %d/%d correct (%d%%)\n",
				sum.Sessions, sum.Correct, sum.Attempts, result.Percent(sum.Correct, sum.Attempts))
			fmt.Fprintf(out, "Saved %d, failed %d\n", pub.Published(), pub.Failed())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&sessions, "sessions", 5, "number of sessions to play")
	cmd.Flags().Float64Var(&skill, "skill", 0.8, "chance of a correct answer for every rule (default: built-in profile)")
	return cmd
}
