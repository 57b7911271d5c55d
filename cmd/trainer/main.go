// Package main provides the terminal trainer for at/on/in.
package main

import (
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/infrastructure/config"
	"github.com/prepdrill/backend/internal/service"
	"github.com/prepdrill/backend/internal/statsclient"
)

var (
	statsURL       string
	historyTimeout time.Duration
	seed           int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "trainer",
		Short:        "Practice the prepositions at, on and in",
		SilenceUsage: true,
		RunE:         runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&statsURL, "stats-url", "", "statistics service URL (overrides STATS_URL)")
	rootCmd.PersistentFlags().DurationVar(&historyTimeout, "history-timeout", 0, "how long smart mode waits for history (overrides HISTORY_TIMEOUT)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed, 0 = time based")
	addSessionFlags(rootCmd)

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWeakCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newExercisesCmd())

	return rootCmd
}

// app holds what every command needs once flags and env are resolved.
type app struct {
	cfg     *config.TrainerConfig
	logger  *slog.Logger
	client  *statsclient.Client
	catalog *exercise.Catalog
	trainer *service.Trainer
}

func newApp(cmd *cobra.Command) *app {
	cfg := config.LoadTrainer()
	if cmd.Flags().Changed("stats-url") {
		cfg.StatsURL = statsURL
	}
	if cmd.Flags().Changed("history-timeout") {
		cfg.HistoryTimeout = historyTimeout
	}

	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	client := statsclient.New(cfg.StatsURL, cfg.StatsTimeout)
	catalog := exercise.Default()

	s := seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	builder := practicesession.NewBuilder(catalog, rand.New(rand.NewSource(s)))

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		catalog: catalog,
		trainer: service.NewTrainer(builder, client, logger, cfg.HistoryTimeout),
	}
}

func (a *app) newPublisher() *service.Publisher {
	return service.NewPublisher(a.client, a.logger, service.PublisherConfig{
		Retries: a.cfg.PublishRetries,
		Timeout: a.cfg.StatsTimeout,
		Backoff: 200 * time.Millisecond,
	})
}
