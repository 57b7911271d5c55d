package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepdrill/backend/internal/api"
	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/infrastructure/config"
	"github.com/prepdrill/backend/internal/service"
	"github.com/prepdrill/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	builder := practicesession.NewBuilder(exercise.Default(), rand.New(rand.NewSource(time.Now().UnixNano())))
	trainer := service.NewTrainer(builder, service.NewLocalHistory(db, cfg.ResultsLimit), logger, service.DefaultHistoryTimeout)
	handler := api.NewHandler(db, trainer, logger, cfg.ResultsLimit)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	router := api.NewRouter(handler)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "driver", cfg.DBDriver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == config.DriverPostgres {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewPostgres(ctx, cfg.DatabaseURL, store.PoolConfig{
			MaxConns:        int32(cfg.DBMaxConns),
			MaxConnLifetime: time.Hour,
		})
	}
	return store.NewSQLite(cfg.SQLitePath)
}
