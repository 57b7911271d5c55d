package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SERVER_ADDRESS", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "DB_DRIVER", "SQLITE_PATH",
		"DATABASE_URL", "DB_MAX_CONNS", "RESULTS_LIMIT", "STATS_URL", "STATS_TIMEOUT",
		"HISTORY_TIMEOUT", "PUBLISH_RETRIES",
	} {
		t.Setenv(k, "")
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "prepdrill.db", cfg.SQLitePath)
	assert.Equal(t, 50, cfg.ResultsLimit)
}

func TestParse_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/prep")
	t.Setenv("RESULTS_LIMIT", "20")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 20, cfg.ResultsLimit)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad limit", env: map[string]string{"RESULTS_LIMIT": "many"}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "postgres without url", env: map[string]string{"DB_DRIVER": "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestParseTrainer(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseTrainer()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.StatsURL)
	assert.Equal(t, 5*time.Second, cfg.StatsTimeout)
	assert.Equal(t, 2*time.Second, cfg.HistoryTimeout)
	assert.Equal(t, 2, cfg.PublishRetries)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)

	t.Setenv("STATS_URL", "http://stats:8080/")
	t.Setenv("HISTORY_TIMEOUT", "500ms")
	t.Setenv("PUBLISH_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err = ParseTrainer()
	require.NoError(t, err)
	assert.Equal(t, "http://stats:8080", cfg.StatsURL)
	assert.Equal(t, 500*time.Millisecond, cfg.HistoryTimeout)
	assert.Equal(t, 0, cfg.PublishRetries)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)

	t.Setenv("PUBLISH_RETRIES", "-1")
	_, err = ParseTrainer()
	assert.Error(t, err)
}
