package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level

	// Storage
	DBDriver    string // "sqlite" or "postgres"
	SQLitePath  string
	DatabaseURL string // required for postgres
	DBMaxConns  int

	ResultsLimit int // default page size for GET /results
}

// TrainerConfig configures the terminal trainer.
type TrainerConfig struct {
	StatsURL       string
	StatsTimeout   time.Duration
	HistoryTimeout time.Duration
	PublishRetries int
	LogLevel       slog.Level
}

// Load reads the server configuration, exiting on invalid values.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse reads the server configuration from the environment.
func Parse() (*Config, error) {
	var (
		cfg = &Config{
			ServerAddress: getenvDefault("SERVER_ADDRESS", ":8080"),
			DBDriver:      strings.ToLower(getenvDefault("DB_DRIVER", DriverSQLite)),
			SQLitePath:    getenvDefault("SQLITE_PATH", "prepdrill.db"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
		}
		err error
	)

	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = getLevel("LOG_LEVEL", slog.LevelInfo); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.ResultsLimit, err = getInt("RESULTS_LIMIT", 50); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER=%q is not supported (want %s or %s)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}
	return cfg, nil
}

// LoadTrainer reads the trainer configuration, exiting on invalid values.
func LoadTrainer() *TrainerConfig {
	_ = godotenv.Load()
	cfg, err := ParseTrainer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func ParseTrainer() (*TrainerConfig, error) {
	var (
		cfg = &TrainerConfig{
			StatsURL: strings.TrimRight(getenvDefault("STATS_URL", "http://localhost:8080"), "/"),
		}
		err error
	)

	if cfg.StatsTimeout, err = getDuration("STATS_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.HistoryTimeout, err = getDuration("HISTORY_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.PublishRetries, err = getInt("PUBLISH_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.PublishRetries < 0 {
		return nil, fmt.Errorf("PUBLISH_RETRIES must not be negative, got %d", cfg.PublishRetries)
	}
	// Warnings only by default, logs share the terminal with the prompt.
	if cfg.LogLevel, err = getLevel("LOG_LEVEL", slog.LevelWarn); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

// getLevel accepts debug, info, warn or error.
func getLevel(k string, fallback slog.Level) (slog.Level, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid log level: %w", k, v, err)
	}
	return level, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
