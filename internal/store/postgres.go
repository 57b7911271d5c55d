package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdrill/backend/internal/domain/result"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS test_results (
    id BIGSERIAL PRIMARY KEY,
    test_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    total_questions INTEGER NOT NULL,
    correct_answers INTEGER NOT NULL,
    prepositions TEXT[] NOT NULL,
    score_percentage INTEGER NOT NULL,
    answers JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_test_results_date ON test_results (test_date DESC);
`

// DBTX is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PoolConfig tunes the pgx connection pool.
type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type PostgresStore struct {
	db    DBTX
	close func()
}

var _ Store = (*PostgresStore)(nil)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var resultColumns = []string{
	"id", "test_date", "total_questions", "correct_answers",
	"prepositions", "score_percentage", "answers",
}

// NewPostgres opens a pool for dsn and applies the schema.
func NewPostgres(ctx context.Context, dsn string, cfg PoolConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	s := &PostgresStore{db: pool, close: pool.Close}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresWithDB wraps an existing connection; Close is a no-op.
func NewPostgresWithDB(db DBTX) *PostgresStore {
	return &PostgresStore{db: db, close: func() {}}
}

func (s *PostgresStore) Close() error {
	s.close()
	return nil
}

// EnsureSchema creates the results table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveResult(ctx context.Context, r result.SessionResult) (int64, error) {
	answers, err := encodeAnswers(r.Attempts)
	if err != nil {
		return 0, err
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args, err := psql.Insert("test_results").
		Columns("test_date", "total_questions", "correct_answers", "prepositions", "score_percentage", "answers").
		Values(ts.UTC(), r.TotalQuestions, r.CorrectAnswers, prepositionStrings(r.Categories), r.ScorePercentage, answers).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetResult(ctx context.Context, id int64) (*result.SessionResult, error) {
	query, args, err := psql.Select(resultColumns...).
		From("test_results").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	r, err := scanPostgresResult(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListResults(ctx context.Context, limit int) ([]result.SessionResult, error) {
	query, args, err := psql.Select(resultColumns...).
		From("test_results").
		OrderBy("test_date DESC", "id DESC").
		Limit(uint64(normalizeLimit(limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := []result.SessionResult{}
	for rows.Next() {
		r, err := scanPostgresResult(rows)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PostgresStore) ListAttempts(ctx context.Context) ([]result.AttemptRecord, error) {
	query, args, err := psql.Select("answers").
		From("test_results").
		OrderBy("test_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []result.AttemptRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list attempts: %w", err)
		}
		decoded, err := decodeAnswers(raw)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, decoded...)
	}
	return attempts, rows.Err()
}

func scanPostgresResult(row pgx.Row) (result.SessionResult, error) {
	var (
		r       result.SessionResult
		preps   []string
		answers []byte
	)
	if err := row.Scan(&r.ID, &r.Timestamp, &r.TotalQuestions, &r.CorrectAnswers, &preps, &r.ScorePercentage, &answers); err != nil {
		return r, err
	}
	r.Categories = toPrepositions(preps)

	var err error
	r.Attempts, err = decodeAnswers(answers)
	return r, err
}
