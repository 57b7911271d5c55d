// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prepdrill/backend/internal/domain/result"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS test_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    test_date TEXT NOT NULL,
    total_questions INTEGER NOT NULL,
    correct_answers INTEGER NOT NULL,
    prepositions TEXT NOT NULL,
    score_percentage INTEGER NOT NULL,
    answers TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_test_results_date ON test_results (test_date);
`

// Fixed-width so that lexical order in SQL equals time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Results
// ============================================================================

func (s *SQLiteStore) SaveResult(ctx context.Context, r result.SessionResult) (int64, error) {
	answers, err := encodeAnswers(r.Attempts)
	if err != nil {
		return 0, err
	}
	preps, err := json.Marshal(prepositionStrings(r.Categories))
	if err != nil {
		return 0, fmt.Errorf("encode prepositions: %w", err)
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO test_results
		(test_date, total_questions, correct_answers, prepositions, score_percentage, answers)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(sqliteTimeLayout), r.TotalQuestions, r.CorrectAnswers,
		string(preps), r.ScorePercentage, string(answers),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const sqliteResultColumns = "id, test_date, total_questions, correct_answers, prepositions, score_percentage, answers"

func (s *SQLiteStore) GetResult(ctx context.Context, id int64) (*result.SessionResult, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteResultColumns+" FROM test_results WHERE id = ?", id)
	r, err := scanSQLiteResult(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]result.SessionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteResultColumns+" FROM test_results ORDER BY test_date DESC, id DESC LIMIT ?",
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []result.SessionResult{}
	for rows.Next() {
		r, err := scanSQLiteResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) ListAttempts(ctx context.Context) ([]result.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT answers FROM test_results ORDER BY test_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []result.AttemptRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		decoded, err := decodeAnswers([]byte(raw))
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, decoded...)
	}
	return attempts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteResult(row rowScanner) (result.SessionResult, error) {
	var (
		r       result.SessionResult
		date    string
		preps   string
		answers string
	)
	if err := row.Scan(&r.ID, &date, &r.TotalQuestions, &r.CorrectAnswers, &preps, &r.ScorePercentage, &answers); err != nil {
		return r, err
	}

	ts, err := time.ParseInLocation(sqliteTimeLayout, date, time.UTC)
	if err != nil {
		return r, fmt.Errorf("parse test_date %q: %w", date, err)
	}
	r.Timestamp = ts

	var names []string
	if err := json.Unmarshal([]byte(preps), &names); err != nil {
		return r, fmt.Errorf("decode prepositions: %w", err)
	}
	r.Categories = toPrepositions(names)

	r.Attempts, err = decodeAnswers([]byte(answers))
	if err != nil {
		return r, err
	}
	return r, nil
}
