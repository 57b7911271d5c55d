package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/store"
)

func newMockStore(t *testing.T) (*store.PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return store.NewPostgresWithDB(mock), mock
}

var columns = []string{"id", "test_date", "total_questions", "correct_answers", "prepositions", "score_percentage", "answers"}

func answersJSON(t *testing.T, attempts ...result.AttemptRecord) []byte {
	t.Helper()
	b, err := json.Marshal(attempts)
	require.NoError(t, err)
	return b
}

func TestPostgres_EnsureSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS test_results`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveResult(t *testing.T) {
	s, mock := newMockStore(t)
	r := sampleResult(time.Now(), true, false)

	mock.ExpectQuery(`INSERT INTO test_results \(test_date,total_questions,correct_answers,prepositions,score_percentage,answers\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) RETURNING id`).
		WithArgs(pgxmock.AnyArg(), 2, 1, []string{"at", "in"}, 50, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(17)))

	id, err := s.SaveResult(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetResult(t *testing.T) {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	attempt := result.AttemptRecord{ExerciseID: 3, RuleCategory: exercise.RuleOnWeekday, ChosenAnswer: exercise.At, CorrectAnswer: exercise.On}

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, r *result.SessionResult)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(columns).
					AddRow(int64(5), ts, 4, 3, []string{"on"}, 75, answersJSON(t, attempt))
				mock.ExpectQuery(`SELECT (.+) FROM test_results WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, r *result.SessionResult) {
				assert.Equal(t, int64(5), r.ID)
				assert.Equal(t, ts, r.Timestamp)
				assert.Equal(t, 75, r.ScorePercentage)
				assert.Equal(t, []exercise.Preposition{exercise.On}, r.Categories)
				require.Len(t, r.Attempts, 1)
				assert.Equal(t, exercise.RuleOnWeekday, r.Attempts[0].RuleCategory)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM test_results WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			got, err := s.GetResult(context.Background(), 5)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.check(t, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_ListResults(t *testing.T) {
	s, mock := newMockStore(t)
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	rows := pgxmock.NewRows(columns).
		AddRow(int64(2), ts, 1, 1, []string{"at"}, 100, answersJSON(t)).
		AddRow(int64(1), ts.Add(-time.Hour), 1, 0, []string{"in"}, 0, answersJSON(t))
	mock.ExpectQuery(`SELECT (.+) FROM test_results ORDER BY test_date DESC, id DESC LIMIT 50`).
		WillReturnRows(rows)

	got, err := s.ListResults(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, 0, got[1].ScorePercentage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListAttempts(t *testing.T) {
	s, mock := newMockStore(t)

	a := result.AttemptRecord{ExerciseID: 1, RuleCategory: exercise.RuleAtExactTime, IsCorrect: true}
	b := result.AttemptRecord{ExerciseID: 2, RuleCategory: exercise.RuleInMonth}
	rows := pgxmock.NewRows([]string{"answers"}).
		AddRow(answersJSON(t, a)).
		AddRow(answersJSON(t, b, a))
	mock.ExpectQuery(`SELECT answers FROM test_results ORDER BY test_date, id`).
		WillReturnRows(rows)

	got, err := s.ListAttempts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []result.AttemptRecord{a, b, a}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
