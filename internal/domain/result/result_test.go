package result_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/domain/result"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{7, 10, 70},
		{10, 10, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, result.Percent(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}

func TestNew(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := result.New(ts, []exercise.Preposition{exercise.At}, []result.AttemptRecord{
		{ExerciseID: 1, IsCorrect: true},
		{ExerciseID: 4, IsCorrect: false},
		{ExerciseID: 8, IsCorrect: true},
	})

	assert.Equal(t, 3, r.TotalQuestions)
	assert.Equal(t, 2, r.CorrectAnswers)
	assert.Equal(t, 67, r.ScorePercentage)
	assert.Equal(t, ts, r.Timestamp)
	assert.NoError(t, r.Validate())
}

func TestValidate(t *testing.T) {
	good := result.SessionResult{TotalQuestions: 2, CorrectAnswers: 1, ScorePercentage: 50, Categories: []exercise.Preposition{exercise.On}}
	assert.NoError(t, good.Validate())

	bad := good
	bad.CorrectAnswers = 3
	assert.ErrorIs(t, bad.Validate(), result.ErrInvalidResult)

	bad = good
	bad.Categories = nil
	assert.ErrorIs(t, bad.Validate(), result.ErrInvalidResult)

	bad = good
	bad.Categories = []exercise.Preposition{"by"}
	assert.ErrorIs(t, bad.Validate(), result.ErrInvalidResult)

	bad = good
	bad.ScorePercentage = 101
	assert.ErrorIs(t, bad.Validate(), result.ErrInvalidResult)
}

func TestValidate_Consistency(t *testing.T) {
	hit := result.AttemptRecord{ExerciseID: 3, ChosenAnswer: exercise.On, CorrectAnswer: exercise.On, IsCorrect: true}
	miss := result.AttemptRecord{ExerciseID: 6, ChosenAnswer: exercise.In, CorrectAnswer: exercise.On}
	on := []exercise.Preposition{exercise.On}

	tests := []struct {
		name    string
		r       result.SessionResult
		wantErr bool
	}{
		{name: "built by New", r: result.New(time.Now(), on, []result.AttemptRecord{hit, miss})},
		{name: "no attempt log", r: result.SessionResult{TotalQuestions: 3, CorrectAnswers: 2, ScorePercentage: 67, Categories: on}},
		{name: "empty session", r: result.SessionResult{Categories: on}},
		{
			name:    "forged score",
			r:       result.SessionResult{TotalQuestions: 5, CorrectAnswers: 0, ScorePercentage: 100, Categories: on},
			wantErr: true,
		},
		{
			name:    "score on empty session",
			r:       result.SessionResult{ScorePercentage: 50, Categories: on},
			wantErr: true,
		},
		{
			name:    "answers do not match total",
			r:       result.SessionResult{TotalQuestions: 3, CorrectAnswers: 1, ScorePercentage: 33, Categories: on, Attempts: []result.AttemptRecord{hit, miss}},
			wantErr: true,
		},
		{
			name:    "answers do not match correct count",
			r:       result.SessionResult{TotalQuestions: 2, CorrectAnswers: 2, ScorePercentage: 100, Categories: on, Attempts: []result.AttemptRecord{hit, miss}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, result.ErrInvalidResult)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
