package statsclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/statsclient"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchPastResults(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/results", r.URL.Path)
		writeJSON(w, []map[string]any{{
			"id":               7,
			"test_date":        ts,
			"total_questions":  10,
			"correct_answers":  8,
			"score_percentage": 80,
			"prepositions":     []string{"at", "in"},
			"answers":          []map[string]any{{"exercise_id": 1, "rule_category": "at_exact_time", "answer": "at", "correct": true}},
		}})
	}))
	defer srv.Close()

	got, err := statsclient.New(srv.URL+"/", time.Second).FetchPastResults(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, 80, got[0].ScorePercentage)
	assert.True(t, ts.Equal(got[0].Timestamp))
	assert.Equal(t, []exercise.Preposition{exercise.At, exercise.In}, got[0].Categories)
	require.Len(t, got[0].Attempts, 1)
	assert.True(t, got[0].Attempts[0].IsCorrect)
}

func TestFetchRuleAccuracyHistory_RecomputesPercentages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/rules", r.URL.Path)
		writeJSON(w, []map[string]any{
			{"rule_category": "in_month", "total_attempts": 2, "correct_attempts": 1, "accuracy_percentage": 99},
			{"rule_category": "on_weekday", "total_attempts": 0, "correct_attempts": 0},
		})
	}))
	defer srv.Close()

	got, err := statsclient.New(srv.URL, time.Second).FetchRuleAccuracyHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	pct, ok := got[0].Accuracy()
	require.True(t, ok)
	assert.Equal(t, 50, pct)
	_, ok = got[1].Accuracy()
	assert.False(t, ok)
}

func TestFetchErrorPatternHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"rule_category": "in_month", "sentence": "My birthday is ___ March", "error_count": 3, "exercise_id": 2}})
	}))
	defer srv.Close()

	got, err := statsclient.New(srv.URL, time.Second).FetchErrorPatternHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ErrorCount)
}

func TestPersistSessionResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body result.SessionResult
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body.TotalQuestions)

		writeJSON(w, map[string]any{"id": 42, "success": true})
	}))
	defer srv.Close()

	r := result.New(time.Now(), []exercise.Preposition{exercise.On}, []result.AttemptRecord{{}, {}, {IsCorrect: true}})
	got, err := statsclient.New(srv.URL, time.Second).PersistSessionResult(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestPersistSessionResult_ReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": false})
	}))
	defer srv.Close()

	_, err := statsclient.New(srv.URL, time.Second).PersistSessionResult(context.Background(), result.SessionResult{})
	assert.ErrorIs(t, err, statsclient.ErrUnavailable)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, []any{})
	}))
	defer srv.Close()

	got, err := statsclient.New(srv.URL, time.Second).FetchErrorPatternHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := statsclient.New(srv.URL, time.Second).WithRetries(5).FetchPastResults(context.Background())
	require.ErrorIs(t, err, statsclient.ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())

	var ue *statsclient.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "fetch past results", ue.Op)
}

func TestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := statsclient.New(url, 200*time.Millisecond).FetchRuleAccuracyHistory(context.Background())
	assert.ErrorIs(t, err, statsclient.ErrUnavailable)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := statsclient.New(srv.URL, 5*time.Second).FetchRuleAccuracyHistory(ctx)
	assert.ErrorIs(t, err, statsclient.ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := statsclient.New(srv.URL, time.Second).FetchPastResults(context.Background())
	assert.ErrorIs(t, err, statsclient.ErrUnavailable)
}
