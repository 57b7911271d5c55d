package simulation

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/service"
)

type recorder struct {
	mu    sync.Mutex
	saved []result.SessionResult
}

func (r *recorder) PersistSessionResult(ctx context.Context, res result.SessionResult) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, res)
	return int64(len(r.saved)), nil
}

func newSimulator(t *testing.T, profile Profile, publisher *service.Publisher) *Simulator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder := practicesession.NewBuilder(exercise.Default(), rand.New(rand.NewSource(5)))
	trainer := service.NewTrainer(builder, nil, logger, time.Second)
	return New(trainer, publisher, profile, rand.New(rand.NewSource(9)), logger)
}

func TestProfile_SkillFor(t *testing.T) {
	p := Profile{Default: 0.5, Rules: map[string]float64{
		exercise.RuleInYear:  2,
		exercise.RuleInMonth: -1,
	}}

	assert.Equal(t, 0.5, p.SkillFor(exercise.RuleAtHoliday))
	assert.Equal(t, 1.0, p.SkillFor(exercise.RuleInYear))
	assert.Equal(t, 0.0, p.SkillFor(exercise.RuleInMonth))
}

func TestRun_PerfectAndHopelessPlayers(t *testing.T) {
	cfg := practicesession.SessionConfig{Categories: exercise.Prepositions(), Count: 6}

	perfect, err := newSimulator(t, Profile{Default: 1}, nil).Run(context.Background(), 3, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, perfect.Sessions)
	assert.Equal(t, 18, perfect.Attempts)
	assert.Equal(t, 18, perfect.Correct)
	for _, r := range perfect.Results {
		assert.Equal(t, 100, r.ScorePercentage)
	}

	hopeless, err := newSimulator(t, Profile{Default: 0}, nil).Run(context.Background(), 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, hopeless.Correct)
	for _, r := range hopeless.Results {
		for _, a := range r.Attempts {
			assert.NotEqual(t, a.CorrectAnswer, a.ChosenAnswer)
		}
	}
}

func TestRun_PublishesResults(t *testing.T) {
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := service.NewPublisher(rec, logger, service.PublisherConfig{Workers: 2})

	sim := newSimulator(t, DefaultProfile(), pub)
	sum, err := sim.Run(context.Background(), 4, practicesession.SessionConfig{Categories: []exercise.Preposition{exercise.In}, Count: 5})
	require.NoError(t, err)
	pub.Close()

	assert.Equal(t, 4, sum.Sessions)
	assert.Len(t, rec.saved, 4)
	assert.Equal(t, int64(4), pub.Published())
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := newSimulator(t, DefaultProfile(), nil).Run(ctx, 3, practicesession.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Sessions)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := newSimulator(t, DefaultProfile(), nil).Run(context.Background(), 1, practicesession.SessionConfig{Count: 3})
	assert.ErrorIs(t, err, exercise.ErrInvalidSelection)
}
