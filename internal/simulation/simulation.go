// simulation/simulation.go
package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/domain/scoring"
	"github.com/prepdrill/backend/internal/service"
)

// Profile is how likely a simulated player is to answer each rule
// correctly. Rules not listed use Default.
type Profile struct {
	Default float64
	Rules   map[string]float64
}

// SkillFor returns the probability of a correct answer for rule, clamped
// to [0, 1].
func (p Profile) SkillFor(rule string) float64 {
	skill, ok := p.Rules[rule]
	if !ok {
		skill = p.Default
	}
	switch {
	case skill < 0:
		return 0
	case skill > 1:
		return 1
	}
	return skill
}

// DefaultProfile is a learner who knows "at" well and struggles with
// years and seasons.
func DefaultProfile() Profile {
	return Profile{
		Default: 0.8,
		Rules: map[string]float64{
			exercise.RuleAtExactTime: 0.95,
			exercise.RuleInYear:      0.4,
			exercise.RuleInSeason:    0.5,
			exercise.RuleOnExactDate: 0.6,
		},
	}
}

// Summary describes a finished simulation run.
type Summary struct {
	Sessions int
	Attempts int
	Correct  int
	Results  []result.SessionResult
}

// Simulator plays whole sessions without a human: it starts each session
// through the trainer, answers with the profile's skill and publishes the
// result.
type Simulator struct {
	trainer   *service.Trainer
	publisher *service.Publisher // nil keeps results local
	profile   Profile
	rng       *rand.Rand
	logger    *slog.Logger
	now       func() time.Time
}

func New(trainer *service.Trainer, publisher *service.Publisher, profile Profile, rng *rand.Rand, logger *slog.Logger) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		trainer:   trainer,
		publisher: publisher,
		profile:   profile,
		rng:       rng,
		logger:    logger,
		now:       time.Now,
	}
}

// Run plays n sessions with cfg. It stops early if ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, n int, cfg practicesession.SessionConfig) (Summary, error) {
	var sum Summary
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, err := s.PlayOne(ctx, cfg)
		if err != nil {
			return sum, fmt.Errorf("session %d: %w", i+1, err)
		}

		sum.Sessions++
		sum.Attempts += res.TotalQuestions
		sum.Correct += res.CorrectAnswers
		sum.Results = append(sum.Results, res)
	}
	return sum, nil
}

// PlayOne runs a single session to completion.
func (s *Simulator) PlayOne(ctx context.Context, cfg practicesession.SessionConfig) (result.SessionResult, error) {
	session, err := s.trainer.Start(ctx, cfg)
	if err != nil {
		return result.SessionResult{}, err
	}

	tracker := scoring.NewTracker(session)
	for tracker.State() != scoring.Complete {
		current, _ := tracker.Current()
		if _, err := tracker.Submit(s.answer(current)); err != nil {
			return result.SessionResult{}, err
		}
		if err := tracker.Advance(); err != nil {
			return result.SessionResult{}, err
		}
	}

	res, err := tracker.Result(s.now())
	if err != nil {
		return result.SessionResult{}, err
	}

	s.logger.Debug("simulated session",
		"session_id", session.ID,
		"smart", session.SmartMode,
		"score_percentage", res.ScorePercentage,
	)
	if s.publisher != nil {
		s.publisher.Publish(res)
	}
	return res, nil
}

// answer picks the correct option with the rule's skill, otherwise one of
// the wrong options at random.
func (s *Simulator) answer(e exercise.Exercise) exercise.Preposition {
	if s.rng.Float64() < s.profile.SkillFor(e.RuleCategory) {
		return e.CorrectAnswer
	}

	wrong := make([]exercise.Preposition, 0, len(e.Options))
	for _, o := range e.Options {
		if o != e.CorrectAnswer {
			wrong = append(wrong, o)
		}
	}
	if len(wrong) == 0 {
		return e.CorrectAnswer
	}
	return wrong[s.rng.Intn(len(wrong))]
}
