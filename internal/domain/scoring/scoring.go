// Package scoring walks one practice session question by question and
// keeps the attempt log.
package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/domain/result"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// State is the position of a Tracker in the answer/advance cycle.
type State int

const (
	AwaitingAnswer State = iota
	Answered
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case Answered:
		return "answered"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Attempt is one answered exercise.
type Attempt struct {
	Exercise     exercise.Exercise
	ChosenAnswer exercise.Preposition
	IsCorrect    bool
}

// Record projects the attempt into its stored form.
func (a Attempt) Record() result.AttemptRecord {
	return result.AttemptRecord{
		ExerciseID:    a.Exercise.ID,
		Sentence:      a.Exercise.Sentence,
		RuleCategory:  a.Exercise.RuleCategory,
		ChosenAnswer:  a.ChosenAnswer,
		CorrectAnswer: a.Exercise.CorrectAnswer,
		IsCorrect:     a.IsCorrect,
	}
}

// Tracker is the state machine for a single session. It is driven by one
// actor and is not safe for concurrent use.
type Tracker struct {
	session  *practicesession.PracticeSession
	state    State
	attempts []Attempt
	score    int
}

// NewTracker starts at the first question. An empty session is complete
// from the start.
func NewTracker(session *practicesession.PracticeSession) *Tracker {
	t := &Tracker{
		session:  session,
		state:    AwaitingAnswer,
		attempts: make([]Attempt, 0, len(session.Exercises)),
	}
	if len(session.Exercises) == 0 {
		t.state = Complete
	}
	return t
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) Session() *practicesession.PracticeSession {
	return t.session
}

// Position is the zero-based index of the current question.
func (t *Tracker) Position() int {
	if t.state == Answered {
		return len(t.attempts) - 1
	}
	return len(t.attempts)
}

// Total is the number of questions in the session.
func (t *Tracker) Total() int {
	return len(t.session.Exercises)
}

// Current returns the exercise being asked. ok is false once complete.
func (t *Tracker) Current() (exercise.Exercise, bool) {
	if t.state == Complete {
		return exercise.Exercise{}, false
	}
	return t.session.Exercises[t.Position()], true
}

// Hint returns the rule explanation for the current exercise.
func (t *Tracker) Hint() string {
	e, ok := t.Current()
	if !ok {
		return ""
	}
	return exercise.Hint(e.RuleCategory)
}

// Score is the number of correct attempts so far.
func (t *Tracker) Score() int {
	return t.score
}

// Attempts returns a copy of the attempt log.
func (t *Tracker) Attempts() []Attempt {
	out := make([]Attempt, len(t.attempts))
	copy(out, t.attempts)
	return out
}

// Submit records the answer to the current question.
func (t *Tracker) Submit(chosen exercise.Preposition) (Attempt, error) {
	if t.state != AwaitingAnswer {
		return Attempt{}, fmt.Errorf("%w: submit in state %s", ErrInvalidTransition, t.state)
	}
	e := t.session.Exercises[len(t.attempts)]
	if !e.HasOption(chosen) {
		return Attempt{}, fmt.Errorf("%w: %q is not an option", exercise.ErrInvalidAnswer, chosen)
	}

	a := Attempt{
		Exercise:     e,
		ChosenAnswer: chosen,
		IsCorrect:    e.Check(chosen),
	}
	t.attempts = append(t.attempts, a)
	if a.IsCorrect {
		t.score++
	}
	t.state = Answered
	return a, nil
}

// Advance moves past an answered question, completing the session after
// the last one.
func (t *Tracker) Advance() error {
	if t.state != Answered {
		return fmt.Errorf("%w: advance in state %s", ErrInvalidTransition, t.state)
	}
	if len(t.attempts) == len(t.session.Exercises) {
		t.state = Complete
		return nil
	}
	t.state = AwaitingAnswer
	return nil
}

// Result finalizes the log into a SessionResult stamped with now.
func (t *Tracker) Result(now time.Time) (result.SessionResult, error) {
	if t.state != Complete {
		return result.SessionResult{}, fmt.Errorf("%w: result in state %s", ErrInvalidTransition, t.state)
	}
	records := make([]result.AttemptRecord, len(t.attempts))
	for i, a := range t.attempts {
		records[i] = a.Record()
	}
	return result.New(now, t.session.Categories, records), nil
}
