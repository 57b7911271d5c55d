package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
	"github.com/prepdrill/backend/internal/domain/result"
	"github.com/prepdrill/backend/internal/domain/scoring"
)

func newPlayCmd() *cobra.Command {
	var flags sessionFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Answer a session of fill-in-the-blank questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	return runPlay(cmd, &rootSession)
}

func runPlay(cmd *cobra.Command, flags *sessionFlags) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	a := newApp(cmd)
	session, err := a.trainer.Start(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printIntro(out, session)

	tracker := scoring.NewTracker(session)
	finished, err := playSession(bufio.NewScanner(cmd.InOrStdin()), out, tracker)
	if err != nil {
		return err
	}
	if !finished {
		fmt.Fprintln(out, "Session abandoned, nothing was saved.")
		return nil
	}

	res, err := tracker.Result(time.Now())
	if err != nil {
		return err
	}
	printSummary(out, res)

	if res.TotalQuestions > 0 {
		pub := a.newPublisher()
		pub.Publish(res)
		pub.Close()
		if pub.Failed() > 0 {
			fmt.Fprintln(out, "Statistics service unavailable, this result was not saved.")
		}
	}
	return nil
}

func printIntro(out io.Writer, session *practicesession.PracticeSession) {
	if len(session.WeakRules) > 0 {
		fmt.Fprintf(out, "Focusing on: %s\n", strings.Join(session.WeakRules, ", "))
	}
	if session.Short() {
		fmt.Fprintf(out, "Only %d exercises match your selection.\n", len(session.Exercises))
	}
	fmt.Fprintln(out)
}

// playSession reads one answer per line until the session completes. It
// returns false when the user quits or input ends early.
func playSession(in *bufio.Scanner, out io.Writer, tracker *scoring.Tracker) (bool, error) {
	for tracker.State() != scoring.Complete {
		current, _ := tracker.Current()
		fmt.Fprintf(out, "Question %d/%d\n  %s\n  [at] [on] [in]  (h = hint, q = quit)\n> ",
			tracker.Position()+1, tracker.Total(), current.Sentence)

		if !in.Scan() {
			fmt.Fprintln(out)
			return false, in.Err()
		}

		switch line := strings.ToLower(strings.TrimSpace(in.Text())); line {
		case "":
			continue
		case "q", "quit":
			return false, nil
		case "h", "hint", "?":
			fmt.Fprintf(out, "Hint: %s\n\n", tracker.Hint())
			continue
		default:
			chosen, err := exercise.ParsePreposition(line)
			if err != nil {
				fmt.Fprintln(out, "Please answer at, on or in.")
				fmt.Fprintln(out)
				continue
			}

			attempt, err := tracker.Submit(chosen)
			if errors.Is(err, exercise.ErrInvalidAnswer) {
				fmt.Fprintln(out, "Please answer at, on or in.")
				continue
			}
			if err != nil {
				return false, err
			}
			printFeedback(out, attempt)

			if err := tracker.Advance(); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func printFeedback(out io.Writer, a scoring.Attempt) {
	filled := a.Exercise.Fill(a.Exercise.CorrectAnswer)
	if a.IsCorrect {
		fmt.Fprintf(out, "Correct! %s\n\n", filled)
		return
	}
	fmt.Fprintf(out, "Not quite, the answer is %q: %s\n  %s\n\n", a.Exercise.CorrectAnswer, filled, exercise.Hint(a.Exercise.RuleCategory))
}

func printSummary(out io.Writer, res result.SessionResult) {
	fmt.Fprintf(out, "Score: %d/%d (%d%%)\n", res.CorrectAnswers, res.TotalQuestions, res.ScorePercentage)

	var mistakes []result.AttemptRecord
	for _, a := range res.Attempts {
		if !a.IsCorrect {
			mistakes = append(mistakes, a)
		}
	}
	if len(mistakes) == 0 {
		return
	}
	fmt.Fprintln(out, "Mistakes:")
	for _, m := range mistakes {
		fmt.Fprintf(out, "  %-40s you said %q, answer %q\n", m.Sentence, m.ChosenAnswer, m.CorrectAnswer)
	}
}
