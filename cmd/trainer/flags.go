package main

import (
	"github.com/spf13/cobra"

	"github.com/prepdrill/backend/internal/domain/exercise"
	practicesession "github.com/prepdrill/backend/internal/domain/practice_session"
)

// sessionFlags are shared by play, the root command and simulate.
type sessionFlags struct {
	categories string
	count      int
	smart      bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.categories, "categories", "at,on,in", "comma-separated prepositions to practice")
	cmd.Flags().IntVar(&f.count, "count", practicesession.DefaultCount, "questions per session")
	cmd.Flags().BoolVar(&f.smart, "smart", false, "focus on your weak rules")
}

func (f *sessionFlags) config() (practicesession.SessionConfig, error) {
	categories, err := exercise.ParseCategories(f.categories)
	if err != nil {
		return practicesession.SessionConfig{}, err
	}
	cfg := practicesession.SessionConfig{Categories: categories, Count: f.count, Smart: f.smart}
	if err := cfg.Validate(); err != nil {
		return practicesession.SessionConfig{}, err
	}
	return cfg, nil
}

var rootSession sessionFlags

func addSessionFlags(cmd *cobra.Command) {
	rootSession.register(cmd)
}
