package practicesession

import (
	"fmt"

	"github.com/prepdrill/backend/internal/domain/exercise"
)

// DefaultCount is the session length used when none is requested.
const DefaultCount = 10

// SessionConfig holds what the user picked on the start screen.
type SessionConfig struct {
	Categories []exercise.Preposition // must not be empty
	Count      int                    // 0 = DefaultCount
	Smart      bool                   // true = bias toward weak rules
}

// DefaultConfig returns all three prepositions, ten questions, standard mode.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Categories: exercise.Prepositions(),
		Count:      DefaultCount,
		Smart:      false,
	}
}

// Validate fills in the default count and checks the selection.
func (c *SessionConfig) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories selected", exercise.ErrInvalidSelection)
	}
	if c.Count == 0 {
		c.Count = DefaultCount
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, c.Count)
	}
	return nil
}
