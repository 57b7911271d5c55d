package practicesession

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prepdrill/backend/internal/domain/exercise"
	"github.com/prepdrill/backend/internal/id"
	"github.com/prepdrill/backend/internal/stats"
)

var ErrInvalidCount = errors.New("session count must be positive")

// PracticeSession is the ordered set of exercises chosen for one run.
// It is not modified after the builder returns it.
type PracticeSession struct {
	ID             string
	Categories     []exercise.Preposition
	RequestedCount int
	SmartMode      bool
	WeakRules      []string // rules that drove selection; empty in standard mode
	Exercises      []exercise.Exercise
	CreatedAt      time.Time
}

// Short reports whether fewer exercises matched than were requested.
func (s *PracticeSession) Short() bool {
	return len(s.Exercises) < s.RequestedCount
}

// Builder picks exercises from a catalog. The random source is injected
// so tests can use a fixed seed; access to it is serialized.
type Builder struct {
	catalog *exercise.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder creates a Builder. A nil rng is replaced by a time-seeded one.
func NewBuilder(catalog *exercise.Catalog, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{catalog: catalog, rng: rng}
}

// Catalog returns the catalog the builder draws from.
func (b *Builder) Catalog() *exercise.Catalog {
	return b.catalog
}

// Build creates a standard session: a uniform random sample of up to
// count matching exercises. It never pads with repeats.
func (b *Builder) Build(categories []exercise.Preposition, count int) (*PracticeSession, error) {
	matches, err := b.matches(categories, count)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	picked := takeFirst(b.shuffled(matches), count)
	b.mu.Unlock()

	return newSession(categories, count, false, nil, picked), nil
}

// BuildSmart creates a session that draws from weak rules first and fills
// the rest with a random sample of the other matching exercises.
func (b *Builder) BuildSmart(categories []exercise.Preposition, count int, history []stats.RuleAccuracy) (*PracticeSession, error) {
	matches, err := b.matches(categories, count)
	if err != nil {
		return nil, err
	}

	ranked := RankWeakRules(b.catalog, history)
	weak := make(map[string]bool, len(ranked))
	weakNames := make([]string, len(ranked))
	for i, ra := range ranked {
		weak[ra.RuleCategory] = true
		weakNames[i] = ra.RuleCategory
	}

	var weakPool, rest []exercise.Exercise
	for _, e := range matches {
		if weak[e.RuleCategory] {
			weakPool = append(weakPool, e)
		} else {
			rest = append(rest, e)
		}
	}

	b.mu.Lock()
	pool := weakPool
	if remaining := count - len(weakPool); remaining > 0 {
		pool = append(pool, takeFirst(b.shuffled(rest), remaining)...)
	}
	picked := takeFirst(b.shuffled(pool), count)
	b.mu.Unlock()

	return newSession(categories, count, true, weakNames, picked), nil
}

// BuildWithConfig dispatches on cfg.Smart. history is ignored in standard mode.
func (b *Builder) BuildWithConfig(cfg SessionConfig, history []stats.RuleAccuracy) (*PracticeSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Smart {
		return b.BuildSmart(cfg.Categories, cfg.Count, history)
	}
	return b.Build(cfg.Categories, cfg.Count)
}

func (b *Builder) matches(categories []exercise.Preposition, count int) ([]exercise.Exercise, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	return b.catalog.FilterByCategories(categories)
}

// shuffled returns a Fisher–Yates shuffled copy. Callers hold b.mu.
func (b *Builder) shuffled(in []exercise.Exercise) []exercise.Exercise {
	out := make([]exercise.Exercise, len(in))
	copy(out, in)
	b.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func newSession(categories []exercise.Preposition, count int, smart bool, weak []string, picked []exercise.Exercise) *PracticeSession {
	cats := make([]exercise.Preposition, len(categories))
	copy(cats, categories)
	return &PracticeSession{
		ID:             id.GenerateID(),
		Categories:     cats,
		RequestedCount: count,
		SmartMode:      smart,
		WeakRules:      weak,
		Exercises:      picked,
		CreatedAt:      time.Now(),
	}
}

// takeFirst returns the first n elements, or the whole slice if shorter.
func takeFirst(in []exercise.Exercise, n int) []exercise.Exercise {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
