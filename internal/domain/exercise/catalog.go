package exercise

import (
	"fmt"
)

// Catalog is an ordered, read-only table of exercises. It is safe for
// concurrent use because nothing mutates it after NewCatalog returns.
type Catalog struct {
	exercises []Exercise
	byID      map[int]int
	ruleOrder []string
}

// NewCatalog validates the exercises and builds a catalog that keeps
// their order.
func NewCatalog(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, len(exercises)),
		byID:      make(map[int]int, len(exercises)),
	}
	for i, e := range exercises {
		c.exercises[i] = e.clone()
	}

	seenRule := make(map[string]bool)
	for i, e := range c.exercises {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %d", e.ID)
		}
		c.byID[e.ID] = i
		if !seenRule[e.RuleCategory] {
			seenRule[e.RuleCategory] = true
			c.ruleOrder = append(c.ruleOrder, e.RuleCategory)
		}
	}
	return c, nil
}

// MustNewCatalog is NewCatalog for static tables; it panics on invalid data.
func MustNewCatalog(exercises []Exercise) *Catalog {
	c, err := NewCatalog(exercises)
	if err != nil {
		panic("exercise: " + err.Error())
	}
	return c
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns a copy of every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.exercises))
	for i, e := range c.exercises {
		out[i] = e.clone()
	}
	return out
}

// Get looks up an exercise by id.
func (c *Catalog) Get(id int) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i].clone(), true
}

// FilterByCategories returns every exercise whose correct answer is in
// categories, in catalog order.
func (c *Catalog) FilterByCategories(categories []Preposition) ([]Exercise, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories selected", ErrInvalidSelection)
	}
	allowed := make(map[Preposition]bool, len(categories))
	for _, p := range categories {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidSelection, p)
		}
		allowed[p] = true
	}

	var out []Exercise
	for _, e := range c.exercises {
		if allowed[e.CorrectAnswer] {
			out = append(out, e.clone())
		}
	}
	return out, nil
}

// clone copies e with its own Options slice.
func (e Exercise) clone() Exercise {
	e.Options = append([]Preposition(nil), e.Options...)
	return e
}

// RuleOrder returns rule categories in order of first appearance.
func (c *Catalog) RuleOrder() []string {
	out := make([]string, len(c.ruleOrder))
	copy(out, c.ruleOrder)
	return out
}

// RuleIndex returns the position of rule in RuleOrder, or -1.
func (c *Catalog) RuleIndex(rule string) int {
	for i, r := range c.ruleOrder {
		if r == rule {
			return i
		}
	}
	return -1
}
