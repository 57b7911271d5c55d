package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// Preposition is one of the three answer tokens a sentence can take.
type Preposition string

const (
	At Preposition = "at"
	On Preposition = "on"
	In Preposition = "in"
)

// Blank is the placeholder a sentence carries where the preposition goes.
const Blank = "___"

var (
	ErrInvalidSelection = errors.New("invalid category selection")
	ErrInvalidAnswer    = errors.New("invalid answer")
)

// Prepositions returns the answer tokens in display order.
func Prepositions() []Preposition {
	return []Preposition{At, On, In}
}

func (p Preposition) Valid() bool {
	switch p {
	case At, On, In:
		return true
	}
	return false
}

func (p Preposition) String() string {
	return string(p)
}

// ParsePreposition normalizes user input such as " AT " into a Preposition.
func ParsePreposition(s string) (Preposition, error) {
	p := Preposition(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q is not one of at, on, in", ErrInvalidAnswer, s)
	}
	return p, nil
}

// ParseCategories parses a comma-separated filter like "at,on".
// Duplicates are dropped and the result keeps at/on/in order.
func ParseCategories(s string) ([]Preposition, error) {
	seen := make(map[Preposition]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePreposition(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		seen[p] = true
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no categories selected", ErrInvalidSelection)
	}

	out := make([]Preposition, 0, len(seen))
	for _, p := range Prepositions() {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Exercise is a single fill-in-the-blank sentence. It is never mutated
// after the catalog is built.
type Exercise struct {
	ID            int
	Sentence      string
	CorrectAnswer Preposition
	Options       []Preposition
	RuleCategory  string
}

// HasOption reports whether p is one of the offered answers.
func (e Exercise) HasOption(p Preposition) bool {
	for _, o := range e.Options {
		if o == p {
			return true
		}
	}
	return false
}

// Check reports whether p is the correct answer.
func (e Exercise) Check(p Preposition) bool {
	return p == e.CorrectAnswer
}

// Fill returns the sentence with the blank replaced by p.
func (e Exercise) Fill(p Preposition) string {
	return strings.Replace(e.Sentence, Blank, string(p), 1)
}

func (e Exercise) validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("exercise id must be positive, got %d", e.ID)
	}
	if strings.Count(e.Sentence, Blank) != 1 {
		return fmt.Errorf("exercise %d: sentence must contain exactly one blank", e.ID)
	}
	if e.RuleCategory == "" {
		return fmt.Errorf("exercise %d: rule category is required", e.ID)
	}
	if len(e.Options) != 3 {
		return fmt.Errorf("exercise %d: expected 3 options, got %d", e.ID, len(e.Options))
	}
	seen := make(map[Preposition]bool, len(e.Options))
	for _, o := range e.Options {
		if !o.Valid() || seen[o] {
			return fmt.Errorf("exercise %d: options must be at, on, in without repeats", e.ID)
		}
		seen[o] = true
	}
	if !e.HasOption(e.CorrectAnswer) {
		return fmt.Errorf("exercise %d: correct answer %q is not an option", e.ID, e.CorrectAnswer)
	}
	return nil
}
