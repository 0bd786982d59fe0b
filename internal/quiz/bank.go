package quiz

import (
	"errors"
	"fmt"
)

// Tier names a difficulty bucket.
type Tier string

const (
	Easy      Tier = "easy"
	Medium    Tier = "medium"
	Hard      Tier = "hard"
	SuperHard Tier = "superhard"
)

// AllTiers lists every known tier in difficulty order.
var AllTiers = []Tier{Easy, Medium, Hard, SuperHard}

// ParseTier converts a flag or scenario value into a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range AllTiers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q: must be one of %v", ErrUnknownTier, s, AllTiers)
}

var (
	// ErrUnknownTier is returned for a tier the bank does not contain.
	ErrUnknownTier = errors.New("unknown tier")
	// ErrQuestionOutOfRange is returned for an index outside a tier.
	ErrQuestionOutOfRange = errors.New("question index out of range")
)

// Question is an immutable practice question.
type Question struct {
	Prompt   string `json:"prompt" yaml:"prompt"`
	Summary  string `json:"summary" yaml:"summary"`
	Solution string `json:"solution" yaml:"solution"`
	Hint     string `json:"hint" yaml:"hint"`
}

// Bank is a read-only catalog of questions grouped by tier.
// The zero value is an empty bank.
type Bank struct {
	tiers     []Tier
	labels    map[Tier]string
	questions map[Tier][]Question
}

// Tiers returns the bank's tiers in order.
func (b *Bank) Tiers() []Tier {
	return append([]Tier(nil), b.tiers...)
}

// Has reports whether the bank contains tier t.
func (b *Bank) Has(t Tier) bool {
	_, ok := b.questions[t]
	return ok
}

// Label returns the display name of tier t, e.g. "Super Hard".
func (b *Bank) Label(t Tier) string {
	if l, ok := b.labels[t]; ok {
		return l
	}
	return string(t)
}

// TierSize returns the number of questions in tier t, or 0 if the bank has
// no such tier.
func (b *Bank) TierSize(t Tier) int {
	return len(b.questions[t])
}

// Question returns question index of tier t.
func (b *Bank) Question(t Tier, index int) (Question, error) {
	qs, ok := b.questions[t]
	if !ok {
		return Question{}, fmt.Errorf("%w %q", ErrUnknownTier, t)
	}
	if index < 0 || index >= len(qs) {
		return Question{}, fmt.Errorf("%w: %s has %d questions, got index %d", ErrQuestionOutOfRange, t, len(qs), index)
	}
	return qs[index], nil
}

// Questions returns a copy of tier t's questions.
func (b *Bank) Questions(t Tier) []Question {
	return append([]Question(nil), b.questions[t]...)
}

// Len returns the total number of questions across all tiers.
func (b *Bank) Len() int {
	n := 0
	for _, qs := range b.questions {
		n += len(qs)
	}
	return n
}
