package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
	"github.com/roach88/sqlquest/internal/verify"
)

// Scenario is a scripted practice session.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Verify overrides the verification mode. Empty keeps the caller's.
	Verify string `yaml:"verify,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one learner action.
type Step struct {
	Select *Selection `yaml:"select,omitempty"`

	// Submit is the query to write and run. A pointer so that an empty
	// query can be submitted.
	Submit *string `yaml:"submit,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`

	// Toggle is "hint" or "answer".
	Toggle string `yaml:"toggle,omitempty"`
}

// Selection picks a tier, and optionally a question within it.
type Selection struct {
	Tier     string `yaml:"tier,omitempty"`
	Question *int   `yaml:"question,omitempty"`
}

// Expect checks the attempt produced by a submit step. Unset fields are
// not checked.
type Expect struct {
	Outcome       string   `yaml:"outcome"`
	Rows          *int     `yaml:"rows,omitempty"`
	Columns       []string `yaml:"columns,omitempty"`
	ErrorContains string   `yaml:"error_contains,omitempty"`
}

// Assertion validates the run history or final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Count is used by attempt_count.
	Count int `yaml:"count,omitempty"`

	// Outcomes is used by outcome_sequence.
	Outcomes []string `yaml:"outcomes,omitempty"`

	// Expect is used by final_state.
	Expect *StateExpect `yaml:"expect,omitempty"`
}

// StateExpect lists final state fields to check. Unset fields are not
// checked.
type StateExpect struct {
	Tier          string  `yaml:"tier,omitempty"`
	Question      *int    `yaml:"question,omitempty"`
	Query         *string `yaml:"query,omitempty"`
	Feedback      *string `yaml:"feedback,omitempty"`
	Error         *string `yaml:"error,omitempty"`
	HintVisible   *bool   `yaml:"hint_visible,omitempty"`
	AnswerVisible *bool   `yaml:"answer_visible,omitempty"`
}

// Assertion type constants.
const (
	AssertAttemptCount    = "attempt_count"
	AssertOutcomeSequence = "outcome_sequence"
	AssertFinalState      = "final_state"
)

// Toggle targets.
const (
	ToggleHint   = "hint"
	ToggleAnswer = "answer"
)

// LoadScenario reads and parses a scenario file. Unknown fields are
// rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := verify.ParseMode(s.Verify); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	actions := 0
	if step.Select != nil {
		actions++
	}
	if step.Submit != nil {
		actions++
	}
	if step.Toggle != "" {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("exactly one of select, submit, or toggle is required")
	}

	if step.Expect != nil && step.Submit == nil {
		return fmt.Errorf("expect is only valid on a submit step")
	}

	switch {
	case step.Select != nil:
		if step.Select.Tier == "" && step.Select.Question == nil {
			return fmt.Errorf("select needs a tier or a question")
		}
		if step.Select.Tier != "" {
			if _, err := quiz.ParseTier(step.Select.Tier); err != nil {
				return err
			}
		}
	case step.Toggle != "":
		if step.Toggle != ToggleHint && step.Toggle != ToggleAnswer {
			return fmt.Errorf("invalid toggle %q: must be %q or %q", step.Toggle, ToggleHint, ToggleAnswer)
		}
	}

	if step.Expect != nil {
		return validateExpect(*step.Expect)
	}
	return nil
}

func validateExpect(e Expect) error {
	if e.Outcome == "" {
		return nil
	}
	if !validOutcome(e.Outcome) {
		return fmt.Errorf("invalid outcome %q: must be one of %v", e.Outcome, session.ValidOutcomes)
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertAttemptCount:
		if a.Count < 0 {
			return fmt.Errorf("attempt_count: count must not be negative")
		}
	case AssertOutcomeSequence:
		for _, o := range a.Outcomes {
			if !validOutcome(o) {
				return fmt.Errorf("outcome_sequence: invalid outcome %q", o)
			}
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("final_state: expect is required")
		}
		if a.Expect.Tier != "" {
			if _, err := quiz.ParseTier(a.Expect.Tier); err != nil {
				return fmt.Errorf("final_state: %w", err)
			}
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func validOutcome(s string) bool {
	for _, o := range session.ValidOutcomes {
		if string(o) == s {
			return true
		}
	}
	return false
}
