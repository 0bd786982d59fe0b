package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlquest/internal/session"
)

// AssertionError is returned when an assertion fails. It carries the run
// history so the failure can be read without rerunning the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Attempts []session.Attempt
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Attempts) > 0 {
		fmt.Fprintf(&buf, "\nAttempts:\n")
		for _, a := range e.Attempts {
			fmt.Fprintf(&buf, "  [%d] %s[%d] %s: %s\n", a.Seq, a.Tier, a.Question, a.Outcome, oneLine(a.Query))
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns one
// message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertAttemptCount:
		return assertAttemptCount(result.Attempts, a)
	case AssertOutcomeSequence:
		return assertOutcomeSequence(result.Attempts, a)
	case AssertFinalState:
		return assertFinalState(result.Final, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertAttemptCount(attempts []session.Attempt, a Assertion) error {
	if len(attempts) != a.Count {
		return &AssertionError{
			Type:     AssertAttemptCount,
			Expected: fmt.Sprintf("%d attempts", a.Count),
			Actual:   fmt.Sprintf("%d attempts", len(attempts)),
			Attempts: attempts,
		}
	}
	return nil
}

func assertOutcomeSequence(attempts []session.Attempt, a Assertion) error {
	got := make([]string, len(attempts))
	for i, at := range attempts {
		got[i] = string(at.Outcome)
	}

	match := len(got) == len(a.Outcomes)
	for i := 0; match && i < len(got); i++ {
		match = got[i] == a.Outcomes[i]
	}
	if !match {
		return &AssertionError{
			Type:     AssertOutcomeSequence,
			Expected: fmt.Sprintf("%v", a.Outcomes),
			Actual:   fmt.Sprintf("%v", got),
			Attempts: attempts,
		}
	}
	return nil
}

// assertFinalState checks only the fields the assertion sets.
func assertFinalState(st session.State, a Assertion) error {
	if a.Expect == nil {
		return fmt.Errorf("final_state assertion requires expect")
	}
	e := a.Expect

	mismatch := func(field string, want, got any) error {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", field, want),
			Actual:   fmt.Sprintf("%s = %v", field, got),
		}
	}

	if e.Tier != "" && string(st.Tier) != e.Tier {
		return mismatch("tier", e.Tier, st.Tier)
	}
	if e.Question != nil && st.Question != *e.Question {
		return mismatch("question", *e.Question, st.Question)
	}
	if e.Query != nil && st.Query != *e.Query {
		return mismatch("query", fmt.Sprintf("%q", *e.Query), fmt.Sprintf("%q", st.Query))
	}
	if e.Feedback != nil && st.Feedback != *e.Feedback {
		return mismatch("feedback", fmt.Sprintf("%q", *e.Feedback), fmt.Sprintf("%q", st.Feedback))
	}
	if e.Error != nil && !strings.Contains(st.Error, *e.Error) {
		return mismatch("error", fmt.Sprintf("containing %q", *e.Error), fmt.Sprintf("%q", st.Error))
	}
	if e.HintVisible != nil && st.HintVisible != *e.HintVisible {
		return mismatch("hint_visible", *e.HintVisible, st.HintVisible)
	}
	if e.AnswerVisible != nil && st.AnswerVisible != *e.AnswerVisible {
		return mismatch("answer_visible", *e.AnswerVisible, st.AnswerVisible)
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
