package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
)

func ptr[T any](v T) *T { return &v }

func sampleResult() *Result {
	r := NewResult()
	r.Attempts = []session.Attempt{
		{ID: "attempt-1", Seq: 1, Tier: quiz.Easy, Query: "SELEC", Outcome: session.ExecError, Error: "syntax error"},
		{ID: "attempt-2", Seq: 2, Tier: quiz.Easy, Query: "SELECT name\nFROM stations", Outcome: session.Correct},
	}
	r.Final = session.State{
		Tier:        quiz.Easy,
		Question:    0,
		Query:       "SELECT name\nFROM stations",
		Feedback:    session.FeedbackCorrect,
		HintVisible: true,
	}
	return r
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertAttemptCount, Count: 2},
		{Type: AssertOutcomeSequence, Outcomes: []string{"error", "correct"}},
		{Type: AssertFinalState, Expect: &StateExpect{
			Tier:          "easy",
			Question:      ptr(0),
			Feedback:      ptr(session.FeedbackCorrect),
			HintVisible:   ptr(true),
			AnswerVisible: ptr(false),
		}},
	})
	assert.Empty(t, errs)
}

func TestAssertAttemptCount_Mismatch(t *testing.T) {
	err := assertAttemptCount(sampleResult().Attempts, Assertion{Type: AssertAttemptCount, Count: 3})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "3 attempts", ae.Expected)
	assert.Equal(t, "2 attempts", ae.Actual)
	assert.Contains(t, err.Error(), "[2] easy[0] correct: SELECT name FROM stations")
}

func TestAssertOutcomeSequence_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []string
	}{
		{"wrong order", []string{"correct", "error"}},
		{"too short", []string{"error"}},
		{"too long", []string{"error", "correct", "correct"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertOutcomeSequence(sampleResult().Attempts, Assertion{Outcomes: tt.outcomes})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Actual: [error correct]")
		})
	}
}

func TestAssertFinalState_Mismatches(t *testing.T) {
	tests := []struct {
		name   string
		expect StateExpect
		want   string
	}{
		{"tier", StateExpect{Tier: "hard"}, "tier = easy"},
		{"question", StateExpect{Question: ptr(4)}, "question = 0"},
		{"query", StateExpect{Query: ptr("")}, `query = "SELECT name\nFROM stations"`},
		{"feedback", StateExpect{Feedback: ptr(session.FeedbackIncorrect)}, "feedback"},
		{"error", StateExpect{Error: ptr("no such table")}, `error = ""`},
		{"hint", StateExpect{HintVisible: ptr(false)}, "hint_visible = true"},
		{"answer", StateExpect{AnswerVisible: ptr(true)}, "answer_visible = false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := tt.expect
			err := assertFinalState(sampleResult().Final, Assertion{Type: AssertFinalState, Expect: &expect})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAssertFinalState_ErrorSubstring(t *testing.T) {
	st := session.State{Error: `near "SELEC": syntax error`}
	err := assertFinalState(st, Assertion{Expect: &StateExpect{Error: ptr("syntax error")}})
	assert.NoError(t, err)
}

func TestEvaluateAssertions_PrefixesIndex(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertAttemptCount, Count: 2},
		{Type: AssertAttemptCount, Count: 0},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "assertion 1: Assertion failed: attempt_count")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("nope")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"nope"}, r.Errors)
}
