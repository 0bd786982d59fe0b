package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
	"github.com/roach88/sqlquest/internal/verify"
)

func mustParse(t *testing.T, yml string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(yml))
	require.NoError(t, err)
	return scenario
}

func TestRun_Passing(t *testing.T) {
	scenario := mustParse(t, `
name: pass
steps:
  - submit: 'SELECT name FROM stations WHERE borough = "Manhattan"'
    expect: {outcome: correct, rows: 7, columns: [name]}
assertions:
  - {type: attempt_count, count: 1}
  - {type: outcome_sequence, outcomes: [correct]}
`)

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Attempts, 1)
	assert.Equal(t, "attempt-1", result.Attempts[0].ID)
	assert.Equal(t, session.FeedbackCorrect, result.Final.Feedback)
}

func TestRun_ExpectMismatches(t *testing.T) {
	scenario := mustParse(t, `
name: mismatch
steps:
  - submit: SELECT name, borough FROM stations
    expect: {outcome: correct, rows: 3, columns: [name], error_contains: boom}
`)

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, "step 0: expected outcome correct, got incorrect", result.Errors[0])
	assert.Equal(t, "step 0: expected 3 rows, got 20", result.Errors[1])
	assert.Contains(t, result.Errors[2], "expected columns [name], got [name borough]")
	assert.Contains(t, result.Errors[3], `expected error containing "boom"`)
}

func TestRun_ErrorOutcomeReportsMessage(t *testing.T) {
	scenario := mustParse(t, `
name: typo
steps:
  - submit: SELECT * FROM nowhere
    expect: {outcome: correct}
`)

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "got error (error: no such table: nowhere)")
}

func TestRun_SelectionAcrossTiers(t *testing.T) {
	scenario := mustParse(t, `
name: tiers
steps:
  - select: {tier: superhard, question: 9}
  - toggle: answer
  - toggle: hint
  - toggle: hint
assertions:
  - {type: attempt_count, count: 0}
  - type: final_state
    expect: {tier: superhard, question: 9, answer_visible: true, hint_visible: false}
`)

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SelectionOutOfRangeFails(t *testing.T) {
	scenario := mustParse(t, `
name: out-of-range
steps:
  - select: {tier: easy, question: 42}
`)

	_, err := Run(context.Background(), scenario, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, quiz.ErrQuestionOutOfRange)
	assert.True(t, strings.HasPrefix(err.Error(), "step 0:"))
}

func TestRun_ModeFromOptionsAndScenario(t *testing.T) {
	yml := `
name: reversed
steps:
  - submit: 'SELECT name FROM stations WHERE borough = "Manhattan" ORDER BY id DESC'
`
	result, err := Run(context.Background(), mustParse(t, yml), Options{})
	require.NoError(t, err)
	assert.Equal(t, []session.Outcome{session.Incorrect}, result.Outcomes())

	result, err = Run(context.Background(), mustParse(t, yml), Options{Mode: verify.Unordered})
	require.NoError(t, err)
	assert.Equal(t, []session.Outcome{session.Correct}, result.Outcomes())

	result, err = Run(context.Background(), mustParse(t, yml+"verify: positional\n"), Options{Mode: verify.Unordered})
	require.NoError(t, err)
	assert.Equal(t, []session.Outcome{session.Incorrect}, result.Outcomes())
}

func TestRun_CustomBank(t *testing.T) {
	bank, err := quiz.ParseYAML([]byte(`
tiers:
  - name: hard
    label: Hard
    questions:
      - prompt: Top revenue?
        summary: Max revenue
        solution: SELECT MAX(revenue) AS top FROM transactions
        hint: Use MAX.
`))
	require.NoError(t, err)

	scenario := mustParse(t, `
name: custom
steps:
  - submit: SELECT 16800 AS top
    expect: {outcome: correct, rows: 1}
assertions:
  - type: final_state
    expect: {tier: hard, question: 0}
`)

	result, err := Run(context.Background(), scenario, Options{Bank: bank})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_IsolatedSessions(t *testing.T) {
	scenario := mustParse(t, `
name: isolated
steps:
  - submit: SELECT 1
`)

	first, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	second, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Attempts, second.Attempts)
	assert.Equal(t, "attempt-1", second.Attempts[0].ID)
	assert.Equal(t, int64(1), second.Attempts[0].Seq)
}
