package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
	"github.com/roach88/sqlquest/internal/testutil"
	"github.com/roach88/sqlquest/internal/verify"
)

// Options configures a harness run. Zero values select the defaults.
type Options struct {
	Bank   *quiz.Bank  // default: quiz.Default()
	Mode   verify.Mode // default: positional; a scenario's verify field wins
	Logger *slog.Logger
}

// Harness drives one session through a scenario's steps.
type Harness struct {
	sess   *session.Session
	logger *slog.Logger
}

// Run executes a scenario in a fresh session and evaluates its checks.
//
// A failed expect clause or assertion is recorded in the Result. The
// returned error is reserved for a scenario that cannot be executed: an
// engine that fails to start, a selection the bank rejects, or an internal
// run failure.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mode := opts.Mode
	if scenario.Verify != "" {
		m, err := verify.ParseMode(scenario.Verify)
		if err != nil {
			return nil, err
		}
		mode = m
	}

	sess, err := session.New(ctx, session.Options{
		Bank:   opts.Bank,
		Mode:   mode,
		Logger: logger,
		IDs:    testutil.NewSequenceIDs(""),
		Clock:  session.NewClock(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.Close()

	h := &Harness{sess: sess, logger: logger}
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	result.Attempts = sess.Attempts()
	result.Final = sess.State()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	switch {
	case step.Select != nil:
		return h.executeSelect(*step.Select)

	case step.Toggle != "":
		if step.Toggle == ToggleHint {
			h.sess.ToggleHint()
		} else {
			h.sess.ToggleAnswer()
		}
		return nil

	case step.Submit != nil:
		h.sess.SetQuery(*step.Submit)
		attempt, err := h.sess.Run(ctx)
		if err != nil {
			return err
		}
		h.logger.Debug("step submitted", "step", index, "outcome", attempt.Outcome)
		if step.Expect != nil {
			for _, msg := range checkExpect(*step.Expect, attempt) {
				result.AddError(fmt.Sprintf("step %d: %s", index, msg))
			}
		}
		return nil
	}
	return fmt.Errorf("step has no action")
}

func (h *Harness) executeSelect(sel Selection) error {
	if sel.Tier != "" {
		tier, err := quiz.ParseTier(sel.Tier)
		if err != nil {
			return err
		}
		if err := h.sess.SelectTier(tier); err != nil {
			return err
		}
	}
	if sel.Question != nil {
		return h.sess.SelectQuestion(*sel.Question)
	}
	return nil
}

// checkExpect compares an attempt with a submit step's expect clause.
func checkExpect(e Expect, a session.Attempt) []string {
	var errs []string

	if e.Outcome != "" && string(a.Outcome) != e.Outcome {
		detail := ""
		if a.Error != "" {
			detail = fmt.Sprintf(" (error: %s)", a.Error)
		}
		errs = append(errs, fmt.Sprintf("expected outcome %s, got %s%s", e.Outcome, a.Outcome, detail))
	}

	if e.Rows != nil {
		got := 0
		if a.Result != nil {
			got = a.Result.Len()
		}
		if got != *e.Rows {
			errs = append(errs, fmt.Sprintf("expected %d rows, got %d", *e.Rows, got))
		}
	}

	if e.Columns != nil {
		var got []string
		if a.Result != nil {
			got = a.Result.Columns
		}
		if !slices.Equal(got, e.Columns) {
			errs = append(errs, fmt.Sprintf("expected columns %v, got %v", e.Columns, got))
		}
	}

	if e.ErrorContains != "" && !strings.Contains(a.Error, e.ErrorContains) {
		errs = append(errs, fmt.Sprintf("expected error containing %q, got %q", e.ErrorContains, a.Error))
	}

	return errs
}
