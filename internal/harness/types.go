package harness

import "github.com/roach88/sqlquest/internal/session"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Attempts is the session's run history, in order.
	Attempts []session.Attempt `json:"attempts"`

	// Final is the session state after the last step.
	Final session.State `json:"final"`

	// Errors holds one message per failed check. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Attempts: []session.Attempt{},
		Errors:   []string{},
	}
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcomes returns the outcome of every attempt, in order.
func (r *Result) Outcomes() []session.Outcome {
	out := make([]session.Outcome, len(r.Attempts))
	for i, a := range r.Attempts {
		out[i] = a.Outcome
	}
	return out
}
