package session

import (
	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/resultset"
)

// Feedback messages shown after a run that produced a verdict.
const (
	FeedbackCorrect   = "✅ Correct!"
	FeedbackIncorrect = "❌ Not quite. Try again!"
)

// Outcome classifies a run.
type Outcome string

const (
	Correct   Outcome = "correct"
	Incorrect Outcome = "incorrect"
	// ExecError means the engine rejected the submitted query. No verdict
	// is produced.
	ExecError Outcome = "error"
)

// ValidOutcomes lists every Outcome.
var ValidOutcomes = []Outcome{Correct, Incorrect, ExecError}

// Feedback returns the message displayed for o. Execution errors have
// none.
func (o Outcome) Feedback() string {
	switch o {
	case Correct:
		return FeedbackCorrect
	case Incorrect:
		return FeedbackIncorrect
	}
	return ""
}

// State is a snapshot of the session. Result is nil when no result is
// displayed.
type State struct {
	Tier          quiz.Tier              `json:"tier"`
	Question      int                    `json:"question"`
	Query         string                 `json:"query"`
	Result        *resultset.QueryResult `json:"result,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Feedback      string                 `json:"feedback,omitempty"`
	HintVisible   bool                   `json:"hint_visible"`
	AnswerVisible bool                   `json:"answer_visible"`
}

// Attempt records one Run.
type Attempt struct {
	ID       string                 `json:"id"`
	Seq      int64                  `json:"seq"`
	Tier     quiz.Tier              `json:"tier"`
	Question int                    `json:"question"`
	Query    string                 `json:"query"`
	Outcome  Outcome                `json:"outcome"`
	Result   *resultset.QueryResult `json:"result,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// clearSelection resets everything tied to the previous question.
func (s *State) clearSelection() {
	s.Query = ""
	s.Result = nil
	s.Error = ""
	s.Feedback = ""
	s.HintVisible = false
	s.AnswerVisible = false
}
