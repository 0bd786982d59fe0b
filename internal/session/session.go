package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/sqlquest/internal/fixture"
	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/resultset"
	"github.com/roach88/sqlquest/internal/store"
	"github.com/roach88/sqlquest/internal/verify"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session is closed")

// Engine executes SQL text against the fixture dataset. A query the
// engine rejects must be reported as a *store.QueryError; any other error
// is treated as an internal failure.
type Engine interface {
	Query(ctx context.Context, query string) (resultset.QueryResult, error)
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Bank   *quiz.Bank  // default: quiz.Default()
	Mode   verify.Mode // default: verify.Positional
	Engine Engine      // default: a fresh in-memory store owned by the session
	Logger *slog.Logger
	IDs    IDGenerator // default: UUIDv7Generator
	Clock  Sequencer   // default: NewClock()
}

// Session is one learner's practice state.
type Session struct {
	mu       sync.Mutex
	bank     *quiz.Bank
	mode     verify.Mode
	engine   Engine
	owned    *store.Store
	logger   *slog.Logger
	ids      IDGenerator
	clock    Sequencer
	state    State
	attempts []Attempt
	closed   bool
}

// New constructs a session. Without an Engine it opens and loads a
// private store; New returns only once the fixture is loaded, so every
// later Run sees a ready engine.
func New(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{
		bank:   opts.Bank,
		mode:   opts.Mode,
		engine: opts.Engine,
		logger: opts.Logger,
		ids:    opts.IDs,
		clock:  opts.Clock,
	}
	if s.bank == nil {
		s.bank = quiz.Default()
	}
	if s.mode == "" {
		s.mode = verify.Positional
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.ids == nil {
		s.ids = UUIDv7Generator{}
	}
	if s.clock == nil {
		s.clock = NewClock()
	}

	tiers := s.bank.Tiers()
	if len(tiers) == 0 {
		return nil, fmt.Errorf("question bank has no tiers")
	}
	s.state.Tier = tiers[0]

	if s.engine == nil {
		st, err := store.Open(ctx, store.Options{Logger: s.logger})
		if err != nil {
			return nil, fmt.Errorf("start engine: %w", err)
		}
		s.owned = st
		s.engine = st
	}

	s.logger.Debug("session ready", "tier", s.state.Tier, "mode", s.mode)
	return s, nil
}

// Close releases the engine if the session owns it. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// Bank returns the question bank.
func (s *Session) Bank() *quiz.Bank {
	return s.bank
}

// Mode returns the verification mode.
func (s *Session) Mode() verify.Mode {
	return s.mode
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the selected question.
func (s *Session) Current() quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, _ := s.bank.Question(s.state.Tier, s.state.Question)
	return q
}

// Attempts returns the run history, oldest first.
func (s *Session) Attempts() []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Attempt(nil), s.attempts...)
}

// SelectTier switches to tier t at question 0 and clears the editor,
// result, error, feedback, and hint and answer visibility.
func (s *Session) SelectTier(t quiz.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.bank.Has(t) {
		return fmt.Errorf("%w %q", quiz.ErrUnknownTier, t)
	}
	s.state.Tier = t
	s.state.Question = 0
	s.state.clearSelection()
	return nil
}

// SelectQuestion switches to question index of the current tier, with the
// same clearing as SelectTier.
func (s *Session) SelectQuestion(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.bank.Question(s.state.Tier, index); err != nil {
		return err
	}
	s.state.Question = index
	s.state.clearSelection()
	return nil
}

// SetQuery replaces the editor text.
func (s *Session) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = text
}

// ToggleHint flips hint visibility and returns the new value.
func (s *Session) ToggleHint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HintVisible = !s.state.HintVisible
	return s.state.HintVisible
}

// ToggleAnswer flips reference solution visibility and returns the new
// value.
func (s *Session) ToggleAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AnswerVisible = !s.state.AnswerVisible
	return s.state.AnswerVisible
}

// Run checks the editor text against the selected question.
//
// An engine rejection is not an error: it is recorded as an ExecError
// attempt with the engine's message, the result is cleared, and the hint
// is revealed. A query that produces no result set is Incorrect. Otherwise
// the reference solution is executed and the two results are verified.
//
// A SELECT that matches no rows still has a result set: its columns. An
// empty answer to a question whose solution is also empty is therefore
// Correct. When the text holds several statements, the first result set
// is the one verified.
//
// The returned error is reserved for internal failures: a closed session,
// a canceled context, or a reference solution the engine rejects. In that
// case the state is left unchanged and no attempt is recorded.
func (s *Session) Run(ctx context.Context) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Attempt{}, ErrClosed
	}

	q, err := s.bank.Question(s.state.Tier, s.state.Question)
	if err != nil {
		return Attempt{}, err
	}

	attempt := Attempt{
		Tier:     s.state.Tier,
		Question: s.state.Question,
		Query:    s.state.Query,
	}

	next := s.state
	next.Error = ""
	next.HintVisible = false

	user, err := s.engine.Query(ctx, s.state.Query)
	var qerr *store.QueryError
	switch {
	case errors.As(err, &qerr):
		attempt.Outcome = ExecError
		attempt.Error = qerr.Error()
		next.Error = qerr.Error()
		next.Result = nil
		next.Feedback = ""
		next.HintVisible = true
	case err != nil:
		return Attempt{}, fmt.Errorf("run query: %w", err)
	case !user.HasResultSet():
		empty := resultset.Empty()
		attempt.Outcome = Incorrect
		attempt.Result = &empty
		next.Result = &empty
		next.Feedback = FeedbackIncorrect
		next.HintVisible = true
	default:
		reference, err := s.engine.Query(ctx, q.Solution)
		if err != nil {
			return Attempt{}, fmt.Errorf("run reference solution for %s[%d]: %w", attempt.Tier, attempt.Question, err)
		}
		if !reference.HasResultSet() {
			reference = resultset.Empty()
		}

		attempt.Outcome = Incorrect
		if s.mode.Verify(user, reference) {
			attempt.Outcome = Correct
		}
		attempt.Result = &user
		next.Result = &user
		next.Feedback = attempt.Outcome.Feedback()
		next.HintVisible = attempt.Outcome != Correct
	}

	attempt.ID = s.ids.Generate()
	attempt.Seq = s.clock.Next()
	s.state = next
	s.attempts = append(s.attempts, attempt)

	s.logger.Info("attempt recorded",
		"attempt_id", attempt.ID,
		"seq", attempt.Seq,
		"tier", attempt.Tier,
		"question", attempt.Question,
		"outcome", attempt.Outcome,
		"rows", rowCount(attempt.Result),
	)
	return attempt, nil
}

// Table returns a fixture table for display.
func (s *Session) Table(ctx context.Context, name string) (resultset.QueryResult, error) {
	query, err := fixture.SelectAll(name)
	if err != nil {
		return resultset.QueryResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return resultset.QueryResult{}, ErrClosed
	}
	return s.engine.Query(ctx, query)
}

func rowCount(r *resultset.QueryResult) int {
	if r == nil {
		return 0
	}
	return r.Len()
}
