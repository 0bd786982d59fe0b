package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/resultset"
	"github.com/roach88/sqlquest/internal/scalar"
	"github.com/roach88/sqlquest/internal/store"
	"github.com/roach88/sqlquest/internal/testutil"
	"github.com/roach88/sqlquest/internal/verify"
)

const manhattan = `SELECT name FROM stations WHERE borough = "Manhattan";`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.IDs == nil {
		opts.IDs = testutil.NewSequenceIDs("")
	}
	if opts.Clock == nil {
		opts.Clock = NewClock()
	}
	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_InitialState(t *testing.T) {
	s := newSession(t, Options{})

	st := s.State()
	assert.Equal(t, quiz.Easy, st.Tier)
	assert.Equal(t, 0, st.Question)
	assert.Empty(t, st.Query)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Feedback)
	assert.False(t, st.HintVisible)
	assert.False(t, st.AnswerVisible)
	assert.Equal(t, verify.Positional, s.Mode())
	assert.Empty(t, s.Attempts())

	assert.Contains(t, s.Current().Prompt, "Manhattan")
}

func TestRun_Correct(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery(manhattan)

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Correct, attempt.Outcome)
	assert.Equal(t, "attempt-1", attempt.ID)
	assert.Equal(t, int64(1), attempt.Seq)
	require.NotNil(t, attempt.Result)
	assert.Equal(t, 7, attempt.Result.Len())

	st := s.State()
	assert.Equal(t, FeedbackCorrect, st.Feedback)
	assert.False(t, st.HintVisible)
	assert.Empty(t, st.Error)
	require.NotNil(t, st.Result)
	assert.Equal(t, []string{"name"}, st.Result.Columns)
}

func TestRun_CorrectHidesShownHint(t *testing.T) {
	s := newSession(t, Options{})
	assert.True(t, s.ToggleHint())
	s.SetQuery(manhattan)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, s.State().HintVisible)
}

func TestRun_Incorrect(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery("SELECT name FROM stations;")

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Incorrect, attempt.Outcome)
	st := s.State()
	assert.Equal(t, FeedbackIncorrect, st.Feedback)
	assert.True(t, st.HintVisible)
	require.NotNil(t, st.Result)
	assert.Equal(t, 20, st.Result.Len())
}

func TestRun_ExecutionError(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery(manhattan)
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	s.SetQuery("SELEC name FROM stations")
	attempt, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ExecError, attempt.Outcome)
	assert.Contains(t, attempt.Error, "syntax error")
	assert.Nil(t, attempt.Result)

	st := s.State()
	assert.Equal(t, attempt.Error, st.Error)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Feedback)
	assert.True(t, st.HintVisible)
}

func TestRun_UnknownTableIsExecutionError(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery("SELECT * FROM riders")

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExecError, attempt.Outcome)
	assert.Contains(t, attempt.Error, "no such table")
}

func TestRun_NoResultSet(t *testing.T) {
	s := newSession(t, Options{})

	for _, q := range []string{"", "   ", "-- just a comment", "DELETE FROM stations"} {
		s.SetQuery(q)
		attempt, err := s.Run(context.Background())
		require.NoError(t, err, q)
		assert.Equal(t, Incorrect, attempt.Outcome, q)

		st := s.State()
		require.NotNil(t, st.Result, q)
		assert.Equal(t, 0, st.Result.Len(), q)
		assert.Empty(t, st.Result.Columns, q)
		assert.Equal(t, FeedbackIncorrect, st.Feedback, q)
		assert.True(t, st.HintVisible, q)
	}

	// The DELETE above must not have touched the fixture.
	s.SetQuery(manhattan)
	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, attempt.Outcome)
}

func TestRun_ZeroRowsAgainstNonEmptyReference(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery(`SELECT name FROM stations WHERE borough = "Atlantis"`)

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Incorrect, attempt.Outcome)
}

func TestRun_UnorderedMode(t *testing.T) {
	reversed := `SELECT name FROM stations WHERE borough = "Manhattan" ORDER BY id DESC`

	positional := newSession(t, Options{})
	positional.SetQuery(reversed)
	attempt, err := positional.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Incorrect, attempt.Outcome)

	unordered := newSession(t, Options{Mode: verify.Unordered})
	unordered.SetQuery(reversed)
	attempt, err = unordered.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, attempt.Outcome)
}

func customBank(t *testing.T, solution string) *quiz.Bank {
	t.Helper()
	b, err := quiz.ParseYAML([]byte("tiers:\n  - name: easy\n    label: Easy\n    questions:\n      - prompt: p\n        summary: s\n        solution: \"" + solution + "\"\n        hint: h\n      - prompt: p2\n        summary: s2\n        solution: SELECT 1 AS one\n        hint: h2\n"))
	require.NoError(t, err)
	return b
}

func TestRun_LooseEquality(t *testing.T) {
	s := newSession(t, Options{Bank: customBank(t, "SELECT COUNT(*) AS n FROM stations WHERE borough = 'Manhattan'")})
	s.SetQuery("SELECT '7' AS n")

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, attempt.Outcome)
}

func TestRun_ReferenceWithoutResultSet(t *testing.T) {
	s := newSession(t, Options{Bank: customBank(t, "DELETE FROM transactions")})
	s.SetQuery("SELECT name FROM stations WHERE 0")

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, attempt.Outcome)
}

func TestRun_ReferenceFailureIsInternal(t *testing.T) {
	s := newSession(t, Options{Bank: customBank(t, "SELECT nope FROM nowhere")})
	s.SetQuery("SELECT 1")

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference solution")
	assert.Empty(t, s.Attempts())
	assert.Nil(t, s.State().Result)
}

type failingEngine struct{ err error }

func (e failingEngine) Query(context.Context, string) (resultset.QueryResult, error) {
	return resultset.QueryResult{}, e.err
}

func TestRun_EngineFailureIsInternal(t *testing.T) {
	boom := errors.New("disk on fire")
	s := newSession(t, Options{Engine: failingEngine{err: boom}})
	s.SetQuery(manhattan)

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Attempts())
}

func TestRun_CustomEngineQueryError(t *testing.T) {
	s := newSession(t, Options{Engine: failingEngine{err: &store.QueryError{Query: "x", Err: errors.New("near \"x\": syntax error")}}})

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExecError, attempt.Outcome)
	assert.Equal(t, `near "x": syntax error`, attempt.Error)
}

type fixedEngine struct{ result resultset.QueryResult }

func (e fixedEngine) Query(context.Context, string) (resultset.QueryResult, error) {
	return e.result, nil
}

func TestRun_BothEmpty(t *testing.T) {
	r, err := resultset.Zip([]string{"n"}, nil)
	require.NoError(t, err)
	s := newSession(t, Options{Engine: fixedEngine{result: r}})

	attempt, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, attempt.Outcome)
}

func TestRun_CanceledContext(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery(manhattan)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Attempts())
}

func TestSelectTier_Resets(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery("SELECT 1")
	s.ToggleHint()
	s.ToggleAnswer()
	require.NoError(t, s.SelectQuestion(3))
	s.SetQuery("SELEC")
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.SelectTier(quiz.Hard))

	st := s.State()
	assert.Equal(t, quiz.Hard, st.Tier)
	assert.Equal(t, 0, st.Question)
	assert.Empty(t, st.Query)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Feedback)
	assert.False(t, st.HintVisible)
	assert.False(t, st.AnswerVisible)
}

func TestSelectTier_Unknown(t *testing.T) {
	s := newSession(t, Options{})
	s.SetQuery("keep me")

	err := s.SelectTier("legendary")
	assert.ErrorIs(t, err, quiz.ErrUnknownTier)
	assert.Equal(t, "keep me", s.State().Query)
}

func TestSelectQuestion(t *testing.T) {
	s := newSession(t, Options{})
	require.NoError(t, s.SelectTier(quiz.Medium))
	s.SetQuery("SELECT 1")
	s.ToggleAnswer()

	require.NoError(t, s.SelectQuestion(9))
	st := s.State()
	assert.Equal(t, quiz.Medium, st.Tier)
	assert.Equal(t, 9, st.Question)
	assert.Empty(t, st.Query)
	assert.False(t, st.AnswerVisible)

	err := s.SelectQuestion(10)
	assert.ErrorIs(t, err, quiz.ErrQuestionOutOfRange)
	assert.Equal(t, 9, s.State().Question)
}

func TestToggles(t *testing.T) {
	s := newSession(t, Options{})

	assert.True(t, s.ToggleHint())
	assert.False(t, s.ToggleHint())
	assert.True(t, s.ToggleAnswer())
	assert.True(t, s.State().AnswerVisible)
	assert.False(t, s.ToggleAnswer())
}

func TestRun_AnswerVisibilitySurvivesRun(t *testing.T) {
	s := newSession(t, Options{})
	s.ToggleAnswer()
	s.SetQuery("SELECT 1")

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, s.State().AnswerVisible)
}

func TestAttempts_History(t *testing.T) {
	s := newSession(t, Options{})
	for _, q := range []string{"SELEC", "SELECT name FROM stations", manhattan} {
		s.SetQuery(q)
		_, err := s.Run(context.Background())
		require.NoError(t, err)
	}

	attempts := s.Attempts()
	require.Len(t, attempts, 3)
	assert.Equal(t, []Outcome{ExecError, Incorrect, Correct},
		[]Outcome{attempts[0].Outcome, attempts[1].Outcome, attempts[2].Outcome})
	for i, a := range attempts {
		assert.Equal(t, int64(i+1), a.Seq)
		assert.Equal(t, quiz.Easy, a.Tier)
	}
	assert.Equal(t, "attempt-3", attempts[2].ID)

	attempts[0].Query = "changed"
	assert.Equal(t, "SELEC", s.Attempts()[0].Query)
}

func TestTable(t *testing.T) {
	s := newSession(t, Options{})

	stations, err := s.Table(context.Background(), "stations")
	require.NoError(t, err)
	assert.Equal(t, 20, stations.Len())
	assert.Equal(t, scalar.Integer(1), stations.Rows[0]["id"])

	txs, err := s.Table(context.Background(), "transactions")
	require.NoError(t, err)
	assert.Equal(t, 60, txs.Len())

	_, err = s.Table(context.Background(), "riders")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	s, err := New(context.Background(), Options{Logger: discardLogger()})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.SelectTier(quiz.Easy), ErrClosed)
	assert.ErrorIs(t, s.SelectQuestion(0), ErrClosed)
	_, err = s.Table(context.Background(), "stations")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNew_EmptyBank(t *testing.T) {
	_, err := New(context.Background(), Options{Bank: &quiz.Bank{}, Logger: discardLogger()})
	assert.Error(t, err)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14])
}

func TestEveryReferenceSolutionIsCorrect(t *testing.T) {
	bank := quiz.Default()
	s := newSession(t, Options{Bank: bank})

	for _, tier := range bank.Tiers() {
		for i, q := range bank.Questions(tier) {
			t.Run(fmt.Sprintf("%s/%d", tier, i), func(t *testing.T) {
				require.NoError(t, s.SelectTier(tier))
				require.NoError(t, s.SelectQuestion(i))
				s.SetQuery(q.Solution)

				a, err := s.Run(context.Background())
				require.NoError(t, err)
				assert.Equal(t, Correct, a.Outcome, a.Error)
				assert.Empty(t, a.Error)
				require.NotNil(t, a.Result)
				assert.True(t, a.Result.HasResultSet())
			})
		}
	}
	assert.Len(t, s.Attempts(), bank.Len())
}

func TestRun_EmptyResultMatchesEmptySolution(t *testing.T) {
	s := newSession(t, Options{Bank: customBank(t, "SELECT name FROM stations WHERE borough = 'Staten Island'")})

	s.SetQuery(`SELECT name FROM stations WHERE id > 100`)
	a, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, a.Outcome)
	assert.Equal(t, 0, a.Result.Len())
}

func TestRun_FirstResultSetIsVerified(t *testing.T) {
	s := newSession(t, Options{})

	s.SetQuery(manhattan + " SELECT 1 AS x;")
	a, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Correct, a.Outcome)

	s.SetQuery("SELECT 1 AS x; " + manhattan)
	a, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Incorrect, a.Outcome)
}

func TestRun_TrailingCommentAfterSemicolon(t *testing.T) {
	s := newSession(t, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.SetQuery(manhattan + " -- done")
	a, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Correct, a.Outcome)
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClock_Concurrent(t *testing.T) {
	c := NewClock()
	const workers, perWorker = 50, 100

	var wg sync.WaitGroup
	seen := make(chan int64, workers*perWorker)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				seen <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	values := make(map[int64]bool, workers*perWorker)
	for v := range seen {
		require.False(t, values[v], "duplicate value %d", v)
		values[v] = true
	}
	assert.Len(t, values, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), c.Current())
}

func TestOutcome_Feedback(t *testing.T) {
	assert.Equal(t, FeedbackCorrect, Correct.Feedback())
	assert.Equal(t, FeedbackIncorrect, Incorrect.Feedback())
	assert.Empty(t, ExecError.Feedback())
}
