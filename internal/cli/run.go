package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/session"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Tier     string
	Question int
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Attempt  session.Attempt `json:"attempt"`
	Feedback string          `json:"feedback,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [query|-]",
		Short: "Check one query against a question",
		Long: `Run a query against the fixture dataset and check it against the
selected question's reference solution.

The query is read from the argument, or from stdin when the argument is
"-" or missing. The fixture is never modified: every query runs in a
transaction that is rolled back.

Exit codes:
  0 - Correct
  1 - Incorrect, or the engine rejected the query
  2 - Command error (bad flags, unreadable bank, etc.)

Examples:
  sqlquest run --tier easy --question 0 'SELECT name FROM stations WHERE borough = "Manhattan"'
  echo 'SELECT COUNT(*) FROM stations' | sqlquest run --tier easy --question 3 -
  sqlquest run --tier hard --question 2 --format json < answer.sql`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tier, "tier", "easy", "question tier (easy|medium|hard|superhard)")
	cmd.Flags().IntVar(&opts.Question, "question", 0, "question index within the tier, from 0")

	return cmd
}

func runQuery(opts *RunOptions, args []string, cmd *cobra.Command) error {
	query, err := readQuery(args, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read query", err)
	}

	ctx := cmd.Context()
	sess, err := opts.openSession(ctx, opts.logger())
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := selectQuestion(sess, opts.Tier, opts.Question); err != nil {
		return err
	}

	sess.SetQuery(query)
	attempt, err := sess.Run(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		if err := f.Respond(RunResult{Attempt: attempt, Feedback: attempt.Outcome.Feedback()}, runError(attempt)); err != nil {
			return err
		}
	} else {
		printAttempt(cmd.OutOrStdout(), attempt, opts.Config.NoColor)
	}

	switch attempt.Outcome {
	case session.Correct:
		return nil
	case session.ExecError:
		return NewExitError(ExitFailure, "query failed")
	default:
		return NewExitError(ExitFailure, "incorrect answer")
	}
}

// readQuery takes the query from args, or from stdin for "-" or no args.
func readQuery(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runError(a session.Attempt) *CLIError {
	switch a.Outcome {
	case session.ExecError:
		return &CLIError{Code: CodeQueryError, Message: a.Error}
	case session.Incorrect:
		return &CLIError{Code: CodeIncorrect, Message: session.FeedbackIncorrect}
	}
	return nil
}

func printAttempt(w io.Writer, a session.Attempt, noColor bool) {
	if a.Outcome == session.ExecError {
		fmt.Fprintf(w, "Error: %s\n", a.Error)
		return
	}
	if a.Result != nil {
		renderResult(w, *a.Result, noColor)
	}
	fmt.Fprintln(w, a.Outcome.Feedback())
}
