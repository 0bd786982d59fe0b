package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/tui"
)

// PracticeOptions holds flags for the practice command.
type PracticeOptions struct {
	*RootOptions
	Tier     string
	Question int
	Sample   bool
	LogFile  string
}

// NewPracticeCommand creates the interactive practice command.
func NewPracticeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PracticeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practice interactively in the terminal",
		Long: `Open the interactive practice screen.

Keys:
  ctrl+r  run the query          ctrl+t  next tier
  ctrl+n  next question          ctrl+p  previous question
  ctrl+g  toggle hint            ctrl+o  toggle answer
  ctrl+d  browse the data        ctrl+c  quit

The terminal owns stdout and stderr while the screen is open, so logs are
discarded unless --log-file is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPractice(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tier, "tier", "easy", "starting tier")
	cmd.Flags().IntVar(&opts.Question, "question", 0, "starting question index, from 0")
	cmd.Flags().BoolVar(&opts.Sample, "sample", false, "prefill the editor with the reference solution")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "append logs to this file")

	return cmd
}

func runPractice(opts *PracticeOptions, cmd *cobra.Command) error {
	logger := slog.New(slog.DiscardHandler)
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: opts.level()}))
	}

	ctx := cmd.Context()
	sess, err := opts.openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := selectQuestion(sess, opts.Tier, opts.Question); err != nil {
		return err
	}
	if opts.Sample {
		sess.SetQuery(sess.Current().Solution)
	}

	logger.Info("practice started", "tier", opts.Tier, "question", opts.Question)
	if err := tui.Run(ctx, sess, tui.Options{NoColor: opts.Config.NoColor}); err != nil {
		return WrapExitError(ExitFailure, "practice screen failed", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d %s run\n", len(sess.Attempts()), plural(len(sess.Attempts()), "query", "queries"))
	return nil
}
