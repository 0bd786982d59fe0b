package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/quiz"
)

// QuestionsOptions holds flags for the questions command.
type QuestionsOptions struct {
	*RootOptions
	Tier string
}

// QuestionEntry is one line of the question listing.
type QuestionEntry struct {
	Tier    quiz.Tier `json:"tier"`
	Index   int       `json:"index"`
	Summary string    `json:"summary"`
	Prompt  string    `json:"prompt"`
}

// NewQuestionsCommand creates the questions command.
func NewQuestionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuestionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the question bank",
		Long: `List every question of the bank, grouped by tier.

Examples:
  sqlquest questions
  sqlquest questions --tier hard
  sqlquest questions --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tier, "tier", "", "only list this tier")

	return cmd
}

func runQuestions(opts *QuestionsOptions, cmd *cobra.Command) error {
	bank, err := opts.loadBank()
	if err != nil {
		return err
	}

	tiers := bank.Tiers()
	if opts.Tier != "" {
		t, err := quiz.ParseTier(opts.Tier)
		if err == nil && !bank.Has(t) {
			err = fmt.Errorf("%w %q", quiz.ErrUnknownTier, t)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --tier", err)
		}
		tiers = []quiz.Tier{t}
	}

	var entries []QuestionEntry
	for _, t := range tiers {
		for i, q := range bank.Questions(t) {
			entries = append(entries, QuestionEntry{Tier: t, Index: i, Summary: q.Summary, Prompt: q.Prompt})
		}
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		return f.Success(entries)
	}
	printQuestions(cmd.OutOrStdout(), bank, tiers)
	return nil
}

func printQuestions(w io.Writer, bank *quiz.Bank, tiers []quiz.Tier) {
	for n, t := range tiers {
		if n > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", bank.Label(t), t)
		for i, q := range bank.Questions(t) {
			fmt.Fprintf(w, "  %2d  %s\n", i, q.Summary)
		}
	}
}
