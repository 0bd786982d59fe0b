package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/quiz"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Tier     string
	Question int
	Hint     bool
	Answer   bool
}

// ShowResult is the JSON payload of the show command. Hint and Solution
// are only set when requested.
type ShowResult struct {
	Tier     quiz.Tier `json:"tier"`
	Label    string    `json:"label"`
	Index    int       `json:"index"`
	Count    int       `json:"count"`
	Summary  string    `json:"summary"`
	Prompt   string    `json:"prompt"`
	Hint     string    `json:"hint,omitempty"`
	Solution string    `json:"solution,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one question",
		Long: `Print a question's prompt, and optionally its hint and reference
solution.

Examples:
  sqlquest show --tier medium --question 5
  sqlquest show --tier superhard --question 0 --hint --answer`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tier, "tier", "easy", "question tier")
	cmd.Flags().IntVar(&opts.Question, "question", 0, "question index within the tier, from 0")
	cmd.Flags().BoolVar(&opts.Hint, "hint", false, "include the hint")
	cmd.Flags().BoolVar(&opts.Answer, "answer", false, "include the reference solution")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	bank, err := opts.loadBank()
	if err != nil {
		return err
	}
	tier, err := quiz.ParseTier(opts.Tier)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --tier", err)
	}
	q, err := bank.Question(tier, opts.Question)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --question", err)
	}

	res := ShowResult{
		Tier:    tier,
		Label:   bank.Label(tier),
		Index:   opts.Question,
		Count:   bank.TierSize(tier),
		Summary: q.Summary,
		Prompt:  q.Prompt,
	}
	if opts.Hint {
		res.Hint = q.Hint
	}
	if opts.Answer {
		res.Solution = q.Solution
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		return f.Success(res)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s · Question %d/%d · %s\n\n", res.Label, res.Index+1, res.Count, res.Summary)
	fmt.Fprintln(w, res.Prompt)
	if opts.Hint {
		fmt.Fprintf(w, "\nHint: %s\n", res.Hint)
	}
	if opts.Answer {
		fmt.Fprintf(w, "\nAnswer:\n%s\n", res.Solution)
	}
	return nil
}
