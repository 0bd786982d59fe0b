package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/fixture"
	"github.com/roach88/sqlquest/internal/resultset"
)

// TableDump is one fixture table in the data command's JSON output.
type TableDump struct {
	Name   string                `json:"name"`
	Result resultset.QueryResult `json:"result"`
}

// NewDataCommand creates the data command.
func NewDataCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data [table]",
		Short: "Print the fixture tables",
		Long: `Print the fixture dataset, or a single table of it.

Tables: stations, transactions.`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     fixture.Tables(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runData(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runData(opts *RootOptions, args []string, cmd *cobra.Command) error {
	tables := fixture.Tables()
	if len(args) == 1 {
		if !slices.Contains(tables, args[0]) {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown table %q: must be one of %v", args[0], tables))
		}
		tables = []string{args[0]}
	}

	ctx := cmd.Context()
	sess, err := opts.openSession(ctx, opts.logger())
	if err != nil {
		return err
	}
	defer sess.Close()

	dumps := make([]TableDump, 0, len(tables))
	for _, name := range tables {
		r, err := sess.Table(ctx, name)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read "+name, err)
		}
		dumps = append(dumps, TableDump{Name: name, Result: r})
	}

	f := opts.formatter(cmd)
	if f.JSON() {
		return f.Success(dumps)
	}
	w := cmd.OutOrStdout()
	for i, d := range dumps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, d.Name)
		renderResult(w, d.Result, opts.Config.NoColor)
	}
	return nil
}
