// Package cli implements the sqlquest command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlquest/internal/config"
	"github.com/roach88/sqlquest/internal/quiz"
	"github.com/roach88/sqlquest/internal/session"
)

// RootOptions holds global flags for all commands, and the configuration
// resolved from them before a command runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	BankPath   string
	Verify     string
	NoColor    bool

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlquest CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlquest",
		Short: "sqlquest - SQL practice against a transit dataset",
		Long: `Practice SQL on a small subway dataset.

Pick a question from one of four difficulty tiers, write a query, and
sqlquest checks it by comparing your result with the reference solution's
result, row by row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default $"+config.EnvPath+")")
	flags.StringVar(&opts.BankPath, "bank", "", "question bank file (.cue, .json, .yaml)")
	flags.StringVar(&opts.Verify, "verify", "positional", "verification mode (positional|unordered)")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colors")

	cmd.AddCommand(NewPracticeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewQuestionsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewDataCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// resolve validates flags, loads the config file, applies explicitly set
// flags on top of it, and installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(config.Resolve(o.ConfigPath))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("bank") {
		cfg.Bank = o.BankPath
	}
	if flags.Changed("verify") {
		cfg.Verify = o.Verify
	}
	if flags.Changed("no-color") {
		cfg.NoColor = o.NoColor
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	o.Config = cfg

	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: o.level()}))
	return nil
}

// level is the configured log level, raised to debug by --verbose.
func (o *RootOptions) level() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	level, _ := config.ParseLevel(o.Config.LogLevel)
	return level
}

// logger returns the resolved logger, or one that discards everything when
// a command runs without the root command.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadBank returns the configured bank or the built-in one.
func (o *RootOptions) loadBank() (*quiz.Bank, error) {
	if o.Config.Bank == "" {
		return quiz.Default(), nil
	}
	bank, err := quiz.LoadFile(o.Config.Bank)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load question bank", err)
	}
	o.logger().Debug("question bank loaded", "path", o.Config.Bank, "questions", bank.Len())
	return bank, nil
}

// openSession starts a session over the configured bank and mode.
func (o *RootOptions) openSession(ctx context.Context, logger *slog.Logger) (*session.Session, error) {
	bank, err := o.loadBank()
	if err != nil {
		return nil, err
	}
	sess, err := session.New(ctx, session.Options{
		Bank:   bank,
		Mode:   o.Config.Mode(),
		Logger: logger,
	})
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to start session", err)
	}
	return sess, nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// selectQuestion parses --tier and --question and selects them in sess.
func selectQuestion(sess *session.Session, tierName string, index int) error {
	tier, err := quiz.ParseTier(tierName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --tier", err)
	}
	if err := sess.SelectTier(tier); err != nil {
		return WrapExitError(ExitCommandError, "invalid --tier", err)
	}
	if err := sess.SelectQuestion(index); err != nil {
		return WrapExitError(ExitCommandError, "invalid --question", err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
