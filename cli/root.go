// Package cli wires configuration, logging and the analysis runtime
// into the docanalyzer commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"docanalyzer/config"
	"docanalyzer/llm/pipeline"
	"docanalyzer/llm/providers"
	"docanalyzer/tui/chat"

	"github.com/spf13/cobra"
)

// app carries state shared by every command of one invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logLevel string
	closeLog func() error
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, version string) error {
	root, a := newRoot(version)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand builds the command tree. Without a subcommand the
// interactive terminal UI starts.
func NewRootCommand(version string) *cobra.Command {
	root, _ := newRoot(version)
	return root
}

func newRoot(version string) (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "docanalyzer",
		Short:         "Extract, analyze and summarize documents",
		Long:          "docanalyzer extracts text from PDF, Word, HTML, Markdown and plain text files,\ncomputes statistics, readability, sentiment and keywords, and summarizes or\nanswers questions with a language model when one is configured.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				return chat.Run(cmd.Context(), rt, a.cfg.AltScreen)
			})
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(
		newAnalyzeCommand(a),
		newAskCommand(a),
		newServeCommand(a, version),
		newMCPCommand(a, version),
		newFormatsCommand(a),
	)
	return root, a
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	a.cfg = cfg

	// the terminal UI owns the screen, so it only logs to a file
	var fallback io.Writer = cmd.ErrOrStderr()
	if cmd.Parent() == nil {
		fallback = io.Discard
	}
	logger, closeLog, err := newLogger(cfg, fallback)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// withRuntime builds the analysis runtime and model tracing for one
// command and tears both down when fn returns.
func (a *app) withRuntime(ctx context.Context, fn func(rt *pipeline.Runtime) error) error {
	shutdown, err := providers.SetupTracing(ctx, a.cfg, a.logger)
	if err != nil {
		a.logger.Warn("tracing disabled", "error", err)
	}
	defer shutdown(context.WithoutCancel(ctx))

	rt := pipeline.Setup(ctx, a.cfg, a.logger)
	defer rt.Close()

	return fn(rt)
}

func printErr(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
