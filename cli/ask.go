package cli

import (
	"fmt"
	"strings"

	"docanalyzer/llm/pipeline"
	"docanalyzer/report"

	"github.com/spf13/cobra"
)

func newAskCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ask <path> <question>...",
		Short: "Answer a question about a document",
		Example: `  docanalyzer ask contract.pdf "When does the agreement end?"
  docanalyzer ask notes.md what are the key points --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			question := strings.Join(args[1:], " ")

			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				if _, err := rt.Analyze(cmd.Context(), args[0]); err != nil {
					return err
				}
				answer, err := rt.Ask(cmd.Context(), question)
				if err != nil {
					return err
				}

				if f == report.FormatMarkdown {
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nconfidence: %.3f\n", answer.Answer, answer.Confidence)
					return err
				}
				return report.RenderValue(cmd.OutOrStdout(), answer, f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown (plain text), json or yaml")
	return cmd
}
