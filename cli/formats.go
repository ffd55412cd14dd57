package cli

import (
	"fmt"
	"strings"

	"docanalyzer/llm/pipeline"

	"github.com/spf13/cobra"
)

func newFormatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List enabled file formats and model capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "formats: %s\n", strings.Join(rt.Extractor().SupportedFormats(), ", "))

				caps := rt.Processor().Capabilities()
				fmt.Fprintf(out, "summarization: %s\n", capability(caps.Summarizer, caps.SummarizerReason, "heuristic"))
				fmt.Fprintf(out, "question answering: %s\n", capability(caps.QA, caps.QAReason, "off"))
				fmt.Fprintf(out, "tokenizer: %s\n", rt.Processor().Analyzer().Tokenizer())
				return nil
			})
		},
	}
}

func capability(ok bool, reason, fallback string) string {
	if ok {
		return "model"
	}
	if reason == "" {
		return fallback
	}
	return fmt.Sprintf("%s (%s)", fallback, reason)
}
