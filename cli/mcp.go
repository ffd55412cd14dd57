package cli

import (
	"docanalyzer/llm/pipeline"
	"docanalyzer/mcpserver"

	"github.com/spf13/cobra"
)

func newMCPCommand(a *app, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Expose the analysis tools as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				tools := mcpserver.New(rt.Extractor(), rt.Processor(), a.logger)
				return tools.Serve(cmd.Context(), version)
			})
		},
	}
}
