package cli

import (
	"docanalyzer/llm/pipeline"
	"docanalyzer/web"

	"github.com/spf13/cobra"
)

func newServeCommand(a *app, version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				a.logger.Info("starting web server", "addr", addr, "version", version)
				srv := web.New(rt.Extractor(), rt.Processor(), web.Config{Logger: a.logger})
				return srv.ListenAndServe(cmd.Context(), addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
