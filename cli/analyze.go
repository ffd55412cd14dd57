package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"docanalyzer/llm/pipeline"
	"docanalyzer/report"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	format    string
	top       int
	questions []string
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <path|glob>...",
		Short: "Analyze one or more documents and print a report",
		Example: `  docanalyzer analyze report.pdf
  docanalyzer analyze "docs/**/*.md" --format json
  docanalyzer analyze handbook.docx -q "What is the main topic?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			if opts.top > 0 {
				a.cfg.TopKeywords = opts.top
			}

			return a.withRuntime(cmd.Context(), func(rt *pipeline.Runtime) error {
				var reports []report.Report
				var failed int
				for _, path := range paths {
					r, err := analyzeOne(cmd.Context(), rt, path, opts.questions)
					if err != nil {
						failed++
						printErr(cmd, "%s: %v", path, err)
						continue
					}
					reports = append(reports, r)
				}

				if len(reports) > 0 {
					if err := report.RenderAll(cmd.OutOrStdout(), reports, format); err != nil {
						return err
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d documents could not be analyzed", failed, len(paths))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "markdown", "output format: markdown, json or yaml")
	cmd.Flags().IntVar(&opts.top, "top", 0, "number of keywords to report (overrides TOP_KEYWORDS)")
	cmd.Flags().StringArrayVarP(&opts.questions, "question", "q", nil, "question to answer about each document (repeatable)")
	return cmd
}

func analyzeOne(ctx context.Context, rt *pipeline.Runtime, path string, questions []string) (report.Report, error) {
	res, err := rt.Analyze(ctx, path)
	if err != nil {
		return report.Report{}, err
	}
	for _, q := range questions {
		if _, err := rt.Ask(ctx, q); err != nil {
			return report.Report{}, err
		}
	}
	return report.New(res, rt.History()), nil
}

// expandPaths resolves glob patterns (including "**") and keeps literal
// paths as given so a missing file is reported by the extractor. Each
// path appears once, in argument order.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(filepath.Clean(m))
		}
	}
	return paths, nil
}
