// Package report turns an analysis result into a document for people
// (markdown) or for other programs (JSON, YAML).
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"docanalyzer/analyzer"
	"docanalyzer/llm/parser"
	"docanalyzer/llm/pipeline"

	"github.com/goccy/go-yaml"
)

// Format is an output encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts markdown|md, json and yaml|yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q (want markdown, json or yaml)", ErrUnknownFormat, s)
}

// Report is the flattened view of one analyzed document.
type Report struct {
	Source           string                   `json:"source" yaml:"source"`
	Format           parser.FileType          `json:"format" yaml:"format"`
	Metadata         parser.Metadata          `json:"metadata" yaml:"metadata"`
	Statistics       analyzer.TextStatistics  `json:"statistics" yaml:"statistics"`
	Readability      float64                  `json:"readability" yaml:"readability"`
	ReadabilityLevel string                   `json:"readability_level" yaml:"readability_level"`
	Sentiment        analyzer.SentimentResult `json:"sentiment" yaml:"sentiment"`
	Subjectivity     string                   `json:"subjectivity_label" yaml:"subjectivity_label"`
	Keywords         []analyzer.Keyword       `json:"keywords" yaml:"keywords"`
	Summary          string                   `json:"summary" yaml:"summary"`
	SummaryWords     int                      `json:"summary_words" yaml:"summary_words"`
	CompressionRate  float64                  `json:"compression_rate" yaml:"compression_rate"`
	Questions        []pipeline.Exchange      `json:"questions,omitempty" yaml:"questions,omitempty"`
}

// New builds a Report from a pipeline result and the questions asked about it.
func New(res *pipeline.Result, questions []pipeline.Exchange) Report {
	a := res.Analysis
	summaryWords := len(strings.Fields(a.Summary))
	return Report{
		Source:           res.Document.SourcePath,
		Format:           res.Document.Format,
		Metadata:         res.Document.Metadata,
		Statistics:       a.Statistics,
		Readability:      a.Readability,
		ReadabilityLevel: analyzer.ReadabilityLevel(a.Readability),
		Sentiment:        a.Sentiment,
		Subjectivity:     analyzer.SubjectivityLabel(a.Sentiment.Subjectivity),
		Keywords:         a.Keywords,
		Summary:          a.Summary,
		SummaryWords:     summaryWords,
		CompressionRate:  CompressionRate(a.Statistics.WordCount, summaryWords),
		Questions:        questions,
	}
}

// CompressionRate is the share of words removed by the summary, in
// percent with one decimal. It is 0 when the original has no words and
// negative when the summary is longer than the original.
func CompressionRate(originalWords, summaryWords int) float64 {
	if originalWords <= 0 {
		return 0
	}
	rate := float64(originalWords-summaryWords) / float64(originalWords) * 100
	return math.Round(rate*10) / 10
}

// Render writes the report in the given format.
func Render(w io.Writer, r Report, f Format) error {
	if f == FormatMarkdown {
		_, err := io.WriteString(w, Markdown(r))
		return err
	}
	return RenderValue(w, r, f)
}

// RenderAll writes several reports: markdown documents separated by a
// rule, or a single JSON array or YAML sequence.
func RenderAll(w io.Writer, reports []Report, f Format) error {
	if len(reports) == 1 {
		return Render(w, reports[0], f)
	}
	if f != FormatMarkdown {
		if reports == nil {
			reports = []Report{}
		}
		return RenderValue(w, reports, f)
	}
	for i, r := range reports {
		if i > 0 {
			if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Markdown(r)); err != nil {
			return err
		}
	}
	return nil
}

// RenderValue encodes any value as JSON or YAML. Markdown is only
// defined for reports.
func RenderValue(w io.Writer, v any, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
