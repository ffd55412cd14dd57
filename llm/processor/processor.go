// Package processor composes the text analyzer with the optional
// model-backed summarization and question answering capabilities.
package processor

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"docanalyzer/analyzer"
)

const (
	// maxModelInput is the input window of the summarization model, in runes.
	maxModelInput = 1024
	// fallbackSummaryLength is the truncation length of degraded summaries.
	fallbackSummaryLength = 200

	DefaultMaxLength   = 150
	DefaultMinLength   = 30
	DefaultTopKeywords = 10
)

// GuidanceMessage is the answer given when question answering is not configured.
const GuidanceMessage = "Question answering requires additional components. Configure a language model provider to enable it."

// MissingInputMessage is the answer given when the question or the document text is empty.
const MissingInputMessage = "Please provide both a question and document text."

// SampleQuestions are offered by the presentation layers as starting points.
var SampleQuestions = []string{
	"What is this document about?",
	"What are the main topics discussed?",
	"What is the overall sentiment?",
	"Can you summarize the key points?",
}

// DocumentAnalysis is the report built for one text.
type DocumentAnalysis struct {
	Statistics  analyzer.TextStatistics  `json:"statistics" yaml:"statistics"`
	Keywords    []analyzer.Keyword       `json:"keywords" yaml:"keywords"`
	Sentiment   analyzer.SentimentResult `json:"sentiment" yaml:"sentiment"`
	Readability float64                  `json:"readability" yaml:"readability"`
	Summary     string                   `json:"summary" yaml:"summary"`
}

// Status reports which capabilities are present and why the others are not.
type Status struct {
	Summarizer       bool   `json:"summarizer"`
	SummarizerReason string `json:"summarizer_reason,omitempty"`
	QA               bool   `json:"qa"`
	QAReason         string `json:"qa_reason,omitempty"`
}

// Option configures a Processor.
type Option func(*Processor)

// WithTopKeywords sets the number of keywords in a DocumentAnalysis.
func WithTopKeywords(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.topKeywords = n
		}
	}
}

// Processor runs document analysis. Its capabilities are fixed at
// construction and it is safe for concurrent use.
type Processor struct {
	analyzer    *analyzer.Analyzer
	summarizer  Capability[Summarizer]
	qa          Capability[QuestionAnswerer]
	topKeywords int
	logger      *slog.Logger
}

// New creates a Processor. A nil logger uses slog.Default().
func New(a *analyzer.Analyzer, summarizer Capability[Summarizer], qa Capability[QuestionAnswerer], logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		analyzer:    a,
		summarizer:  summarizer,
		qa:          qa,
		topKeywords: DefaultTopKeywords,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyzer returns the text analyzer used by the processor.
func (p *Processor) Analyzer() *analyzer.Analyzer {
	return p.analyzer
}

// Capabilities reports the state of the optional capabilities.
func (p *Processor) Capabilities() Status {
	_, hasSummarizer := p.summarizer.Get()
	_, hasQA := p.qa.Get()
	return Status{
		Summarizer:       hasSummarizer,
		SummarizerReason: p.summarizer.Reason(),
		QA:               hasQA,
		QAReason:         p.qa.Reason(),
	}
}

type summaryOptions struct {
	minLength int
	maxLength int
}

// SummaryOption bounds the summary length.
type SummaryOption func(*summaryOptions)

// WithMaxLength sets the upper bound of the model summary length.
func WithMaxLength(n int) SummaryOption {
	return func(o *summaryOptions) { o.maxLength = n }
}

// WithMinLength sets the lower bound of the model summary length.
func WithMinLength(n int) SummaryOption {
	return func(o *summaryOptions) { o.minLength = n }
}

// Summarize returns a model summary when the summarizer is available and
// a heuristic one otherwise. Model failures degrade to a truncation of the
// input. Non-empty input never yields an empty summary.
func (p *Processor) Summarize(ctx context.Context, text string, opts ...SummaryOption) string {
	o := summaryOptions{minLength: DefaultMinLength, maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxLength <= 0 {
		o.maxLength = DefaultMaxLength
	}
	if o.minLength < 0 || o.minLength > o.maxLength {
		o.minLength = min(DefaultMinLength, o.maxLength)
	}

	if strings.TrimSpace(text) == "" {
		return ""
	}

	summarizer, err := p.summarizer.Require()
	if err != nil {
		p.logger.Debug("heuristic summary", "error", err)
		return p.heuristicSummary(text)
	}

	input := truncateRunes(text, maxModelInput)
	summary, err := summarizer.Summarize(ctx, input, o.minLength, o.maxLength)
	if err != nil {
		merr := &ModelError{Op: "summarize", Err: err}
		p.logger.Warn("summarization degraded", "error", merr)
		fallback := "Summary: " + truncateRunes(input, fallbackSummaryLength) + "..."
		// the prefix must not make a very short text longer
		if p.analyzer.BasicStatistics(fallback).WordCount > p.analyzer.BasicStatistics(text).WordCount {
			return p.heuristicSummary(text)
		}
		return fallback
	}
	return summary
}

// heuristicSummary returns the first three sentences when there are more
// than three, otherwise the cleaned text truncated to 200 runes.
func (p *Processor) heuristicSummary(text string) string {
	cleaned := p.analyzer.Clean(text)
	sentences := p.analyzer.Sentences(cleaned)
	if len(sentences) > 3 {
		return strings.Join(sentences[:3], " ")
	}
	if cleaned == "" {
		// text made only of stripped characters
		return truncateWithEllipsis(strings.TrimSpace(text), fallbackSummaryLength)
	}
	return truncateWithEllipsis(cleaned, fallbackSummaryLength)
}

// AnswerQuestion answers from the document text. Failures are reported in
// the answer text with confidence 0; this method never fails.
func (p *Processor) AnswerQuestion(ctx context.Context, document, question string) Answer {
	qa, err := p.qa.Require()
	if err != nil {
		p.logger.Debug("question answering skipped", "error", err)
		return Answer{Answer: GuidanceMessage, Confidence: 0}
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(document) == "" {
		return Answer{Answer: MissingInputMessage, Confidence: 0}
	}

	ans, err := qa.Answer(ctx, document, question)
	if err != nil {
		merr := &ModelError{Op: "answer", Err: err}
		p.logger.Warn("question answering failed", "error", merr)
		return Answer{Answer: "Error: " + errorMessage(err), Confidence: 0}
	}
	ans.Confidence = roundConfidence(ans.Confidence)
	return ans
}

// AnalyzeDocument runs every analysis over text and adds a summary.
func (p *Processor) AnalyzeDocument(ctx context.Context, text string) DocumentAnalysis {
	return DocumentAnalysis{
		Statistics:  p.analyzer.BasicStatistics(text),
		Keywords:    p.analyzer.ExtractKeywords(text, p.topKeywords),
		Sentiment:   p.analyzer.Sentiment(text),
		Readability: p.analyzer.Readability(text),
		Summary:     p.Summarize(ctx, text),
	}
}

func roundConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	c = math.Max(0, math.Min(1, c))
	return math.Round(c*1000) / 1000
}

func errorMessage(err error) string {
	var merr *ModelError
	if errors.As(err, &merr) {
		err = merr.Err
	}
	return err.Error()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func truncateWithEllipsis(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return truncateRunes(s, n) + "..."
}
