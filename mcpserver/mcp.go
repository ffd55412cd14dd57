// Package mcpserver exposes extraction and analysis as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docanalyzer/analyzer"
	"docanalyzer/llm/parser"
	"docanalyzer/llm/pipeline"
	"docanalyzer/llm/processor"
	"docanalyzer/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools serves the MCP tool surface. It keeps no state between calls.
type Tools struct {
	extractor *parser.Extractor
	processor *processor.Processor
	logger    *slog.Logger
}

// New creates the tool set.
func New(extractor *parser.Extractor, proc *processor.Processor, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{extractor: extractor, processor: proc, logger: logger}
}

// NewServer creates an MCP server with every tool registered.
func (t *Tools) NewServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "docanalyzer", Version: version}, nil)
	t.Register(srv)
	return srv
}

// Serve runs the server over stdin/stdout until ctx is done or the client disconnects.
func (t *Tools) Serve(ctx context.Context, version string) error {
	return t.NewServer(version).Run(ctx, &mcp.StdioTransport{})
}

// Register adds the tools to srv.
func (t *Tools) Register(srv *mcp.Server) {
	t.registerExtract(srv)
	t.registerAnalyzeDocument(srv)
	t.registerAnalyzeText(srv)
	t.registerSummarize(srv)
	t.registerAnswer(srv)
	t.registerEntities(srv)
	t.registerFormats(srv)
}

// endpoint handles decoded arguments and returns a JSON-encodable result.
type endpoint[Req any] func(ctx context.Context, req *Req) (any, error)

// addTool registers an endpoint whose arguments decode into Req. Failures
// become tool errors so the client sees them as results.
func addTool[Req any](srv *mcp.Server, logger *slog.Logger, tool *mcp.Tool, fn endpoint[Req]) {
	srv.AddTool(tool, func(ctx context.Context, call *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req Req
		if len(call.Params.Arguments) > 0 {
			if err := json.Unmarshal(call.Params.Arguments, &req); err != nil {
				return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}

		resp, err := fn(ctx, &req)
		if err != nil {
			logger.Debug("tool call failed", "tool", tool.Name, "error", err)
			return toolError(err), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return toolError(fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func stringListProp(description string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": description}
}

// --- extract_document ---

type pathReq struct {
	Path string `json:"path"`
}

func (t *Tools) registerExtract(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_document",
		Description: "Extract the plain text and metadata (pages, author, title, subject) of a document file.",
		InputSchema: inputSchema(map[string]any{
			"path": stringProp("Path of the document to read"),
		}, []string{"path"}),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *pathReq) (any, error) {
		return t.extract(ctx, req.Path)
	})
}

func (t *Tools) extract(ctx context.Context, path string) (*parser.ExtractedDocument, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	return t.extractor.Extract(ctx, path)
}

// --- analyze_document ---

type analyzeDocumentReq struct {
	Path     string `json:"path"`
	Question string `json:"question"`
}

func (t *Tools) registerAnalyzeDocument(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "analyze_document",
		Description: "Extract a document and report its statistics, keywords, sentiment, readability and summary. " +
			"An optional question is answered from the document text.",
		InputSchema: inputSchema(map[string]any{
			"path":     stringProp("Path of the document to analyze"),
			"question": stringProp("Optional question about the document"),
		}, []string{"path"}),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *analyzeDocumentReq) (any, error) {
		doc, err := t.extract(ctx, req.Path)
		if err != nil {
			return nil, err
		}
		return t.analyze(ctx, doc, req.Question), nil
	})
}

func (t *Tools) analyze(ctx context.Context, doc *parser.ExtractedDocument, question string) report.Report {
	res := &pipeline.Result{
		Document: doc,
		Analysis: t.processor.AnalyzeDocument(ctx, doc.Text),
	}
	var questions []pipeline.Exchange
	if strings.TrimSpace(question) != "" {
		questions = append(questions, pipeline.Exchange{
			Question: question,
			Answer:   t.processor.AnswerQuestion(ctx, doc.Text, question),
		})
	}
	return report.New(res, questions)
}

// --- analyze_text ---

type textReq struct {
	Text string `json:"text"`
}

func (t *Tools) registerAnalyzeText(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "analyze_text",
		Description: "Report statistics, keywords, sentiment, readability and a summary for raw text.",
		InputSchema: inputSchema(map[string]any{
			"text": stringProp("Text to analyze"),
		}, []string{"text"}),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *textReq) (any, error) {
		if strings.TrimSpace(req.Text) == "" {
			return nil, errors.New("text is required")
		}
		doc := &parser.ExtractedDocument{
			Text:     strings.TrimSpace(req.Text),
			Metadata: parser.Metadata{Pages: 1},
			Format:   parser.FileTypeTXT,
		}
		return t.analyze(ctx, doc, ""), nil
	})
}

// --- summarize ---

type summarizeReq struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type summarizeResp struct {
	Summary         string  `json:"summary"`
	Words           int     `json:"words"`
	CompressionRate float64 `json:"compression_rate"`
	Model           bool    `json:"model"`
}

func (t *Tools) registerSummarize(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "summarize",
		Description: "Summarize text. Uses the configured language model when available, " +
			"otherwise the first sentences of the text.",
		InputSchema: inputSchema(map[string]any{
			"text":       stringProp("Text to summarize"),
			"max_length": intProp(fmt.Sprintf("Maximum summary length in words (default %d)", processor.DefaultMaxLength)),
			"min_length": intProp(fmt.Sprintf("Minimum summary length in words (default %d)", processor.DefaultMinLength)),
		}, []string{"text"}),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *summarizeReq) (any, error) {
		var opts []processor.SummaryOption
		if req.MaxLength > 0 {
			opts = append(opts, processor.WithMaxLength(req.MaxLength))
		}
		if req.MinLength > 0 {
			opts = append(opts, processor.WithMinLength(req.MinLength))
		}
		summary := t.processor.Summarize(ctx, req.Text, opts...)
		words := len(strings.Fields(summary))
		return summarizeResp{
			Summary:         summary,
			Words:           words,
			CompressionRate: report.CompressionRate(t.processor.Analyzer().BasicStatistics(req.Text).WordCount, words),
			Model:           t.processor.Capabilities().Summarizer,
		}, nil
	})
}

// --- answer_question ---

type answerReq struct {
	Question string `json:"question"`
	Text     string `json:"text"`
	Path     string `json:"path"`
}

func (t *Tools) registerAnswer(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "answer_question",
		Description: "Answer a question from a document, given either its text or its path. " +
			"Returns the answer and a confidence between 0 and 1.",
		InputSchema: inputSchema(map[string]any{
			"question": stringProp("Question to answer"),
			"text":     stringProp("Document text (takes precedence over path)"),
			"path":     stringProp("Path of the document to read when text is empty"),
		}, []string{"question"}),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *answerReq) (any, error) {
		text := req.Text
		if strings.TrimSpace(text) == "" && req.Path != "" {
			doc, err := t.extract(ctx, req.Path)
			if err != nil {
				return nil, err
			}
			text = doc.Text
		}
		return t.processor.AnswerQuestion(ctx, text, req.Question), nil
	})
}

// --- extract_entities ---

type entitiesReq struct {
	Text         string   `json:"text"`
	Path         string   `json:"path"`
	PersonTitles []string `json:"person_titles"`
	OrgSuffixes  []string `json:"org_suffixes"`
	Places       []string `json:"places"`
}

func (t *Tools) registerEntities(srv *mcp.Server) {
	defaults := analyzer.DefaultEntityLists()
	tool := &mcp.Tool{
		Name: "extract_entities",
		Description: "Find person, organisation and place names from capitalized word runs. " +
			"Places are only recognised from the given list.",
		InputSchema: inputSchema(map[string]any{
			"text":          stringProp("Text to scan (takes precedence over path)"),
			"path":          stringProp("Path of the document to read when text is empty"),
			"person_titles": stringListProp("Titles that precede person names (default " + strings.Join(defaults.PersonTitles, ", ") + ")"),
			"org_suffixes":  stringListProp("Suffixes that end organisation names (default " + strings.Join(defaults.OrgSuffixes, ", ") + ")"),
			"places":        stringListProp("Known place names"),
		}, nil),
	}
	addTool(srv, t.logger, tool, func(ctx context.Context, req *entitiesReq) (any, error) {
		text := req.Text
		if strings.TrimSpace(text) == "" {
			if req.Path == "" {
				return nil, errors.New("text or path is required")
			}
			doc, err := t.extract(ctx, req.Path)
			if err != nil {
				return nil, err
			}
			text = doc.Text
		}

		lists := analyzer.EntityLists{
			PersonTitles: req.PersonTitles,
			OrgSuffixes:  req.OrgSuffixes,
			Places:       req.Places,
		}
		if lists.PersonTitles == nil {
			lists.PersonTitles = defaults.PersonTitles
		}
		if lists.OrgSuffixes == nil {
			lists.OrgSuffixes = defaults.OrgSuffixes
		}
		return t.processor.Analyzer().ExtractEntities(text, lists), nil
	})
}

// --- supported_formats ---

type emptyReq struct{}

func (t *Tools) registerFormats(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "supported_formats",
		Description: "List the document extensions that can be read, and which model capabilities are configured.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, t.logger, tool, func(_ context.Context, _ *emptyReq) (any, error) {
		return map[string]any{
			"formats":      t.extractor.SupportedFormats(),
			"capabilities": t.processor.Capabilities(),
		}, nil
	})
}
