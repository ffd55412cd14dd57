package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"docanalyzer/analyzer"
	"docanalyzer/llm/parser"
	"docanalyzer/llm/processor"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImpl = &mcp.Implementation{Name: "docanalyzer-test", Version: "0.1.0"}

func mcpSession(t *testing.T, formats []parser.FileType) *mcp.ClientSession {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proc := processor.New(
		analyzer.New(analyzer.Config{Logger: logger}),
		processor.Unavailable[processor.Summarizer]("not configured"),
		processor.Unavailable[processor.QuestionAnswerer]("not configured"),
		logger,
	)
	tools := New(parser.NewExtractor(parser.Config{Formats: formats, Logger: logger}), proc, logger)
	srv := tools.NewServer("test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

// callTool returns the text payload and whether the call was a tool error.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text, result.IsError
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListTools(t *testing.T) {
	session := mcpSession(t, nil)
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"extract_document", "analyze_document", "analyze_text",
		"summarize", "answer_question", "extract_entities", "supported_formats",
	}, names)
}

func TestSupportedFormats(t *testing.T) {
	session := mcpSession(t, []parser.FileType{parser.FileTypeTXT, parser.FileTypeMD})
	text, isErr := callTool(t, session, "supported_formats", map[string]any{})
	require.False(t, isErr)

	var resp struct {
		Formats      []string         `json:"formats"`
		Capabilities processor.Status `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, []string{"markdown", "md", "txt"}, resp.Formats)
	assert.False(t, resp.Capabilities.QA)
}

func TestExtractDocument(t *testing.T) {
	session := mcpSession(t, nil)
	path := writeDoc(t, "notes.txt", "Hello World\nSecond line")

	text, isErr := callTool(t, session, "extract_document", map[string]any{"path": path})
	require.False(t, isErr, text)

	var doc parser.ExtractedDocument
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	assert.Equal(t, "Hello World\nSecond line", doc.Text)
	assert.Equal(t, parser.Metadata{Pages: 1, Title: "notes.txt"}, doc.Metadata)
}

func TestExtractDocumentErrors(t *testing.T) {
	session := mcpSession(t, []parser.FileType{parser.FileTypeTXT})

	text, isErr := callTool(t, session, "extract_document", map[string]any{"path": filepath.Join(t.TempDir(), "missing.txt")})
	assert.True(t, isErr)
	assert.Contains(t, text, "document not found")

	text, isErr = callTool(t, session, "extract_document", map[string]any{"path": writeDoc(t, "a.pdf", "%PDF")})
	assert.True(t, isErr)
	assert.Contains(t, text, "dependency unavailable")

	_, isErr = callTool(t, session, "extract_document", map[string]any{"path": ""})
	assert.True(t, isErr)
}

func TestAnalyzeDocumentWithQuestion(t *testing.T) {
	session := mcpSession(t, nil)
	path := writeDoc(t, "review.md", "# Review\n\nThe launch was a great success. Customers love the product.")

	text, isErr := callTool(t, session, "analyze_document", map[string]any{"path": path, "question": "How was the launch?"})
	require.False(t, isErr, text)

	var resp struct {
		Metadata  parser.Metadata `json:"metadata"`
		Sentiment struct {
			Label string `json:"label"`
		} `json:"sentiment"`
		Summary   string `json:"summary"`
		Questions []struct {
			Question string           `json:"question"`
			Answer   processor.Answer `json:"answer"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "Review", resp.Metadata.Title)
	assert.Equal(t, "positive", resp.Sentiment.Label)
	assert.NotEmpty(t, resp.Summary)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, processor.GuidanceMessage, resp.Questions[0].Answer.Answer)
}

func TestAnalyzeText(t *testing.T) {
	session := mcpSession(t, nil)

	text, isErr := callTool(t, session, "analyze_text", map[string]any{"text": "Short note."})
	require.False(t, isErr, text)
	assert.Contains(t, text, `"summary":"Short note."`)

	_, isErr = callTool(t, session, "analyze_text", map[string]any{"text": " "})
	assert.True(t, isErr)
}

func TestSummarize(t *testing.T) {
	session := mcpSession(t, nil)

	text, isErr := callTool(t, session, "summarize", map[string]any{
		"text": "First point. Second point. Third point. Fourth point. Fifth point.",
	})
	require.False(t, isErr, text)

	var resp summarizeResp
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, "First point. Second point. Third point.", resp.Summary)
	assert.Equal(t, 6, resp.Words)
	assert.Equal(t, 40.0, resp.CompressionRate)
	assert.False(t, resp.Model)
}

func TestAnswerQuestion(t *testing.T) {
	session := mcpSession(t, nil)

	text, isErr := callTool(t, session, "answer_question", map[string]any{"question": "What?", "text": "Something."})
	require.False(t, isErr)
	var answer processor.Answer
	require.NoError(t, json.Unmarshal([]byte(text), &answer))
	assert.Equal(t, processor.GuidanceMessage, answer.Answer)
	assert.Equal(t, 0.0, answer.Confidence)

	_, isErr = callTool(t, session, "answer_question", map[string]any{"question": "What?", "path": "/does/not/exist.txt"})
	assert.True(t, isErr)
}

func TestExtractEntities(t *testing.T) {
	session := mcpSession(t, nil)
	const memo = "Dr. Smith works at Acme Corp in Paris. He is happy."

	tests := []struct {
		name string
		args map[string]any
		want analyzer.Entities
	}{
		{
			name: "default lists",
			args: map[string]any{"text": memo},
			want: analyzer.Entities{Persons: []string{"Smith"}, Organizations: []string{"Acme Corp"}},
		},
		{
			name: "injected places",
			args: map[string]any{"text": memo, "places": []string{"Paris"}},
			want: analyzer.Entities{Persons: []string{"Smith"}, Organizations: []string{"Acme Corp"}, Places: []string{"Paris"}},
		},
		{
			name: "empty title list",
			args: map[string]any{"path": writeDoc(t, "memo.txt", memo), "person_titles": []string{}},
			want: analyzer.Entities{Organizations: []string{"Acme Corp"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, session, "extract_entities", tt.args)
			require.False(t, isErr, text)
			var got analyzer.Entities
			require.NoError(t, json.Unmarshal([]byte(text), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	text, isErr := callTool(t, session, "extract_entities", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "text or path is required")
}
