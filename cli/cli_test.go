package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"docanalyzer/config"
	"docanalyzer/llm/processor"
	"docanalyzer/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "The harbor project finished early this spring. Engineers praised the excellent planning. " +
	"Costs stayed within budget and the harbor reopened to ships."

// offlineEnv makes sure no model provider or .env setting leaks into a test.
func offlineEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("QA_STRATEGY", "none")
	t.Setenv("API_KEY", "")
	t.Setenv("COZELOOP_API_TOKEN", "")
	t.Setenv("DISABLED_FORMATS", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand("test")
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeJSON(t *testing.T) {
	offlineEnv(t)
	path := writeSample(t, t.TempDir(), "harbor.txt", sampleText)

	out, _, err := run(t, "analyze", path, "--format", "json", "--top", "3")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, path, r.Source)
	assert.Equal(t, "harbor.txt", r.Metadata.Title)
	assert.Equal(t, 3, r.Statistics.SentenceCount)
	assert.LessOrEqual(t, len(r.Keywords), 3)
	require.NotEmpty(t, r.Keywords)
	assert.Equal(t, "harbor", r.Keywords[0].Term)
	assert.NotEmpty(t, r.Summary)
	assert.Empty(t, r.Questions)
}

func TestAnalyzeGlobMarkdown(t *testing.T) {
	offlineEnv(t)
	dir := t.TempDir()
	writeSample(t, dir, "a/one.md", "# First\n\n"+sampleText)
	writeSample(t, dir, "b/c/two.md", "# Second\n\n"+sampleText)
	writeSample(t, dir, "skip.txt", sampleText)

	out, _, err := run(t, "analyze", filepath.Join(dir, "**", "*.md"))
	require.NoError(t, err)
	assert.Contains(t, out, "# First\n")
	assert.Contains(t, out, "# Second\n")
	assert.Contains(t, out, "\n---\n")
	assert.NotContains(t, out, "skip.txt")
}

func TestAnalyzeWithQuestion(t *testing.T) {
	offlineEnv(t)
	path := writeSample(t, t.TempDir(), "harbor.txt", sampleText)

	out, _, err := run(t, "analyze", path, "-f", "json", "-q", "When did the project finish?")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.Questions, 1)
	assert.Equal(t, "When did the project finish?", r.Questions[0].Question)
	assert.Equal(t, processor.GuidanceMessage, r.Questions[0].Answer.Answer)
}

func TestAnalyzePartialFailure(t *testing.T) {
	offlineEnv(t)
	dir := t.TempDir()
	good := writeSample(t, dir, "good.txt", sampleText)
	missing := filepath.Join(dir, "missing.txt")

	out, stderr, err := run(t, "analyze", good, missing, "-f", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents")
	assert.Contains(t, stderr, missing)
	assert.Contains(t, out, "source: "+good)
}

func TestAnalyzeArgumentErrors(t *testing.T) {
	offlineEnv(t)
	dir := t.TempDir()
	path := writeSample(t, dir, "x.txt", sampleText)

	_, _, err := run(t, "analyze", path, "--format", "xml")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, _, err = run(t, "analyze", filepath.Join(dir, "*.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")

	_, _, err = run(t, "analyze")
	assert.Error(t, err)
}

func TestAsk(t *testing.T) {
	offlineEnv(t)
	path := writeSample(t, t.TempDir(), "harbor.txt", sampleText)

	out, _, err := run(t, "ask", path, "who", "praised", "the", "planning")
	require.NoError(t, err)
	assert.Contains(t, out, processor.GuidanceMessage)
	assert.Contains(t, out, "confidence: 0.000")

	out, _, err = run(t, "ask", path, "who praised the planning", "-f", "json")
	require.NoError(t, err)
	var answer processor.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, processor.GuidanceMessage, answer.Answer)
}

func TestAskMissingDocument(t *testing.T) {
	offlineEnv(t)
	_, _, err := run(t, "ask", filepath.Join(t.TempDir(), "nope.pdf"), "anything?")
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	offlineEnv(t)
	t.Setenv("DISABLED_FORMATS", "pdf,docx")

	out, _, err := run(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "formats: htm, html, markdown, md, txt\n")
	assert.Contains(t, out, "summarization: heuristic (no language model provider configured)")
	assert.Contains(t, out, "question answering: off (question answering disabled)")
}

func TestInvalidConfiguration(t *testing.T) {
	offlineEnv(t)
	t.Setenv("LLM_PROVIDER", "bogus")

	_, _, err := run(t, "formats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
}

func TestLogLevelFlag(t *testing.T) {
	offlineEnv(t)
	_, _, err := run(t, "formats", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLogFile(t *testing.T) {
	offlineEnv(t)
	logPath := filepath.Join(t.TempDir(), "app.log")
	t.Setenv("LOG_FILE", logPath)
	t.Setenv("LOG_LEVEL", "debug")
	path := writeSample(t, t.TempDir(), "harbor.txt", sampleText)

	root, a := newRoot("test")
	root.SetArgs([]string{"analyze", path, "-f", "json"})
	root.SetOut(io.Discard)
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.NoError(t, a.close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeSample(t, dir, "docs/a.md", "a")
	b := writeSample(t, dir, "docs/deep/b.md", "b")
	writeSample(t, dir, "docs/c.txt", "c")

	paths, err := expandPaths([]string{a, filepath.Join(dir, "docs", "**", "*.md"), "literal.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, "literal.pdf"}, paths)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLevel("trace")
	assert.Error(t, err)
}

func TestNewLoggerFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := newLogger(&config.Config{LogLevel: "warn"}, &buf)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}
