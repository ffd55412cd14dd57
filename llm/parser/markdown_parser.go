package parser

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.*?)[ \t]*#*[ \t]*$`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	strongStarRe = regexp.MustCompile(`\*\*([^*\s](?:[^*\n]*[^*\s])?)\*\*`)
	emStarRe     = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	strikeRe     = regexp.MustCompile(`~~([^~\s](?:[^~\n]*[^~\s])?)~~`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	listMarkRe   = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)
	quoteMarkRe  = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	ruleRe       = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	escapeRe     = regexp.MustCompile(`\\([\\`+"`"+`*_{}\[\]()#+\-.!|>~])`)
	tableSepRe   = regexp.MustCompile(`(?m)^[ \t]*\|?(?:[ \t]*:?-+:?[ \t]*\|)+[ \t]*:?-*:?[ \t]*$`)
)

// Underscores only mark emphasis outside words, so snake_case survives.
var (
	strongUnderRe = regexp.MustCompile(`(^|\W)__([^_\s](?:[^_\n]*[^_\s])?)__(\W|$)`)
	emUnderRe     = regexp.MustCompile(`(^|\W)_([^_\s](?:[^_\n]*[^_\s])?)_(\W|$)`)
)

// MarkdownParser handles markdown files
type MarkdownParser struct{}

// NewMarkdownParser creates a new markdown parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// frontMatter holds the keys read from a YAML header.
type frontMatter struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Subject     string `yaml:"subject"`
	Description string `yaml:"description"`
}

// Parse strips markdown syntax and reads metadata from YAML front matter.
func (p *MarkdownParser) Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}
	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var fm frontMatter
	body := content
	if header, rest := splitFrontMatter(content); header != "" {
		// a leading rule pair that is not YAML stays part of the text
		var parsed frontMatter
		if err := yaml.Unmarshal([]byte(header), &parsed); err == nil {
			fm = parsed
			body = rest
		}
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = baseName(name)
	}
	subject := fm.Subject
	if subject == "" {
		subject = fm.Description
	}

	return &ExtractedDocument{
		Text: stripMarkdown(body),
		Metadata: Metadata{
			Pages:   1,
			Author:  strings.TrimSpace(fm.Author),
			Title:   title,
			Subject: strings.TrimSpace(subject),
		},
	}, nil
}

// FileType returns the file type this parser handles
func (p *MarkdownParser) FileType() FileType {
	return FileTypeMD
}

// splitFrontMatter separates a leading "---" delimited YAML block.
func splitFrontMatter(content string) (header, body string) {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "---" {
		return "", content
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", content
}

func firstHeading(content string) string {
	m := headingRe.FindStringSubmatch(content)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// stripEmphasis removes bold, italic and strikethrough markers. Each
// marker closes with the same delimiter it opened with.
func stripEmphasis(content string) string {
	content = strongStarRe.ReplaceAllString(content, "$1")
	content = emStarRe.ReplaceAllString(content, "$1")
	content = strikeRe.ReplaceAllString(content, "$1")
	// a boundary rune consumed by one match cannot open the next, hence two passes
	for range 2 {
		content = strongUnderRe.ReplaceAllString(content, "$1$2$3")
		content = emUnderRe.ReplaceAllString(content, "$1$2$3")
	}
	return content
}

// stripMarkdown removes markdown syntax and keeps the readable text,
// one non-empty line per output line.
func stripMarkdown(content string) string {
	content = fencedCodeRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "$1")
	content = imageRe.ReplaceAllString(content, "$1")
	content = linkRe.ReplaceAllString(content, "$1")
	content = inlineCodeRe.ReplaceAllString(content, "$1")
	content = stripEmphasis(content)
	content = ruleRe.ReplaceAllString(content, "")
	content = tableSepRe.ReplaceAllString(content, "")
	content = listMarkRe.ReplaceAllString(content, "")
	content = quoteMarkRe.ReplaceAllString(content, "")
	content = escapeRe.ReplaceAllString(content, "$1")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "|")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
