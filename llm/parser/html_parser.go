package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// HTMLParser handles HTML files. The body is converted to markdown first
// so headings, lists and tables keep their line structure, then stripped
// to plain text.
type HTMLParser struct {
	converter *md.Converter
}

// NewHTMLParser creates a new HTML parser
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		converter: md.NewConverter("", true, nil),
	}
}

// Parse reads title, author and description from the head and text from the body.
func (p *HTMLParser) Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML: %w", err)
	}
	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := Metadata{
		Pages:   1,
		Title:   p.extractTitle(doc),
		Author:  metaContent(doc, "author"),
		Subject: metaContent(doc, "description"),
	}
	if meta.Title == "" {
		meta.Title = baseName(name)
	}

	doc.Find("script, style, noscript, template").Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	return &ExtractedDocument{
		Text:     stripMarkdown(p.converter.Convert(body)),
		Metadata: meta,
	}, nil
}

// FileType returns the file type this parser handles
func (p *HTMLParser) FileType() FileType {
	return FileTypeHTML
}

// extractTitle tries <title> then the first <h1>.
func (p *HTMLParser) extractTitle(doc *goquery.Document) string {
	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return collapseSpace(doc.Find("h1").First().Text())
}

func metaContent(doc *goquery.Document, name string) string {
	var value string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(s.AttrOr("name", ""), name) {
			return true
		}
		value = collapseSpace(s.AttrOr("content", ""))
		return false
	})
	return value
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
