package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files with the pure Go ledongthuc/pdf reader.
type PDFParser struct{}

// NewPDFParser creates a new PDF parser
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse extracts the Info dictionary and the text of every page that has any.
func (p *PDFParser) Parse(ctx context.Context, r io.Reader, name string) (doc *ExtractedDocument, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	// The reader reports malformed objects by panicking.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	info := reader.Trailer().Key("Info")
	meta := Metadata{
		Pages:   reader.NumPage(),
		Author:  strings.TrimSpace(info.Key("Author").Text()),
		Title:   strings.TrimSpace(info.Key("Title").Text()),
		Subject: strings.TrimSpace(info.Key("Subject").Text()),
	}

	var pages []string
	for i := 1; i <= meta.Pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable page, same as a page without text
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	return &ExtractedDocument{
		Text:     strings.TrimSpace(strings.Join(pages, "\n")),
		Metadata: meta,
	}, nil
}

// FileType returns the file type this parser handles
func (p *PDFParser) FileType() FileType {
	return FileTypePDF
}
