package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TxtParser handles plain text files
type TxtParser struct{}

// NewTxtParser creates a new plain text parser
func NewTxtParser() *TxtParser {
	return &TxtParser{}
}

// Parse reads plain text. Invalid UTF-8 is decoded as Latin-1.
func (p *TxtParser) Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}

	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	return &ExtractedDocument{
		Text: strings.TrimSpace(content),
		Metadata: Metadata{
			Pages: 1,
			Title: baseName(name),
		},
	}, nil
}

// FileType returns the file type this parser handles
func (p *TxtParser) FileType() FileType {
	return FileTypeTXT
}

// decodeText returns data as a string, falling back to ISO-8859-1
// when it is not valid UTF-8.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode latin-1 text: %w", err)
	}
	return string(decoded), nil
}
