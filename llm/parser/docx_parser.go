package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DocxParser handles Word documents (.docx) by reading the OOXML parts
// straight from the zip archive.
type DocxParser struct{}

// NewDocxParser creates a new DOCX parser
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

// coreProperties is docProps/core.xml. Tags without a namespace match
// the dc: elements.
type coreProperties struct {
	Title   string `xml:"title"`
	Subject string `xml:"subject"`
	Creator string `xml:"creator"`
}

// Parse reads paragraphs from word/document.xml and core properties from
// docProps/core.xml.
func (p *DocxParser) Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX: %w", err)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	body := findZipFile(archive, "word/document.xml")
	if body == nil {
		return nil, errors.New("word/document.xml not found in archive")
	}

	paragraphs, sections, err := readDocxBody(ctx, body)
	if err != nil {
		return nil, err
	}
	if sections == 0 {
		sections = 1
	}

	meta := Metadata{Pages: sections}
	if core := findZipFile(archive, "docProps/core.xml"); core != nil {
		props, err := readCoreProperties(core)
		if err != nil {
			return nil, err
		}
		meta.Author = strings.TrimSpace(props.Creator)
		meta.Title = strings.TrimSpace(props.Title)
		meta.Subject = strings.TrimSpace(props.Subject)
	}

	return &ExtractedDocument{
		Text:     strings.TrimSpace(strings.Join(paragraphs, "\n")),
		Metadata: meta,
	}, nil
}

// FileType returns the file type this parser handles
func (p *DocxParser) FileType() FileType {
	return FileTypeDocx
}

func findZipFile(archive *zip.Reader, name string) *zip.File {
	for _, f := range archive.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readDocxBody returns the non-empty paragraphs and the number of
// section properties found in the body.
func readDocxBody(ctx context.Context, f *zip.File) ([]string, int, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		paragraphs []string
		sections   int
		// text boxes nest whole paragraphs inside a run of the outer one
		open          []*strings.Builder
		inText        bool
		revisionDepth int
	)
	top := func() *strings.Builder {
		if len(open) == 0 {
			return nil
		}
		return open[len(open)-1]
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = len(open) > 0
			case "tab":
				if b := top(); b != nil {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := top(); b != nil {
					b.WriteByte('\n')
				}
			case "sectPrChange":
				revisionDepth++
			case "sectPr":
				// the previous properties kept by a tracked change are not a section
				if revisionDepth == 0 {
					sections++
				}
			}

		case xml.CharData:
			if b := top(); inText && b != nil {
				b.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "sectPrChange":
				revisionDepth--
			case "p":
				b := top()
				if b == nil {
					continue
				}
				open = open[:len(open)-1]
				if text := strings.TrimSpace(b.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	return paragraphs, sections, nil
}

func readCoreProperties(f *zip.File) (*coreProperties, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open core.xml: %w", err)
	}
	defer rc.Close()

	var props coreProperties
	if err := xml.NewDecoder(rc).Decode(&props); err != nil {
		return nil, fmt.Errorf("decode core.xml: %w", err)
	}
	return &props, nil
}
