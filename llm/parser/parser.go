package parser

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
)

// FileType represents the type of document file
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeDocx    FileType = "docx"
	FileTypeMD      FileType = "md"
	FileTypeHTML    FileType = "html"
	FileTypeTXT     FileType = "txt"
	FileTypeUnknown FileType = "unknown"
)

// extensions lists the file extensions each type answers to.
var extensions = map[FileType][]string{
	FileTypePDF:  {"pdf"},
	FileTypeDocx: {"docx"},
	FileTypeMD:   {"md", "markdown"},
	FileTypeHTML: {"html", "htm"},
	FileTypeTXT:  {"txt"},
}

// Metadata holds document properties. Unknown values stay empty or zero.
type Metadata struct {
	Pages   int    `json:"pages" yaml:"pages"`
	Author  string `json:"author" yaml:"author"`
	Title   string `json:"title" yaml:"title"`
	Subject string `json:"subject" yaml:"subject"`
}

// ExtractedDocument is the normalized text of one document and its metadata.
type ExtractedDocument struct {
	Text       string   `json:"text" yaml:"text"`
	Metadata   Metadata `json:"metadata" yaml:"metadata"`
	SourcePath string   `json:"source_path" yaml:"source_path"`
	Format     FileType `json:"format" yaml:"format"`
}

// Parser defines the interface for document parsers
type Parser interface {
	// Parse reads a document from r. name is the file name, used for
	// title fallbacks; it may be empty.
	Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error)

	// FileType returns the file type this parser handles
	FileType() FileType
}

// slot is a registered format: a ready parser or the reason it is missing.
type slot struct {
	parser Parser
	reason string
}

// Registry holds the format handlers known to an extractor.
type Registry struct {
	slots map[FileType]slot
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[FileType]slot),
	}
}

// Register adds a ready parser to the registry
func (r *Registry) Register(p Parser) {
	r.slots[p.FileType()] = slot{parser: p}
}

// MarkUnavailable records a known format whose handler could not be set up.
func (r *Registry) MarkUnavailable(ft FileType, reason string) {
	r.slots[ft] = slot{reason: reason}
}

// Lookup returns the parser for ft.
func (r *Registry) Lookup(ft FileType) (Parser, error) {
	s, ok := r.slots[ft]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ft)
	}
	if s.parser == nil {
		return nil, fmt.Errorf("%w: %w: %s handler: %s", ErrUnsupportedFormat, ErrDependencyUnavailable, ft, s.reason)
	}
	return s.parser, nil
}

// Available returns the file types with a ready parser.
func (r *Registry) Available() []FileType {
	var out []FileType
	for ft, s := range r.slots {
		if s.parser != nil {
			out = append(out, ft)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extensions returns the sorted extensions served by ready parsers.
func (r *Registry) Extensions() []string {
	var out []string
	for _, ft := range r.Available() {
		out = append(out, extensions[ft]...)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry registers the built-in parser for every format in
// enabled and marks the remaining built-in formats unavailable. A nil
// enabled slice enables all of them.
func DefaultRegistry(enabled []FileType) *Registry {
	builtins := []Parser{
		NewTxtParser(),
		NewPDFParser(),
		NewDocxParser(),
		NewHTMLParser(),
		NewMarkdownParser(),
	}

	want := make(map[FileType]bool)
	for _, ft := range enabled {
		want[ft] = true
	}

	reg := NewRegistry()
	for _, p := range builtins {
		if enabled == nil || want[p.FileType()] {
			reg.Register(p)
			continue
		}
		reg.MarkUnavailable(p.FileType(), "not enabled at startup")
	}
	return reg
}

// BuiltinFileTypes returns every format this package can parse.
func BuiltinFileTypes() []FileType {
	return []FileType{FileTypeDocx, FileTypeHTML, FileTypeMD, FileTypePDF, FileTypeTXT}
}

// FileTypeFromExt converts a file extension to FileType
func FileTypeFromExt(ext string) FileType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FileTypePDF
	case "docx":
		return FileTypeDocx
	case "md", "markdown":
		return FileTypeMD
	case "html", "htm":
		return FileTypeHTML
	case "txt":
		return FileTypeTXT
	default:
		return FileTypeUnknown
	}
}

// FileTypeFromPath returns the FileType for a path's extension.
func FileTypeFromPath(path string) FileType {
	return FileTypeFromExt(filepath.Ext(path))
}

// FileTypeFromMIME maps a MIME type, parameters allowed, to a FileType.
func FileTypeFromMIME(mimeType string) FileType {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return FileTypeUnknown
	}
	switch mediaType {
	case "application/pdf":
		return FileTypePDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FileTypeDocx
	case "text/markdown", "text/x-markdown":
		return FileTypeMD
	case "text/html", "application/xhtml+xml":
		return FileTypeHTML
	case "text/plain":
		return FileTypeTXT
	default:
		return FileTypeUnknown
	}
}

// String returns the string representation of the FileType
func (ft FileType) String() string {
	return string(ft)
}

// baseName returns the last element of name, or "" for an empty name.
func baseName(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
