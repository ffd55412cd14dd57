package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(formats []FileType) *Extractor {
	return NewExtractor(Config{
		Formats: formats,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", []byte("hello"))
	pdfPath := writeFile(t, dir, "report.pdf", buildPDF(t, nil, []string{"Hello"}))
	unknown := writeFile(t, dir, "image.png", []byte{0x89, 'P', 'N', 'G'})
	corrupt := writeFile(t, dir, "broken.docx", []byte("not a zip archive"))

	tests := []struct {
		name    string
		formats []FileType
		path    string
		wantIs  []error
		wantNot []error
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.txt"),
			wantIs:  []error{ErrNotFound},
			wantNot: []error{ErrExtraction},
		},
		{
			name:    "unknown extension",
			path:    unknown,
			wantIs:  []error{ErrUnsupportedFormat},
			wantNot: []error{ErrDependencyUnavailable},
		},
		{
			name:    "handler not initialized",
			formats: []FileType{FileTypeTXT},
			path:    pdfPath,
			wantIs:  []error{ErrDependencyUnavailable, ErrUnsupportedFormat},
		},
		{
			name:    "corrupt archive",
			path:    corrupt,
			wantIs:  []error{ErrExtraction},
			wantNot: []error{ErrUnsupportedFormat},
		},
		{
			name:   "directory",
			path:   dir,
			wantIs: []error{ErrExtraction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(tt.formats)
			doc, err := e.Extract(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, doc)
			for _, target := range tt.wantIs {
				assert.True(t, errors.Is(err, target), "expected %v in %v", target, err)
			}
			for _, target := range tt.wantNot {
				assert.False(t, errors.Is(err, target), "unexpected %v in %v", target, err)
			}
		})
	}

	// the plain text file is fine with the same extractor
	doc, err := newTestExtractor(nil).Extract(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Text)
}

func TestExtractFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.txt", []byte(strings.Repeat("a", 64)))

	e := NewExtractor(Config{MaxFileSize: 16, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "too large")
}

func TestExtractSetsSourceAndFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Guide.MD", []byte("# Guide\n\nRead me."))

	doc, err := newTestExtractor(nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.SourcePath)
	assert.Equal(t, FileTypeMD, doc.Format)
	assert.Equal(t, "Guide", doc.Metadata.Title)
}

func TestSupportedFormats(t *testing.T) {
	all := newTestExtractor(nil)
	assert.Equal(t, []string{"docx", "htm", "html", "markdown", "md", "pdf", "txt"}, all.SupportedFormats())

	textOnly := newTestExtractor(FormatsExcept([]string{"pdf", "docx", "html", "md"}))
	assert.Equal(t, []string{"txt"}, textOnly.SupportedFormats())

	assert.True(t, all.IsSupported("/tmp/a.PDF"))
	assert.True(t, all.IsSupported("page.htm"))
	assert.False(t, all.IsSupported("archive.doc"))
	assert.False(t, all.IsSupported("noext"))
	assert.False(t, textOnly.IsSupported("scan.pdf"))
	assert.True(t, textOnly.IsSupported("notes.txt"))
}

func TestFormatsExcept(t *testing.T) {
	assert.Equal(t, BuiltinFileTypes(), FormatsExcept(nil))
	assert.Equal(t,
		[]FileType{FileTypeDocx, FileTypeHTML, FileTypeTXT},
		FormatsExcept([]string{"pdf", "markdown"}),
	)
}

func TestExtractBytesHints(t *testing.T) {
	pdfData := buildPDF(t, map[string]string{"Title": "Upload"}, []string{"Uploaded text"})

	tests := []struct {
		name       string
		data       []byte
		fileName   string
		hint       string
		wantFormat FileType
		wantText   string
	}{
		{
			name:       "mime type wins",
			data:       pdfData,
			fileName:   "upload.bin",
			hint:       "application/pdf",
			wantFormat: FileTypePDF,
			wantText:   "Uploaded text",
		},
		{
			name:       "mime with parameters",
			data:       []byte("plain words"),
			fileName:   "blob",
			hint:       "text/plain; charset=utf-8",
			wantFormat: FileTypeTXT,
			wantText:   "plain words",
		},
		{
			name:       "extension hint",
			data:       []byte("<html><body><p>Hi there</p></body></html>"),
			fileName:   "blob",
			hint:       ".html",
			wantFormat: FileTypeHTML,
			wantText:   "Hi there",
		},
		{
			name:       "falls back to name",
			data:       []byte("# Notes\n\n*plain*"),
			fileName:   "notes.md",
			hint:       "application/octet-stream",
			wantFormat: FileTypeMD,
			wantText:   "Notes\nplain",
		},
	}

	e := newTestExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := e.ExtractBytes(context.Background(), tt.data, tt.fileName, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, doc.Format)
			assert.Equal(t, tt.wantText, doc.Text)
			assert.Equal(t, tt.fileName, doc.SourcePath)
		})
	}
}

func TestExtractBytesErrors(t *testing.T) {
	e := NewExtractor(Config{
		Formats:     []FileType{FileTypeTXT},
		MaxFileSize: 8,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := e.ExtractBytes(context.Background(), []byte("x"), "a.xyz", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = e.ExtractBytes(context.Background(), []byte("x"), "a.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)

	_, err = e.ExtractBytes(context.Background(), []byte("much longer than eight"), "a.txt", "")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestFileTypeFromMIME(t *testing.T) {
	tests := map[string]FileType{
		"application/pdf": FileTypePDF,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDocx,
		"text/markdown":            FileTypeMD,
		"text/html; charset=utf-8": FileTypeHTML,
		"TEXT/PLAIN":               FileTypeTXT,
		"image/png":                FileTypeUnknown,
		"":                         FileTypeUnknown,
		"pdf":                      FileTypeUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, FileTypeFromMIME(in), in)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewTxtParser())
	reg.MarkUnavailable(FileTypePDF, "library missing")

	p, err := reg.Lookup(FileTypeTXT)
	require.NoError(t, err)
	assert.Equal(t, FileTypeTXT, p.FileType())

	_, err = reg.Lookup(FileTypePDF)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Contains(t, err.Error(), "library missing")

	_, err = reg.Lookup(FileTypeDocx)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, ErrDependencyUnavailable)

	assert.Equal(t, []FileType{FileTypeTXT}, reg.Available())
	assert.Equal(t, []string{"txt"}, reg.Extensions())
}

// upperParser reports the file content in upper case.
type upperParser struct{}

func (upperParser) Parse(ctx context.Context, r io.Reader, name string) (*ExtractedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &ExtractedDocument{Text: strings.ToUpper(string(data)), Metadata: Metadata{Pages: 1}}, nil
}

func (upperParser) FileType() FileType { return FileTypeTXT }

func TestNewExtractorWithRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(upperParser{})
	reg.MarkUnavailable(FileTypePDF, "not bundled")

	e := NewExtractorWithRegistry(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, reg)
	assert.Equal(t, []string{"txt"}, e.SupportedFormats())

	path := writeFile(t, t.TempDir(), "note.txt", []byte("quiet words"))
	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "QUIET WORDS", doc.Text)
	assert.Equal(t, FileTypeTXT, doc.Format)

	_, err = e.ExtractBytes(context.Background(), []byte("%PDF"), "scan.pdf", "")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}
