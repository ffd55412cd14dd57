package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Config configures an Extractor.
type Config struct {
	// Formats lists the formats whose handlers are initialized.
	// Nil means every built-in format.
	Formats []FileType

	// MaxFileSize is the largest input accepted (default: 50 MB).
	MaxFileSize int64

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 50 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// FormatsExcept returns the built-in formats minus the disabled names.
func FormatsExcept(disabled []string) []FileType {
	skip := make(map[FileType]bool)
	for _, name := range disabled {
		skip[FileTypeFromExt(name)] = true
	}
	var out []FileType
	for _, ft := range BuiltinFileTypes() {
		if !skip[ft] {
			out = append(out, ft)
		}
	}
	return out
}

// Extractor turns files or uploaded bytes into ExtractedDocuments.
// It is safe for concurrent use; the registry is fixed at construction.
type Extractor struct {
	cfg      Config
	registry *Registry
	logger   *slog.Logger
}

// NewExtractor builds an Extractor over the default registry.
func NewExtractor(cfg Config) *Extractor {
	cfg.defaults()
	return NewExtractorWithRegistry(cfg, DefaultRegistry(cfg.Formats))
}

// NewExtractorWithRegistry builds an Extractor over a caller-supplied registry.
func NewExtractorWithRegistry(cfg Config, reg *Registry) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg, registry: reg, logger: cfg.Logger}
}

// Extract reads and parses the document at path.
func (e *Extractor) Extract(ctx context.Context, path string) (*ExtractedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrExtraction, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrExtraction, path)
	}

	ft := FileTypeFromPath(path)
	p, err := e.registry.Lookup(ft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if info.Size() > e.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: file too large: %d bytes (max %d)", ErrExtraction, info.Size(), e.cfg.MaxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrExtraction, path, err)
	}
	defer f.Close()

	doc, err := p.Parse(ctx, f, filepath.Base(path))
	if err != nil {
		e.logger.Debug("extraction failed", "path", path, "format", ft, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrExtraction, path, err)
	}
	doc.SourcePath = path
	doc.Format = ft

	e.logger.Debug("document extracted",
		"path", path,
		"format", ft,
		"pages", doc.Metadata.Pages,
		"chars", len(doc.Text),
	)
	return doc, nil
}

// ExtractBytes parses an in-memory document. hint is a MIME type or an
// extension; when it names no known format the extension of name is used.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, name, hint string) (*ExtractedDocument, error) {
	ft := FileTypeFromMIME(hint)
	if ft == FileTypeUnknown {
		ft = FileTypeFromExt(hint)
	}
	if ft == FileTypeUnknown {
		ft = FileTypeFromPath(name)
	}

	p, err := e.registry.Lookup(ft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if int64(len(data)) > e.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: upload too large: %d bytes (max %d)", ErrExtraction, len(data), e.cfg.MaxFileSize)
	}

	doc, err := p.Parse(ctx, bytes.NewReader(data), name)
	if err != nil {
		e.logger.Debug("extraction failed", "name", name, "format", ft, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrExtraction, name, err)
	}
	doc.SourcePath = name
	doc.Format = ft
	return doc, nil
}

// SupportedFormats returns the extensions the extractor can currently handle.
func (e *Extractor) SupportedFormats() []string {
	return e.registry.Extensions()
}

// IsSupported reports whether path has an extension with an available handler.
func (e *Extractor) IsSupported(path string) bool {
	_, err := e.registry.Lookup(FileTypeFromPath(path))
	return err == nil
}

// MaxFileSize returns the configured size bound.
func (e *Extractor) MaxFileSize() int64 {
	return e.cfg.MaxFileSize
}
