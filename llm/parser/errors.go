package parser

import "errors"

// Extraction failures. Callers test them with errors.Is.
var (
	// ErrNotFound means the input path does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedFormat means no available handler serves the extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDependencyUnavailable means the format is known but its handler
	// was not initialized at startup. Errors carrying it also match
	// ErrUnsupportedFormat.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrExtraction wraps a handler failure on a recognized format.
	ErrExtraction = errors.New("extraction failed")
)
