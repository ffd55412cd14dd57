package analyzer

import (
	"errors"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"
)

// Tokenizer splits text into words and sentences.
type Tokenizer interface {
	Name() string
	// Ready reports whether the tokenizer can be used.
	Ready() error
	Words(text string) []string
	Sentences(text string) []string
}

// DefaultTokenizers is the preferred order: Unicode segmentation first,
// plain splitting last.
func DefaultTokenizers() []Tokenizer {
	return []Tokenizer{UnicodeTokenizer{}, SimpleTokenizer{}}
}

// Tokenizer names accepted by TokenizersFor.
const (
	TokenizerAuto    = "auto"
	TokenizerUnicode = "unicode"
	TokenizerSimple  = "simple"
)

// TokenizersFor builds the fallback chain for a configured tokenizer name.
// "simple" switches Unicode segmentation off; anything else keeps the
// default order.
func TokenizersFor(name string) []Tokenizer {
	if name == TokenizerSimple {
		return []Tokenizer{DisabledTokenizer{UnicodeTokenizer{}}, SimpleTokenizer{}}
	}
	return DefaultTokenizers()
}

// SelectTokenizer returns the first ready tokenizer. SimpleTokenizer is
// returned when none is ready.
func SelectTokenizer(candidates ...Tokenizer) Tokenizer {
	for _, t := range candidates {
		if t == nil {
			continue
		}
		if err := t.Ready(); err == nil {
			return t
		}
	}
	return SimpleTokenizer{}
}

// UnicodeTokenizer segments text with the Unicode word and sentence
// boundary rules (UAX #29).
type UnicodeTokenizer struct{}

func (UnicodeTokenizer) Name() string { return "unicode" }

func (UnicodeTokenizer) Ready() error { return nil }

// Words returns word and punctuation tokens. Whitespace segments are dropped.
func (UnicodeTokenizer) Words(text string) []string {
	var out []string
	it := words.FromString(text)
	for it.Next() {
		tok := it.Value()
		if strings.TrimSpace(tok) == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (UnicodeTokenizer) Sentences(text string) []string {
	var out []string
	it := sentences.FromString(text)
	for it.Next() {
		s := strings.TrimSpace(it.Value())
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SimpleTokenizer splits sentences on "." and words on whitespace.
type SimpleTokenizer struct{}

func (SimpleTokenizer) Name() string { return "simple" }

func (SimpleTokenizer) Ready() error { return nil }

func (SimpleTokenizer) Words(text string) []string {
	return strings.Fields(text)
}

func (SimpleTokenizer) Sentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// errTokenizerDisabled is returned by tokenizers switched off at startup.
var errTokenizerDisabled = errors.New("tokenizer disabled")

// DisabledTokenizer wraps a tokenizer and reports it as not ready, so the
// chain falls through to the next candidate.
type DisabledTokenizer struct {
	Tokenizer
}

func (d DisabledTokenizer) Ready() error {
	return errTokenizerDisabled
}

// isPunctuation reports whether tok consists only of punctuation or symbols.
func isPunctuation(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// contentWords tokenizes text and drops punctuation-only tokens.
func (a *Analyzer) contentWords(text string) []string {
	toks := a.tokenizer.Words(text)
	out := toks[:0]
	for _, tok := range toks {
		if isPunctuation(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
