// Package analyzer implements the deterministic text statistics engine:
// cleaning, counts, keyword frequency, sentiment and readability.
package analyzer

import (
	"log/slog"
)

// Config configures an Analyzer. Zero values select the defaults.
type Config struct {
	// StopWordsFile is a list with one stop-word per line. When empty or
	// unreadable the embedded English list is used.
	StopWordsFile string
	// Tokenizers are tried in order; the first ready one is used.
	// Defaults to UnicodeTokenizer then SimpleTokenizer.
	Tokenizers []Tokenizer
	// Scorer computes sentiment. Defaults to the embedded lexicon.
	Scorer SentimentScorer
	Logger *slog.Logger
}

// Analyzer runs text statistics. It holds read-only state resolved at
// construction and is safe for concurrent use.
type Analyzer struct {
	tokenizer Tokenizer
	stopWords StopWords
	scorer    SentimentScorer
	logger    *slog.Logger
}

// New resolves the tokenizer and stop-word fallback chains once.
func New(cfg Config) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokenizers := cfg.Tokenizers
	if len(tokenizers) == 0 {
		tokenizers = DefaultTokenizers()
	}
	tokenizer := SelectTokenizer(tokenizers...)

	var sources []StopWordSource
	if cfg.StopWordsFile != "" {
		sources = append(sources, FileStopWords(cfg.StopWordsFile))
	}
	sources = append(sources, EmbeddedStopWords(), BuiltinStopWords())
	stopWords, source := SelectStopWords(sources...)

	scorer := cfg.Scorer
	if scorer == nil {
		scorer = NewLexiconScorer()
	}

	logger.Debug("analyzer ready",
		"tokenizer", tokenizer.Name(),
		"stopwords", source,
		"stopword_count", len(stopWords),
	)

	return &Analyzer{
		tokenizer: tokenizer,
		stopWords: stopWords,
		scorer:    scorer,
		logger:    logger,
	}
}

// Tokenizer returns the name of the tokenizer selected at construction.
func (a *Analyzer) Tokenizer() string {
	return a.tokenizer.Name()
}

// Sentences splits text with the selected tokenizer.
func (a *Analyzer) Sentences(text string) []string {
	return a.tokenizer.Sentences(text)
}
