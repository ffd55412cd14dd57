package analyzer

// TextStatistics holds lexical counts of a cleaned text.
type TextStatistics struct {
	WordCount             int     `json:"word_count" yaml:"word_count"`
	SentenceCount         int     `json:"sentence_count" yaml:"sentence_count"`
	CharacterCount        int     `json:"character_count" yaml:"character_count"`
	AverageWordLength     float64 `json:"average_word_length" yaml:"average_word_length"`
	AverageSentenceLength float64 `json:"average_sentence_length" yaml:"average_sentence_length"`
}

// Keyword is a term with its frequency in the text.
type Keyword struct {
	Term      string `json:"term" yaml:"term"`
	Frequency int    `json:"frequency" yaml:"frequency"`
}

// SentimentLabel classifies a polarity score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentResult is polarity in [-1, 1], subjectivity in [0, 1] and the
// label derived from polarity.
type SentimentResult struct {
	Polarity     float64        `json:"polarity" yaml:"polarity"`
	Subjectivity float64        `json:"subjectivity" yaml:"subjectivity"`
	Label        SentimentLabel `json:"label" yaml:"label"`
}

// Entities groups capitalized-word entities by kind.
type Entities struct {
	Persons       []string `json:"persons" yaml:"persons"`
	Organizations []string `json:"organizations" yaml:"organizations"`
	Places        []string `json:"places" yaml:"places"`
}
