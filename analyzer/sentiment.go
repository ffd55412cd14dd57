package analyzer

import (
	"bufio"
	_ "embed"
	"math"
	"regexp"
	"strconv"
	"strings"
)

//go:embed lexicon_en.txt
var embeddedLexicon string

// SentimentScorer computes polarity and subjectivity of a text.
type SentimentScorer interface {
	Score(text string) (polarity, subjectivity float64, err error)
}

// Sentiment scores the text with the configured scorer and labels it
// positive above 0.1, negative below -0.1 and neutral otherwise. Empty
// text or a scorer error gives the neutral zero result.
func (a *Analyzer) Sentiment(text string) SentimentResult {
	neutral := SentimentResult{Label: SentimentNeutral}
	if strings.TrimSpace(text) == "" || a.scorer == nil {
		return neutral
	}

	polarity, subjectivity, err := a.scorer.Score(text)
	if err != nil {
		a.logger.Warn("sentiment scoring failed", "error", err)
		return neutral
	}

	polarity = clamp(polarity, -1, 1)
	subjectivity = clamp(subjectivity, 0, 1)
	return SentimentResult{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        LabelFor(polarity),
	}
}

// LabelFor maps a polarity score to its label.
func LabelFor(polarity float64) SentimentLabel {
	switch {
	case polarity > 0.1:
		return SentimentPositive
	case polarity < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SubjectivityLabel is "subjective" above 0.6 and "objective" otherwise.
func SubjectivityLabel(subjectivity float64) string {
	if subjectivity > 0.6 {
		return "subjective"
	}
	return "objective"
}

type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// LexiconScorer averages word scores from a polarity lexicon. A preceding
// intensifier scales the next scored word and a negation within the two
// previous words flips and halves its polarity.
type LexiconScorer struct {
	lexicon      map[string]lexiconEntry
	intensifiers map[string]float64
	negations    map[string]struct{}
}

var lexiconWordRe = regexp.MustCompile(`[\p{L}']+`)

// NewLexiconScorer loads the embedded English lexicon.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		lexicon: parseLexicon(embeddedLexicon),
		intensifiers: map[string]float64{
			"very":       1.3,
			"really":     1.3,
			"extremely":  1.5,
			"incredibly": 1.5,
			"highly":     1.3,
			"so":         1.2,
			"quite":      1.1,
			"too":        1.2,
			"slightly":   0.5,
			"somewhat":   0.7,
		},
		negations: map[string]struct{}{
			"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {}, "without": {},
			"isn't": {}, "aren't": {}, "wasn't": {}, "weren't": {}, "don't": {}, "doesn't": {},
			"didn't": {}, "can't": {}, "cannot": {}, "won't": {}, "couldn't": {}, "shouldn't": {},
		},
	}
}

// Score returns the mean polarity and subjectivity of the lexicon words
// found in text, or zeros when none is found.
func (s *LexiconScorer) Score(text string) (float64, float64, error) {
	tokens := lexiconWordRe.FindAllString(strings.ToLower(text), -1)

	var polaritySum, subjectivitySum float64
	hits := 0
	for i, tok := range tokens {
		entry, ok := s.lexicon[strings.Trim(tok, "'")]
		if !ok {
			continue
		}
		polarity, subjectivity := entry.polarity, entry.subjectivity

		if i > 0 {
			if factor, ok := s.intensifiers[tokens[i-1]]; ok {
				polarity *= factor
				subjectivity *= factor
			}
		}
		for back := 1; back <= 2 && i-back >= 0; back++ {
			if _, ok := s.negations[tokens[i-back]]; ok {
				polarity *= -0.5
				break
			}
		}

		polaritySum += clamp(polarity, -1, 1)
		subjectivitySum += clamp(subjectivity, 0, 1)
		hits++
	}
	if hits == 0 {
		return 0, 0, nil
	}
	return polaritySum / float64(hits), subjectivitySum / float64(hits), nil
}

func parseLexicon(text string) map[string]lexiconEntry {
	lexicon := make(map[string]lexiconEntry)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		polarity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		subjectivity, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		lexicon[strings.ToLower(fields[0])] = lexiconEntry{polarity: polarity, subjectivity: subjectivity}
	}
	return lexicon
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
