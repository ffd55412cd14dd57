package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z}.,!?;:]`)
)

// Clean collapses whitespace runs to one space, drops every character
// that is not a word character, whitespace or one of ".,!?;:" and trims.
func (a *Analyzer) Clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// BasicStatistics counts words, sentences and characters of the cleaned text.
func (a *Analyzer) BasicStatistics(text string) TextStatistics {
	cleaned := a.Clean(text)
	if cleaned == "" {
		return TextStatistics{}
	}

	words := a.contentWords(cleaned)
	sentenceCount := len(a.tokenizer.Sentences(cleaned))
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	stats := TextStatistics{
		WordCount:      len(words),
		SentenceCount:  sentenceCount,
		CharacterCount: len([]rune(cleaned)),
	}
	if len(words) > 0 {
		letters := 0
		for _, w := range words {
			letters += len([]rune(w))
		}
		stats.AverageWordLength = float64(letters) / float64(len(words))
		stats.AverageSentenceLength = float64(len(words)) / float64(sentenceCount)
	}
	return stats
}

// ExtractKeywords returns at most topN terms ranked by descending frequency.
// Terms with equal frequency keep the order of their first occurrence.
func (a *Analyzer) ExtractKeywords(text string, topN int) []Keyword {
	if topN <= 0 {
		return []Keyword{}
	}
	cleaned := strings.ToLower(a.Clean(text))
	if cleaned == "" {
		return []Keyword{}
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range a.tokenizer.Words(cleaned) {
		term := strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if len([]rune(term)) <= 2 || a.stopWords.Contains(term) {
			continue
		}
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}

	keywords := make([]Keyword, 0, len(order))
	for _, term := range order {
		keywords = append(keywords, Keyword{Term: term, Frequency: counts[term]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Frequency > keywords[j].Frequency
	})
	if len(keywords) > topN {
		keywords = keywords[:topN]
	}
	return keywords
}

// Readability computes the Flesch Reading Ease of the raw text, rounded to
// two decimals and clamped to [0, 100]. It is 0 when the text has no
// words or no sentences.
func (a *Analyzer) Readability(text string) float64 {
	words := a.contentWords(text)
	sentences := a.tokenizer.Sentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return 0
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(countSyllables(text)) / float64(len(words))
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord

	score = math.Max(0, math.Min(100, score))
	return math.Round(score*100) / 100
}

// countSyllables estimates syllables over the whole text by counting the
// starts of vowel groups. A trailing "e" is discounted and the result is
// at least 1 for non-empty text.
func countSyllables(text string) int {
	runes := []rune(strings.ToLower(text))
	if len(runes) == 0 {
		return 0
	}

	count := 0
	if isVowel(runes[0]) {
		count++
	}
	for i := 1; i < len(runes); i++ {
		if isVowel(runes[i]) && !isVowel(runes[i-1]) {
			count++
		}
	}
	if runes[len(runes)-1] == 'e' {
		count--
	}
	if count <= 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouy", r)
}

// ReadabilityLevel maps a Flesch score to its reading-ease band.
func ReadabilityLevel(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}
