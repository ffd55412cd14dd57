package vector

import (
	"strings"
	"unicode"
)

// ChunkConfig configures how a document is split into passages
type ChunkConfig struct {
	ChunkSize    int // Maximum passage size in runes
	ChunkOverlap int // Runes carried over from the previous passage
	MinChunkSize int // Passages shorter than this are dropped
}

// DefaultChunkConfig returns passage sizes suited to question answering:
// short enough that the best passage reads as an answer.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    400,
		ChunkOverlap: 0,
		MinChunkSize: 1,
	}
}

// Chunk is one passage of a document
type Chunk struct {
	Content    string
	ChunkIndex int
}

// ChunkText packs whole sentences into passages of at most ChunkSize runes,
// not counting the overlap carried from the previous passage. A sentence
// longer than ChunkSize is split at fixed width.
func ChunkText(content string, config ChunkConfig) []Chunk {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 400
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = 0
	}
	if config.MinChunkSize <= 0 {
		config.MinChunkSize = 1
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return []Chunk{}
	}

	var passages []string
	var current []rune
	fresh := false // current holds a sentence not yet emitted
	emit := func() {
		text := strings.TrimSpace(string(current))
		passages = append(passages, text)
		current = current[:0]
		fresh = false
		if config.ChunkOverlap > 0 {
			current = append(current, []rune(tailOverlap(text, config.ChunkOverlap))...)
			current = append(current, ' ')
		}
	}

	for _, sentence := range splitIntoSentences(content) {
		runes := []rune(sentence)
		if len(runes) > config.ChunkSize {
			if fresh {
				emit()
			}
			passages = append(passages, forceSplit(runes, config.ChunkSize, config.ChunkOverlap)...)
			current = current[:0]
			continue
		}
		if fresh && len(current)+len(runes) > config.ChunkSize {
			emit()
		}
		current = append(current, runes...)
		current = append(current, ' ')
		fresh = true
	}
	if fresh {
		emit()
	}

	chunks := make([]Chunk, 0, len(passages))
	for _, p := range passages {
		if len([]rune(p)) < config.MinChunkSize {
			continue
		}
		chunks = append(chunks, Chunk{Content: p, ChunkIndex: len(chunks)})
	}
	return chunks
}

// splitIntoSentences splits text after sentence-ending punctuation followed
// by whitespace, a closing quote or bracket, or the end of the text
func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if isSentenceEnd(runes[i]) {
			next := runeAt(runes, i+1)
			if next == 0 || unicode.IsSpace(next) || next == '"' || next == '\'' || next == ')' || next == ']' {
				if sentence := strings.TrimSpace(current.String()); sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '。' || r == '！' || r == '？'
}

// runeAt returns the rune at i or 0 when out of bounds
func runeAt(runes []rune, i int) rune {
	if i < 0 || i >= len(runes) {
		return 0
	}
	return runes[i]
}

// tailOverlap returns the last size runes of text, starting at a word boundary when possible
func tailOverlap(text string, size int) string {
	runes := []rune(text)
	if size <= 0 || len(runes) == 0 {
		return ""
	}
	if size >= len(runes) {
		return text
	}

	tail := string(runes[len(runes)-size:])
	if firstSpace := strings.Index(tail, " "); firstSpace > 0 {
		return tail[firstSpace+1:]
	}
	return tail
}

// forceSplit cuts runes into fixed-size pieces
func forceSplit(runes []rune, size, overlap int) []string {
	var pieces []string
	for start := 0; start < len(runes); {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			pieces = append(pieces, piece)
		}
		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return pieces
}
