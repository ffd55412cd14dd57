package analyzer

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stopwords_en.txt
var embeddedStopWords string

// StopWords is a set of lower-cased words ignored by keyword extraction.
type StopWords map[string]struct{}

// Contains reports whether word, lower-cased, is a stop-word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// StopWordSource loads a stop-word list.
type StopWordSource interface {
	Name() string
	Load() (StopWords, error)
}

var errEmptyStopWords = errors.New("stop-word list is empty")

// SelectStopWords returns the first list that loads with at least one word,
// along with the name of its source. An empty set is returned when every
// source fails.
func SelectStopWords(sources ...StopWordSource) (StopWords, string) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		words, err := src.Load()
		if err != nil {
			continue
		}
		return words, src.Name()
	}
	return StopWords{}, "none"
}

type fileStopWords struct {
	path string
}

// FileStopWords reads one word per line from path. Blank lines and lines
// starting with "#" are skipped.
func FileStopWords(path string) StopWordSource {
	return fileStopWords{path: path}
}

func (f fileStopWords) Name() string { return "file:" + f.path }

func (f fileStopWords) Load() (StopWords, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-word file: %w", err)
	}
	defer file.Close()
	return parseStopWords(file)
}

type readerStopWords struct {
	name string
	text string
}

// EmbeddedStopWords is the full English stop-word list compiled into the binary.
func EmbeddedStopWords() StopWordSource {
	return readerStopWords{name: "embedded", text: embeddedStopWords}
}

func (r readerStopWords) Name() string { return r.name }

func (r readerStopWords) Load() (StopWords, error) {
	return parseStopWords(strings.NewReader(r.text))
}

// builtinWords is the last resort list of the most frequent function words.
var builtinWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "he", "her", "his",
	"i", "in", "is", "it", "its", "of", "on", "or", "she", "that", "the", "their",
	"them", "they", "this", "to", "was", "we", "were", "with", "you",
}

type builtinStopWords struct{}

// BuiltinStopWords is a small list that always loads.
func BuiltinStopWords() StopWordSource {
	return builtinStopWords{}
}

func (builtinStopWords) Name() string { return "builtin" }

func (builtinStopWords) Load() (StopWords, error) {
	set := make(StopWords, len(builtinWords))
	for _, w := range builtinWords {
		set[w] = struct{}{}
	}
	return set, nil
}

func parseStopWords(r io.Reader) (StopWords, error) {
	set := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop-words: %w", err)
	}
	if len(set) == 0 {
		return nil, errEmptyStopWords
	}
	return set, nil
}
