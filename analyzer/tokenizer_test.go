package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTokenizer(t *testing.T) {
	assert.Equal(t, "unicode", SelectTokenizer(DefaultTokenizers()...).Name())
	assert.Equal(t, "simple", SelectTokenizer(DisabledTokenizer{UnicodeTokenizer{}}, SimpleTokenizer{}).Name())
	assert.Equal(t, "simple", SelectTokenizer(nil, DisabledTokenizer{UnicodeTokenizer{}}).Name())
	assert.Equal(t, "simple", SelectTokenizer().Name())

	a := newTestAnalyzer(t, Config{Tokenizers: []Tokenizer{DisabledTokenizer{UnicodeTokenizer{}}}})
	assert.Equal(t, "simple", a.Tokenizer())
}

func TestTokenizersFor(t *testing.T) {
	tests := map[string]string{
		"":               "unicode",
		TokenizerAuto:    "unicode",
		TokenizerUnicode: "unicode",
		TokenizerSimple:  "simple",
	}
	for name, want := range tests {
		a := newTestAnalyzer(t, Config{Tokenizers: TokenizersFor(name)})
		assert.Equal(t, want, a.Tokenizer(), name)
	}
}

func TestUnicodeTokenizer(t *testing.T) {
	tok := UnicodeTokenizer{}
	assert.Equal(t, []string{"Don't", "stop", ",", "go", "!"}, tok.Words("Don't stop, go!"))
	assert.Equal(t, []string{"First one.", "Second one?", "Third"}, tok.Sentences("First one. Second one? Third"))
	assert.Empty(t, tok.Words("   "))
	assert.Empty(t, tok.Sentences(""))
}

func TestSimpleTokenizer(t *testing.T) {
	tok := SimpleTokenizer{}
	assert.Equal(t, []string{"Don't", "stop,", "go!"}, tok.Words("Don't  stop,\ngo!"))
	assert.Equal(t, []string{"First one", "Second one? Third"}, tok.Sentences("First one.. Second one? Third."))
	assert.Empty(t, tok.Sentences("..."))
}

type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }

func (brokenSource) Load() (StopWords, error) { return nil, errors.New("unreadable") }

func TestSelectStopWords(t *testing.T) {
	words, source := SelectStopWords(brokenSource{}, EmbeddedStopWords(), BuiltinStopWords())
	assert.Equal(t, "embedded", source)
	assert.Len(t, words, 179)

	words, source = SelectStopWords(nil, brokenSource{}, BuiltinStopWords())
	assert.Equal(t, "builtin", source)
	assert.True(t, words.Contains("The"))

	words, source = SelectStopWords(brokenSource{})
	assert.Equal(t, "none", source)
	assert.Empty(t, words)
	assert.False(t, words.Contains("the"))
}

func TestParseStopWordsEmpty(t *testing.T) {
	_, err := parseStopWords(strings.NewReader("# only a comment\n\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyStopWords)
}

func TestIsPunctuation(t *testing.T) {
	for _, tok := range []string{".", ",", "...", "?!", "—", "$"} {
		assert.True(t, isPunctuation(tok), tok)
	}
	for _, tok := range []string{"", "a", "a.", "42", "don't"} {
		assert.False(t, isPunctuation(tok), tok)
	}
}
