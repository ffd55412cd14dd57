package processor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"docanalyzer/analyzer"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel replies with a fixed message or error and records its calls.
type fakeChatModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	inputs  [][]*schema.Message
	options []*model.Options
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.options = append(f.options, model.GetCommonOptions(&model.Options{}, opts...))
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// lastUserMessage returns the content of the last user message of the last call.
func (f *fakeChatModel) lastUserMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		return ""
	}
	msgs := f.inputs[len(f.inputs)-1]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == schema.User {
			return msgs[i].Content
		}
	}
	return ""
}

// bagOfWordsEmbedder embeds text as counts over a fixed vocabulary.
type bagOfWordsEmbedder struct {
	vocabulary []string
	err        error
}

func (b *bagOfWordsEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(b.vocabulary))
		words := strings.Fields(strings.ToLower(text))
		for j, term := range b.vocabulary {
			for _, w := range words {
				if strings.Trim(w, ".,?!") == term {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAnalyzer() *analyzer.Analyzer {
	return analyzer.New(analyzer.Config{Logger: discardLogger()})
}
