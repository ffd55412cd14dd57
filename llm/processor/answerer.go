package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"docanalyzer/llm/vector"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Answer is an extractive answer with its confidence in [0, 1].
type Answer struct {
	Answer     string  `json:"answer" yaml:"answer"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// QuestionAnswerer answers a question from the text of a document.
type QuestionAnswerer interface {
	Answer(ctx context.Context, document, question string) (Answer, error)
}

// NoAnswerMessage is returned when the document holds no answer.
const NoAnswerMessage = "No answer found in the document."

const qaSystemPrompt = `You answer questions about a document using only the document text.
Copy the shortest exact span of the document that answers the question.
Reply with a JSON object with the keys "answer" (the copied span, or an empty string when the document does not answer the question) and "confidence" (a number between 0 and 1).
Reply with the JSON object only.`

const qaUserPrompt = `Document:
{context}

Question: {question}`

// defaultMaxContext bounds the document text sent to the chat model.
const defaultMaxContext = 12000

// ChatAnswerer asks a chat model to extract an answer span.
type ChatAnswerer struct {
	model      model.BaseChatModel
	template   prompt.ChatTemplate
	maxContext int
}

// NewChatAnswerer creates an answerer backed by chatModel.
func NewChatAnswerer(chatModel model.BaseChatModel) *ChatAnswerer {
	return &ChatAnswerer{
		model: chatModel,
		template: prompt.FromMessages(schema.FString,
			schema.SystemMessage(qaSystemPrompt),
			schema.UserMessage(qaUserPrompt),
		),
		maxContext: defaultMaxContext,
	}
}

type chatAnswer struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// Answer halves the model's confidence when its answer is not a span of the document.
func (a *ChatAnswerer) Answer(ctx context.Context, document, question string) (Answer, error) {
	messages, err := a.template.Format(ctx, map[string]any{
		"context":  truncateRunes(document, a.maxContext),
		"question": question,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("failed to format question prompt: %w", err)
	}

	resp, err := a.model.Generate(ctx, messages, model.WithTemperature(0))
	if err != nil {
		return Answer{}, err
	}
	if resp == nil {
		return Answer{}, errors.New("empty response")
	}

	parsed, err := parseChatAnswer(resp.Content)
	if err != nil {
		return Answer{}, err
	}

	answer := strings.TrimSpace(parsed.Answer)
	if answer == "" {
		return Answer{Answer: NoAnswerMessage, Confidence: 0}, nil
	}
	confidence := parsed.Confidence
	if !strings.Contains(strings.ToLower(document), strings.ToLower(answer)) {
		confidence /= 2
	}
	return Answer{Answer: answer, Confidence: confidence}, nil
}

// parseChatAnswer reads the JSON object out of a reply that may be wrapped
// in a code fence or surrounded by prose.
func parseChatAnswer(content string) (chatAnswer, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return chatAnswer{}, fmt.Errorf("no JSON object in reply: %q", truncateRunes(content, 80))
	}

	var parsed chatAnswer
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return chatAnswer{}, fmt.Errorf("invalid answer JSON: %w", err)
	}
	return parsed, nil
}

// EmbeddingAnswerer answers with the document passage most similar to the
// question. Confidence is the cosine similarity.
type EmbeddingAnswerer struct {
	embedder embedding.Embedder
	chunks   vector.ChunkConfig
}

// NewEmbeddingAnswerer creates an answerer backed by embedder.
func NewEmbeddingAnswerer(embedder embedding.Embedder) *EmbeddingAnswerer {
	return &EmbeddingAnswerer{
		embedder: embedder,
		chunks:   vector.DefaultChunkConfig(),
	}
}

func (a *EmbeddingAnswerer) Answer(ctx context.Context, document, question string) (Answer, error) {
	index := vector.NewMemoryIndex(a.embedder)
	if err := index.AddChunks(ctx, vector.ChunkText(document, a.chunks)); err != nil {
		return Answer{}, err
	}

	results, err := index.Search(ctx, question, 1)
	if err != nil {
		return Answer{}, err
	}
	if len(results) == 0 {
		return Answer{Answer: NoAnswerMessage, Confidence: 0}, nil
	}
	return Answer{
		Answer:     results[0].Passage.Content,
		Confidence: results[0].Score,
	}, nil
}
