package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Summarizer produces an abstractive summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

const summarySystemPrompt = `You are a precise document summarizer.
Write a faithful summary of the document the user provides.
Use plain prose without headings, lists or markdown.
Do not add facts that are not in the document.
Reply with the summary only.`

const summaryUserPrompt = `Summarize the following document in {min_length} to {max_length} words.

Document:
{text}`

// ChatSummarizer summarizes with a chat model through a prompt template.
type ChatSummarizer struct {
	model    model.BaseChatModel
	template prompt.ChatTemplate
}

// NewChatSummarizer creates a summarizer backed by chatModel.
func NewChatSummarizer(chatModel model.BaseChatModel) *ChatSummarizer {
	return &ChatSummarizer{
		model: chatModel,
		template: prompt.FromMessages(schema.FString,
			schema.SystemMessage(summarySystemPrompt),
			schema.UserMessage(summaryUserPrompt),
		),
	}
}

// Summarize asks the model for a summary of at most maxLength tokens.
func (s *ChatSummarizer) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	messages, err := s.template.Format(ctx, map[string]any{
		"text":       text,
		"min_length": minLength,
		"max_length": maxLength,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format summary prompt: %w", err)
	}

	resp, err := s.model.Generate(ctx, messages,
		model.WithMaxTokens(maxLength),
		model.WithTemperature(0),
	)
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errors.New("empty summary returned")
	}
	return strings.TrimSpace(resp.Content), nil
}
