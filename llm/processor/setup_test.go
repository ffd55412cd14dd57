package processor

import (
	"context"
	"testing"

	"docanalyzer/config"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name           string
		cfg            config.Config
		wantSummarizer bool
		wantQA         bool
		wantQAReason   string
	}{
		{
			name:         "no provider",
			cfg:          config.Config{Provider: config.ProviderNone, QAStrategy: config.QAStrategyChat, TopKeywords: 10},
			wantQAReason: "no language model provider configured",
		},
		{
			name:         "provider without key",
			cfg:          config.Config{Provider: config.ProviderOpenAI, QAStrategy: config.QAStrategyChat, TopKeywords: 10},
			wantQAReason: "API key is required in config",
		},
		{
			name: "openai chat",
			cfg: config.Config{
				Provider:    config.ProviderOpenAI,
				Chat:        config.ModelConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1/v1"},
				QAStrategy:  config.QAStrategyChat,
				TopKeywords: 10,
			},
			wantSummarizer: true,
			wantQA:         true,
		},
		{
			name: "qa disabled",
			cfg: config.Config{
				Provider:    config.ProviderOpenAI,
				Chat:        config.ModelConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1/v1"},
				QAStrategy:  config.QAStrategyNone,
				TopKeywords: 10,
			},
			wantSummarizer: true,
			wantQAReason:   "question answering disabled",
		},
		{
			name: "embedding without key",
			cfg: config.Config{
				Provider:    config.ProviderNone,
				QAStrategy:  config.QAStrategyEmbedding,
				TopKeywords: 10,
			},
			wantQAReason: "EMBEDDING_MODEL_API_KEY environment variable is required",
		},
		{
			name: "embedding only",
			cfg: config.Config{
				Provider:    config.ProviderNone,
				QAStrategy:  config.QAStrategyEmbedding,
				Embedding:   config.ModelConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1/v1"},
				TopKeywords: 10,
			},
			wantQA: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Setup(ctx, &tt.cfg, newTestAnalyzer(), discardLogger())
			status := p.Capabilities()
			assert.Equal(t, tt.wantSummarizer, status.Summarizer)
			assert.Equal(t, tt.wantQA, status.QA)
			if tt.wantQAReason != "" {
				assert.Equal(t, tt.wantQAReason, status.QAReason)
			}
		})
	}
}

func TestSetupWithoutModelsStillAnalyzes(t *testing.T) {
	p := Setup(context.Background(), &config.Config{Provider: config.ProviderNone, QAStrategy: config.QAStrategyChat, TopKeywords: 2}, newTestAnalyzer(), discardLogger())

	analysis := p.AnalyzeDocument(context.Background(), longDocument)
	assert.Len(t, analysis.Keywords, 2)
	assert.NotEmpty(t, analysis.Summary)
	assert.Equal(t, GuidanceMessage, p.AnswerQuestion(context.Background(), longDocument, "What?").Answer)
}
