package providers

import (
	"context"
	"errors"
	"fmt"

	"docanalyzer/config"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// ErrNoProvider is returned when LLM_PROVIDER is "none".
var ErrNoProvider = errors.New("no language model provider configured")

const (
	defaultBaseURL        = "https://open.bigmodel.cn/api/paas/v4"
	defaultModel          = "glm-4-flash"
	defaultQwenBaseURL    = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	defaultQwenModel      = "qwen-plus"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultEmbeddingModel = "embedding-3"
)

// ChatModelConfig defines the configuration for creating a chat model.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func fromConfig(mc config.ModelConfig) *ChatModelConfig {
	return &ChatModelConfig{APIKey: mc.APIKey, BaseURL: mc.BaseURL, Model: mc.Model}
}

// NewChatModel creates an OpenAI-compatible chat model from specific configuration.
func NewChatModel(ctx context.Context, config *ChatModelConfig) (model.ToolCallingChatModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  config.APIKey,
		BaseURL: orDefault(config.BaseURL, defaultBaseURL),
		Model:   orDefault(config.Model, defaultModel),
	})
}

// NewQwenModel creates a DashScope Qwen chat model.
func NewQwenModel(ctx context.Context, config *ChatModelConfig) (model.ToolCallingChatModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	return qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		APIKey:  config.APIKey,
		BaseURL: orDefault(config.BaseURL, defaultQwenBaseURL),
		Model:   orDefault(config.Model, defaultQwenModel),
	})
}

// NewGeminiModel creates a Google Gemini chat model.
func NewGeminiModel(ctx context.Context, config *ChatModelConfig) (model.ToolCallingChatModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when using the gemini provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client: client,
		Model:  orDefault(config.Model, defaultGeminiModel),
	})
}

// CreateChatModel creates the chat model selected by LLM_PROVIDER:
//   - openai: API_KEY, BASE_URL, MODEL
//   - qwen: SUMMARY_MODEL_API_KEY, SUMMARY_MODEL_BASE_URL, SUMMARY_MODEL
//   - gemini: GEMINI_API_KEY, GEMINI_MODEL
func CreateChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewChatModel(ctx, fromConfig(cfg.Chat))
	case config.ProviderQwen:
		return NewQwenModel(ctx, fromConfig(cfg.Summary))
	case config.ProviderGemini:
		return NewGeminiModel(ctx, fromConfig(cfg.Gemini))
	case config.ProviderNone, "":
		return nil, ErrNoProvider
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// CreateSummaryModel returns the dedicated Qwen summary model when
// SUMMARY_MODEL_API_KEY is set and the provider's chat model otherwise.
func CreateSummaryModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	if cfg.Provider == config.ProviderNone || cfg.Provider == "" {
		return nil, ErrNoProvider
	}
	if cfg.Summary.APIKey != "" {
		return NewQwenModel(ctx, fromConfig(cfg.Summary))
	}
	return CreateChatModel(ctx, cfg)
}

// EmbeddingConfig defines the configuration for creating an embedding model.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewEmbeddingModel creates an OpenAI-compatible embedding model from specific configuration.
func NewEmbeddingModel(ctx context.Context, config *EmbeddingConfig) (einoEmbedding.Embedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  config.APIKey,
		BaseURL: orDefault(config.BaseURL, defaultBaseURL),
		Model:   orDefault(config.Model, defaultEmbeddingModel),
	})
}

// CreateEmbeddingModel creates the embedding model from EMBEDDING_MODEL_* settings.
func CreateEmbeddingModel(ctx context.Context, cfg *config.Config) (einoEmbedding.Embedder, error) {
	if cfg.Embedding.APIKey == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL_API_KEY environment variable is required")
	}

	return NewEmbeddingModel(ctx, &EmbeddingConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
