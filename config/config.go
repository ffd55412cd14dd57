package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderQwen   = "qwen"
	ProviderGemini = "gemini"
)

// QA strategies accepted by QA_STRATEGY.
const (
	QAStrategyChat      = "chat"
	QAStrategyEmbedding = "embedding"
	QAStrategyNone      = "none"
)

// Tokenizer names accepted by TOKENIZER.
const (
	TokenizerAuto    = "auto"
	TokenizerUnicode = "unicode"
	TokenizerSimple  = "simple"
)

// Config holds everything resolved at process start.
type Config struct {
	Provider string
	Chat     ModelConfig
	Summary  ModelConfig
	Gemini   ModelConfig

	QAStrategy string
	Embedding  ModelConfig

	CozeLoopToken       string
	CozeLoopWorkspaceID string

	DisabledFormats []string
	MaxFileSize     int64
	StopWordsFile   string
	TopKeywords     int
	Tokenizer       string

	HTTPAddr  string
	AltScreen bool
	LogLevel  string
	LogFile   string
}

// ModelConfig is an API key / endpoint / model triple.
type ModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Chat: ModelConfig{
			APIKey:  getEnv("API_KEY", ""),
			BaseURL: getEnv("BASE_URL", ""),
			Model:   getEnv("MODEL", ""),
		},
		Summary: ModelConfig{
			APIKey:  getEnv("SUMMARY_MODEL_API_KEY", ""),
			BaseURL: getEnv("SUMMARY_MODEL_BASE_URL", ""),
			Model:   getEnv("SUMMARY_MODEL", ""),
		},
		Gemini: ModelConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", ""),
		},
		QAStrategy: strings.ToLower(getEnv("QA_STRATEGY", QAStrategyChat)),
		Embedding: ModelConfig{
			APIKey:  getEnv("EMBEDDING_MODEL_API_KEY", ""),
			BaseURL: getEnv("EMBEDDING_MODEL_BASE_URL", ""),
			Model:   getEnv("EMBEDDING_MODEL", ""),
		},
		CozeLoopToken:       getEnv("COZELOOP_API_TOKEN", ""),
		CozeLoopWorkspaceID: getEnv("COZELOOP_WORKSPACE_ID", ""),
		DisabledFormats:     getEnvList("DISABLED_FORMATS"),
		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 50<<20),
		StopWordsFile:       getEnv("STOPWORDS_FILE", ""),
		TopKeywords:         getEnvInt("TOP_KEYWORDS", 10),
		Tokenizer:           strings.ToLower(getEnv("TOKENIZER", TokenizerAuto)),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		AltScreen:           getEnvBool("TUI_ALT_SCREEN", true),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:             getEnv("LOG_FILE", ""),
	}

	defaultProvider := ProviderNone
	if cfg.Chat.APIKey != "" {
		defaultProvider = ProviderOpenAI
	}
	cfg.Provider = strings.ToLower(getEnv("LLM_PROVIDER", defaultProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and bounds.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderNone, ProviderOpenAI, ProviderQwen, ProviderGemini:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q (want openai, qwen, gemini or none)", c.Provider)
	}
	switch c.QAStrategy {
	case QAStrategyChat, QAStrategyEmbedding, QAStrategyNone:
	default:
		return fmt.Errorf("invalid QA_STRATEGY %q (want chat, embedding or none)", c.QAStrategy)
	}
	switch c.Tokenizer {
	case "", TokenizerAuto, TokenizerUnicode, TokenizerSimple:
	default:
		return fmt.Errorf("invalid TOKENIZER %q (want auto, unicode or simple)", c.Tokenizer)
	}
	if c.TopKeywords <= 0 {
		return fmt.Errorf("TOP_KEYWORDS must be positive, got %d", c.TopKeywords)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	return nil
}

// TracingEnabled reports whether both CozeLoop credentials are set.
func (c *Config) TracingEnabled() bool {
	return c.CozeLoopToken != "" && c.CozeLoopWorkspaceID != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
