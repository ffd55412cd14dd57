package processor

import (
	"context"
	"log/slog"

	"docanalyzer/analyzer"
	"docanalyzer/config"
	"docanalyzer/llm/providers"
)

// Setup resolves the optional capabilities from configuration. A model
// that cannot be created is logged and leaves its capability unavailable;
// Setup itself never fails.
func Setup(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}

	summarizer := Unavailable[Summarizer]("no language model provider configured")
	qa := Unavailable[QuestionAnswerer]("no language model provider configured")

	if cfg.Provider != config.ProviderNone {
		if sm, err := providers.CreateSummaryModel(ctx, cfg); err != nil {
			logger.Warn("summarizer unavailable", "provider", cfg.Provider, "error", err)
			summarizer = Unavailable[Summarizer](err.Error())
		} else {
			summarizer = Available[Summarizer](NewChatSummarizer(sm))
			logger.Info("summarizer ready", "provider", cfg.Provider)
		}
	}

	switch cfg.QAStrategy {
	case config.QAStrategyNone:
		qa = Unavailable[QuestionAnswerer]("question answering disabled")
	case config.QAStrategyEmbedding:
		if emb, err := providers.CreateEmbeddingModel(ctx, cfg); err != nil {
			logger.Warn("question answering unavailable", "strategy", cfg.QAStrategy, "error", err)
			qa = Unavailable[QuestionAnswerer](err.Error())
		} else {
			qa = Available[QuestionAnswerer](NewEmbeddingAnswerer(emb))
			logger.Info("question answering ready", "strategy", cfg.QAStrategy)
		}
	default:
		if cfg.Provider == config.ProviderNone {
			break
		}
		if cm, err := providers.CreateChatModel(ctx, cfg); err != nil {
			logger.Warn("question answering unavailable", "strategy", cfg.QAStrategy, "error", err)
			qa = Unavailable[QuestionAnswerer](err.Error())
		} else {
			qa = Available[QuestionAnswerer](NewChatAnswerer(cm))
			logger.Info("question answering ready", "strategy", cfg.QAStrategy)
		}
	}

	return New(a, summarizer, qa, logger, WithTopKeywords(cfg.TopKeywords))
}
