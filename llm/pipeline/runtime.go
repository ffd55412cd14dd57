// Package pipeline 把提取、分析和问答串成一次处理流程，并通过 broker 推送进度事件。
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"docanalyzer/analyzer"
	"docanalyzer/config"
	"docanalyzer/llm/parser"
	"docanalyzer/llm/processor"
	"docanalyzer/pubsub"
)

// ErrNoDocument 还没有分析过任何文档时提问
var ErrNoDocument = errors.New("no document has been analyzed yet")

// Runtime 文档分析运行时
type Runtime struct {
	extractor *parser.Extractor
	processor *processor.Processor
	broker    *pubsub.Broker[Event]
	history   *History
	logger    *slog.Logger

	mu      sync.RWMutex
	current *Result // 最近一次分析的文档
}

// NewRuntime 创建新的运行时
func NewRuntime(extractor *parser.Extractor, proc *processor.Processor, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{
		extractor: extractor,
		processor: proc,
		broker:    pubsub.NewBroker[Event](),
		history:   NewHistory(),
		logger:    logger,
	}
}

// Analyze 提取并分析磁盘上的文件
func (r *Runtime) Analyze(ctx context.Context, path string) (*Result, error) {
	return r.run(ctx, path, func() (*parser.ExtractedDocument, error) {
		return r.extractor.Extract(ctx, path)
	})
}

// AnalyzeBytes 提取并分析上传的内容，hint 为扩展名或 MIME 类型
func (r *Runtime) AnalyzeBytes(ctx context.Context, data []byte, name, hint string) (*Result, error) {
	return r.run(ctx, name, func() (*parser.ExtractedDocument, error) {
		return r.extractor.ExtractBytes(ctx, data, name, hint)
	})
}

func (r *Runtime) run(ctx context.Context, source string, extract func() (*parser.ExtractedDocument, error)) (*Result, error) {
	// 发布开始事件
	r.broker.Publish(pubsub.CreatedEvent, Event{Stage: StageStarted, Source: source})

	doc, err := extract()
	if err != nil {
		r.logger.Debug("extraction failed", "source", source, "error", err)
		r.broker.Publish(pubsub.FinishedEvent, Event{Stage: StageFailed, Source: source, Err: err})
		return nil, err
	}
	r.broker.Publish(pubsub.UpdatedEvent, Event{Stage: StageExtracted, Source: source, Document: doc})

	result := &Result{
		Document: doc,
		Analysis: r.processor.AnalyzeDocument(ctx, doc.Text),
	}

	// 切换当前文档并清空旧的问答记录，两者在同一把锁内完成
	r.mu.Lock()
	r.current = result
	r.history.Clear()
	r.mu.Unlock()

	r.broker.Publish(pubsub.FinishedEvent, Event{Stage: StageAnalyzed, Source: source, Document: doc, Result: result})
	return result, nil
}

// Ask 针对当前文档提问
func (r *Runtime) Ask(ctx context.Context, question string) (processor.Answer, error) {
	current := r.Current()
	if current == nil {
		return processor.Answer{}, ErrNoDocument
	}

	source := current.Document.SourcePath
	r.broker.Publish(pubsub.CreatedEvent, Event{Stage: StageStarted, Source: source, Question: question})

	answer := r.processor.AnswerQuestion(ctx, current.Document.Text, question)

	// 回答期间文档已被替换时，不计入新文档的问答记录
	r.mu.Lock()
	if r.current == current {
		r.history.Add(Exchange{Question: question, Answer: answer})
	} else {
		r.logger.Debug("document changed while answering", "source", source)
	}
	r.mu.Unlock()

	r.broker.Publish(pubsub.FinishedEvent, Event{Stage: StageAnswered, Source: source, Question: question, Answer: &answer})
	return answer, nil
}

// Current 返回最近一次分析结果，没有时为 nil
func (r *Runtime) Current() *Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History 当前文档的问答记录
func (r *Runtime) History() []Exchange {
	return r.history.List()
}

// Extractor 获取文档提取器
func (r *Runtime) Extractor() *parser.Extractor {
	return r.extractor
}

// Processor 获取处理器
func (r *Runtime) Processor() *processor.Processor {
	return r.processor
}

// Broker 获取事件 Broker
func (r *Runtime) Broker() *pubsub.Broker[Event] {
	return r.broker
}

// Close 关闭运行时
func (r *Runtime) Close() {
	r.broker.Shutdown()
}

// Setup 按配置组装运行时（从 cli 调用）
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}

	extractor := parser.NewExtractor(parser.Config{
		Formats:     parser.FormatsExcept(cfg.DisabledFormats),
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	})

	a := analyzer.New(analyzer.Config{
		StopWordsFile: cfg.StopWordsFile,
		Tokenizers:    analyzer.TokenizersFor(cfg.Tokenizer),
		Logger:        logger,
	})

	return NewRuntime(extractor, processor.Setup(ctx, cfg, a, logger), logger)
}
