package pipeline

import (
	"docanalyzer/llm/parser"
	"docanalyzer/llm/processor"
)

// Stage 流水线所处的阶段
type Stage string

const (
	StageStarted   Stage = "started"   // 开始处理文件或提问
	StageExtracted Stage = "extracted" // 文本已提取
	StageAnalyzed  Stage = "analyzed"  // 分析完成
	StageAnswered  Stage = "answered"  // 问题已回答
	StageFailed    Stage = "failed"    // 提取失败
)

// Event 流水线通过 broker 发布的进度事件
type Event struct {
	Stage    Stage
	Source   string // 文件路径或上传文件名
	Question string

	Document *parser.ExtractedDocument
	Result   *Result
	Answer   *processor.Answer
	Err      error
}

// Result 一次文档分析的完整结果
type Result struct {
	Document *parser.ExtractedDocument  `json:"document" yaml:"document"`
	Analysis processor.DocumentAnalysis `json:"analysis" yaml:"analysis"`
}
