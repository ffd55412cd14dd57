package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"docanalyzer/llm/processor"
)

// Exchange 一次问答
type Exchange struct {
	Question string           `json:"question" yaml:"question"`
	Answer   processor.Answer `json:"answer" yaml:"answer"`
}

// History 当前文档的问答记录，只保存在内存中
type History struct {
	mu           sync.RWMutex
	exchanges    []Exchange
	maxExchanges int // 最多保留的问答条数
	maxAnswerLen int // 单条答案最大长度（字符数）
}

// NewHistory 创建问答记录
func NewHistory() *History {
	return &History{
		maxExchanges: 20,
		maxAnswerLen: 2000,
	}
}

// Add 追加一条问答，超过上限时丢弃最旧的记录
func (h *History) Add(ex Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ex.Answer.Answer = h.compress(ex.Answer.Answer)
	h.exchanges = append(h.exchanges, ex)

	// 滑动窗口
	if len(h.exchanges) > h.maxExchanges {
		h.exchanges = h.exchanges[len(h.exchanges)-h.maxExchanges:]
	}
}

// compress 截断过长的答案，尽量在句末或换行处断开
func (h *History) compress(answer string) string {
	runes := []rune(answer)
	if len(runes) <= h.maxAnswerLen {
		return answer
	}

	truncated := string(runes[:h.maxAnswerLen])
	cutoff := len(truncated)
	for _, bp := range []string{".\n", "。", ". ", "\n\n", "\n"} {
		if idx := strings.LastIndex(truncated, bp); idx > len(truncated)/2 {
			cutoff = idx + len(bp)
			break
		}
	}

	return strings.TrimSpace(truncated[:cutoff]) +
		fmt.Sprintf(" [truncated from %d characters]", len(runes))
}

// List 返回问答记录的副本
func (h *History) List() []Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Exchange, len(h.exchanges))
	copy(out, h.exchanges)
	return out
}

// Clear 清空记录，切换文档时调用
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exchanges = nil
}
