// Package renderer 把会话条目渲染成终端文本，报告部分交给 glamour 渲染 Markdown。
package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// EntryKind 条目类型
type EntryKind int

const (
	EntryInput  EntryKind = iota // 用户输入
	EntryReport                  // 文档分析报告（Markdown）
	EntryAnswer                  // 问答结果
	EntrySystem                  // 提示信息
	EntryError                   // 错误信息
)

// Entry 会话中的一条记录
type Entry struct {
	Kind       EntryKind
	Content    string
	Confidence float64 // 仅用于 EntryAnswer
}

// WelcomeText 没有任何条目时显示的提示
const WelcomeText = "Welcome to the document analyzer!\n" +
	"Type the path of a document and press Enter to analyze it.\n" +
	"Ask about it with \"? your question\". Type /help for commands."

// EntryRenderer 条目渲染器
type EntryRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *MessageStyles
	icons            *Icons
	renderedCache    []string // 已渲染条目的缓存
	viewportWidth    int
}

// NewEntryRenderer 创建条目渲染器
func NewEntryRenderer(styles *MessageStyles) *EntryRenderer {
	if styles == nil {
		styles = DefaultMessageStyles()
	}

	// 初始化 Markdown 渲染器 (Dracula 主题)
	markdownRenderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0), // 禁用自动换行，由外部控制
	)
	return &EntryRenderer{
		markdownRenderer: markdownRenderer,
		styles:           styles,
		icons:            DefaultIcons(),
		renderedCache:    make([]string, 0),
	}
}

// SetViewportWidth 设置视口宽度
func (r *EntryRenderer) SetViewportWidth(width int) {
	r.viewportWidth = width
}

// Reset 清空渲染缓存
func (r *EntryRenderer) Reset() {
	r.renderedCache = r.renderedCache[:0]
}

// RenderEntries 渲染所有条目
func (r *EntryRenderer) RenderEntries(entries []Entry) string {
	if len(entries) == 0 {
		return WelcomeText
	}

	// 条目减少（例如清屏）时重置缓存
	if len(entries) < len(r.renderedCache) {
		r.Reset()
	}

	// 条目只会追加，除最后一条外都可以缓存
	for i := len(r.renderedCache); i < len(entries)-1; i++ {
		r.renderedCache = append(r.renderedCache, r.RenderEntry(entries[i]))
	}

	var sb strings.Builder
	for _, cached := range r.renderedCache {
		if cached != "" {
			sb.WriteString(cached)
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString(r.RenderEntry(entries[len(entries)-1]))

	content := sb.String()

	// 包装内容以适应宽度
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

// RenderEntry 渲染单条记录
func (r *EntryRenderer) RenderEntry(e Entry) string {
	if e.Content == "" {
		return ""
	}
	switch e.Kind {
	case EntryInput:
		return r.styles.Input.Render("You:") + " " + e.Content
	case EntryReport:
		return r.styles.Report.Render(r.icons.File+" Report:") + "\n" + r.renderMarkdown(e.Content)
	case EntryAnswer:
		header := r.styles.Answer.Render(r.icons.Answer + " Answer:")
		confidence := r.styles.Confidence.Render(fmt.Sprintf("(confidence %.3f)", e.Confidence))
		return header + " " + e.Content + " " + confidence
	case EntrySystem:
		return r.styles.System.Render(e.Content)
	case EntryError:
		return r.styles.Error.Render(r.icons.Error + " " + e.Content)
	}
	return ""
}

// renderMarkdown 渲染 Markdown 内容
func (r *EntryRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		// 渲染失败，返回原始内容
		return content
	}
	// 去除首尾空白（glamour 会添加前后换行）
	return strings.TrimSpace(rendered)
}
