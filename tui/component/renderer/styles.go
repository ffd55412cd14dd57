package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageStyles 条目渲染样式配置
type MessageStyles struct {
	// 条目类型样式
	Input  lipgloss.Style
	Report lipgloss.Style
	Answer lipgloss.Style
	System lipgloss.Style
	Error  lipgloss.Style

	// 答案置信度
	Confidence lipgloss.Style
	Indent     lipgloss.Style
}

// DefaultMessageStyles 返回默认样式配置
func DefaultMessageStyles() *MessageStyles {
	return &MessageStyles{
		Input:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Report:     lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		Answer:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true),
		System:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		Confidence: lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Faint(true),
		Indent:     lipgloss.NewStyle().PaddingLeft(2),
	}
}
