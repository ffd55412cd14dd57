package component

import (
	"fmt"
	"path/filepath"

	"docanalyzer/llm/pipeline"
	"docanalyzer/pubsub"
	"docanalyzer/tui/component/renderer"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusModel 封装状态显示组件（spinner + 状态文本 + 能力信息）
type StatusModel struct {
	spinner spinner.Model
	running bool
	text    string
	info    string // 右侧显示的模型能力说明
	width   int
}

// NewStatusModel 创建新的状态组件
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		spinner: s,
		running: false,
		text:    "Ready",
		width:   0,
	}
}

// Init 初始化组件
func (m StatusModel) Init() tea.Cmd {
	// 不自动启动 spinner，等待流水线事件
	return nil
}

// Update 更新组件状态
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[pipeline.Event]:
		e := msg.Payload
		switch msg.Type {
		case pubsub.CreatedEvent:
			// 开始处理，启动 spinner
			m.text = startText(e)
			if !m.running {
				m.running = true
				return m, m.spinner.Tick
			}
		case pubsub.UpdatedEvent:
			if e.Stage == pipeline.StageExtracted && e.Document != nil {
				m.text = fmt.Sprintf("Analyzing %s (%d pages, %s of text)...",
					displayName(e), e.Document.Metadata.Pages, renderer.FormatBytes(int64(len(e.Document.Text))))
			}
		case pubsub.FinishedEvent:
			// 处理结束，停止 spinner
			m.running = false
			if e.Stage == pipeline.StageFailed {
				m.text = "Ready (last document failed)"
			} else {
				m.text = "Ready"
			}
			return m, nil
		}
	}

	// Spinner 动画帧更新
	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func startText(e pipeline.Event) string {
	if e.Question != "" {
		return "Answering: " + renderer.Truncate(e.Question, 40)
	}
	return "Extracting " + renderer.ShortenPath(e.Source) + "..."
}

func displayName(e pipeline.Event) string {
	if e.Document != nil && e.Document.Metadata.Title != "" {
		return renderer.Truncate(e.Document.Metadata.Title, 40)
	}
	return filepath.Base(e.Source)
}

// View 渲染组件视图
func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 0)
	content := m.text
	if m.running {
		content = fmt.Sprintf("%s %s", m.spinner.View(), m.text)
	}
	if m.info != "" {
		info := lipgloss.NewStyle().Faint(true).Render(m.info)
		gap := m.width - lipgloss.Width(content) - lipgloss.Width(info)
		if gap < 2 {
			gap = 2
		}
		content = content + lipgloss.NewStyle().Width(gap).Render("") + info
	}
	return style.Render(content)
}

// Text 返回当前状态文本
func (m StatusModel) Text() string {
	return m.text
}

// SetInfo 设置右侧说明文字
func (m *StatusModel) SetInfo(info string) {
	m.info = info
}

// SetWidth 设置组件宽度
func (m *StatusModel) SetWidth(width int) {
	m.width = width
}

// IsRunning 返回 spinner 是否在运行
func (m StatusModel) IsRunning() bool {
	return m.running
}
