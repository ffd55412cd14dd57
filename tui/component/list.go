package component

import (
	"errors"
	"fmt"

	"docanalyzer/llm/parser"
	"docanalyzer/llm/pipeline"
	"docanalyzer/pubsub"
	"docanalyzer/report"
	"docanalyzer/tui/component/renderer"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ListModel 封装会话记录组件
// 负责条目存储和 viewport 管理，渲染逻辑委托给 EntryRenderer
type ListModel struct {
	viewport viewport.Model
	entries  []renderer.Entry
	width    int
	height   int
	ready    bool

	// renderer 条目渲染器
	renderer *renderer.EntryRenderer
}

// NewListModel 创建新的会话记录组件
func NewListModel() ListModel {
	vp := viewport.New(30, 30)
	vp.SetContent(renderer.WelcomeText)

	return ListModel{
		viewport: vp,
		entries:  make([]renderer.Entry, 0),
		renderer: renderer.NewEntryRenderer(nil),
		width:    30,
		height:   5,
		ready:    true,
	}
}

// Init 初始化组件
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update 更新组件状态
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// 处理鼠标滚轮事件
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[pipeline.Event]:
		// 只有结束事件带结果
		if msg.Type == pubsub.FinishedEvent {
			if entry, ok := EntryForEvent(msg.Payload); ok {
				m.Append(entry)
			}
		}
		return m, nil
	}

	// 更新 viewport
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// EntryForEvent 把流水线结束事件转换成会话条目
func EntryForEvent(e pipeline.Event) (renderer.Entry, bool) {
	switch e.Stage {
	case pipeline.StageAnalyzed:
		if e.Result == nil {
			return renderer.Entry{}, false
		}
		return renderer.Entry{
			Kind:    renderer.EntryReport,
			Content: report.Markdown(report.New(e.Result, nil)),
		}, true
	case pipeline.StageAnswered:
		if e.Answer == nil {
			return renderer.Entry{}, false
		}
		return renderer.Entry{
			Kind:       renderer.EntryAnswer,
			Content:    e.Answer.Answer,
			Confidence: e.Answer.Confidence,
		}, true
	case pipeline.StageFailed:
		return renderer.Entry{Kind: renderer.EntryError, Content: ErrorText(e.Err)}, true
	}
	return renderer.Entry{}, false
}

// ErrorText 把提取错误转换成给用户看的提示
func ErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, parser.ErrNotFound):
		return fmt.Sprintf("File not found (%v).", err)
	case errors.Is(err, parser.ErrDependencyUnavailable):
		return fmt.Sprintf("This format is disabled in the current configuration (%v).", err)
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return fmt.Sprintf("Unsupported file format (%v). Type /formats to see what can be read.", err)
	case errors.Is(err, parser.ErrExtraction):
		return fmt.Sprintf("Could not read the document (%v).", err)
	}
	return err.Error()
}

// Append 追加条目并滚动到底部
func (m *ListModel) Append(entries ...renderer.Entry) {
	m.entries = append(m.entries, entries...)
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// Clear 清空会话记录
func (m *ListModel) Clear() {
	m.entries = m.entries[:0]
	m.renderer.Reset()
	m.updateViewportContent()
}

// Entries 返回当前条目
func (m ListModel) Entries() []renderer.Entry {
	return m.entries
}

// View 渲染组件视图
func (m ListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}

// SetSize 设置组件尺寸
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// 确保高度至少为 1，防止负数或零
	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	// 宽度变化后已缓存的渲染结果失效
	m.renderer.SetViewportWidth(width)
	m.renderer.Reset()

	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// updateViewportContent 更新 viewport 内容
func (m *ListModel) updateViewportContent() {
	m.viewport.SetContent(m.renderer.RenderEntries(m.entries))
}
