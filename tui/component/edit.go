package component

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EditorSubmitMsg 自定义消息：用户提交输入
type EditorSubmitMsg struct {
	Value string
}

// EditModel 封装输入框组件，上下键可以翻阅之前的输入
type EditModel struct {
	textarea textarea.Model
	width    int

	history []string // 已提交的输入
	cursor  int      // 翻阅位置，等于 len(history) 表示不在翻阅中
}

// NewEditModel 创建新的输入框组件
func NewEditModel() EditModel {
	ta := textarea.New()
	ta.Placeholder = "Path to a document, or ? followed by a question..."
	ta.Focus()

	ta.Prompt = "> "
	ta.CharLimit = 1024

	ta.SetWidth(30)
	ta.SetHeight(1)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	// 禁用换行，Enter 用于提交
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return EditModel{
		textarea: ta,
		width:    30,
	}
}

// Init 初始化组件
func (m EditModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update 更新组件状态
func (m EditModel) Update(msg tea.Msg) (EditModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			// 获取输入值并提交
			value := m.textarea.Value()
			if value == "" {
				return m, nil
			}
			m.textarea.Reset()
			if len(m.history) == 0 || m.history[len(m.history)-1] != value {
				m.history = append(m.history, value)
			}
			m.cursor = len(m.history)
			// 发送自定义提交消息
			return m, func() tea.Msg {
				return EditorSubmitMsg{Value: value}
			}
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				m.textarea.SetValue(m.history[m.cursor])
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.history)-1 {
				m.cursor++
				m.textarea.SetValue(m.history[m.cursor])
			} else {
				m.cursor = len(m.history)
				m.textarea.Reset()
			}
			return m, nil
		}
	}

	// 更新 textarea
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View 渲染组件视图
func (m *EditModel) View() string {
	return m.textarea.View()
}

// Value 返回当前输入
func (m *EditModel) Value() string {
	return m.textarea.Value()
}

// SetWidth 设置组件宽度
func (m *EditModel) SetWidth(width int) {
	m.width = width
	m.textarea.SetWidth(width)
}

// Height 返回组件高度
func (m *EditModel) Height() int {
	return m.textarea.Height()
}
