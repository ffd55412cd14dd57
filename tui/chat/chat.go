// Package chat 是终端界面：输入文件路径分析文档，以 "?" 开头提问。
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"docanalyzer/llm/pipeline"
	"docanalyzer/llm/processor"
	"docanalyzer/pubsub"
	"docanalyzer/tui/component"
	"docanalyzer/tui/component/renderer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model 界面模型
type Model struct {
	list   component.ListModel
	edit   component.EditModel
	status component.StatusModel

	runtime *pipeline.Runtime
	sub     <-chan pubsub.Event[pipeline.Event]
	ctx     context.Context
	icons   *renderer.Icons

	width  int
	height int
}

// analyzeDoneMsg 文档分析结束
type analyzeDoneMsg struct {
	source  string
	elapsed time.Duration
	err     error
}

// askDoneMsg 提问结束
type askDoneMsg struct {
	err error
}

// InitialModel 创建初始模型
func InitialModel(ctx context.Context, runtime *pipeline.Runtime) Model {
	sub := runtime.Broker().Subscribe(ctx)

	status := component.NewStatusModel()
	status.SetInfo(capabilityInfo(runtime.Processor().Capabilities()))

	return Model{
		list:    component.NewListModel(),
		edit:    component.NewEditModel(),
		status:  status,
		runtime: runtime,
		sub:     sub,
		ctx:     ctx,
		icons:   renderer.DefaultIcons(),
	}
}

// Run 启动终端界面，直到用户退出
func Run(ctx context.Context, runtime *pipeline.Runtime, altScreen bool) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(InitialModel(ctx, runtime), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.edit.Init(),
		m.status.Init(),
		m.waitForEvent(), // 订阅流水线事件
	)
}

// waitForEvent 等待流水线事件的 Cmd
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.sub
		if !ok {
			// broker 已关闭
			return nil
		}
		return event
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// 计算各组件高度
		m.status.SetWidth(m.width)
		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		listHeight := m.height - statusHeight - editHeight

		// 更新各组件尺寸
		m.list.SetSize(m.width, listHeight)
		m.edit.SetWidth(m.width)

	case component.EditorSubmitMsg:
		cmds = append(cmds, m.handleInput(msg.Value))

	case analyzeDoneMsg:
		if msg.err == nil {
			m.list.Append(renderer.Entry{
				Kind: renderer.EntrySystem,
				Content: fmt.Sprintf("%s Analyzed %s in %s %s. Ask about it with \"? question\".",
					m.icons.Success, renderer.ShortenPath(msg.source), m.icons.Clock, renderer.FormatDuration(msg.elapsed)),
			})
		}

	case askDoneMsg:
		if errors.Is(msg.err, pipeline.ErrNoDocument) {
			m.list.Append(renderer.Entry{Kind: renderer.EntryError, Content: "Analyze a document first, then ask about it."})
		}

	case pubsub.Event[pipeline.Event]:
		// 继续等待下一条事件
		cmds = append(cmds, m.waitForEvent())
		// list 和 status 会在下面透传处理

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	// 更新各子组件
	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleInput 根据输入执行命令，耗时操作放在返回的 Cmd 中执行
func (m *Model) handleInput(value string) tea.Cmd {
	c := parseInput(value)
	switch c.kind {
	case cmdQuit:
		return tea.Quit
	case cmdClear:
		m.list.Clear()
		return nil
	case cmdHelp:
		m.list.Append(system(helpText))
		return nil
	case cmdFormats:
		formats := m.runtime.Extractor().SupportedFormats()
		m.list.Append(system("Supported formats: " + strings.Join(formats, ", ")))
		return nil
	case cmdSamples:
		m.list.Append(system(samplesText()))
		return nil
	case cmdStatus:
		m.list.Append(system(statusText(m.runtime)))
		return nil
	case cmdAsk:
		question := c.arg
		if question == "" {
			m.list.Append(system("Type a question after \"?\", or /samples for ideas."))
			return nil
		}
		m.list.Append(renderer.Entry{Kind: renderer.EntryInput, Content: "? " + question})
		rt, ctx := m.runtime, m.ctx
		return func() tea.Msg {
			_, err := rt.Ask(ctx, question)
			return askDoneMsg{err: err}
		}
	}

	path := c.arg
	if path == "" {
		return nil
	}
	m.list.Append(renderer.Entry{Kind: renderer.EntryInput, Content: path})
	rt, ctx := m.runtime, m.ctx
	return func() tea.Msg {
		start := time.Now()
		_, err := rt.Analyze(ctx, path)
		return analyzeDoneMsg{source: path, elapsed: time.Since(start), err: err}
	}
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
}

type commandKind int

const (
	cmdAnalyze commandKind = iota
	cmdAsk
	cmdHelp
	cmdFormats
	cmdSamples
	cmdStatus
	cmdClear
	cmdQuit
)

var commands = map[string]commandKind{
	"/help":    cmdHelp,
	"/formats": cmdFormats,
	"/samples": cmdSamples,
	"/status":  cmdStatus,
	"/clear":   cmdClear,
	"/quit":    cmdQuit,
	"/exit":    cmdQuit,
}

type command struct {
	kind commandKind
	arg  string
}

// parseInput 解析一行输入。以 / 开头但不是已知命令的输入按路径处理。
func parseInput(value string) command {
	value = strings.TrimSpace(value)

	if rest, ok := strings.CutPrefix(value, "?"); ok {
		question := strings.TrimSpace(rest)
		// "?2" 选择第 2 个示例问题
		if n, err := strconv.Atoi(question); err == nil && n >= 1 && n <= len(processor.SampleQuestions) {
			question = processor.SampleQuestions[n-1]
		}
		return command{kind: cmdAsk, arg: question}
	}

	if kind, ok := commands[strings.ToLower(value)]; ok {
		return command{kind: kind}
	}

	return command{kind: cmdAnalyze, arg: normalizePath(value)}
}

// normalizePath 去掉拖放文件时终端加上的引号，展开 ~
func normalizePath(p string) string {
	if len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, rest)
		}
	}
	return p
}

const helpText = `Commands:
  <path>        analyze a document (txt, pdf, docx, html, md)
  ? <question>  ask about the current document (?1 to ?4 pick a sample question)
  /formats      list supported formats
  /samples      list sample questions
  /status       show which model capabilities are configured
  /clear        clear the screen
  /quit         exit (also Esc or Ctrl+C)`

func samplesText() string {
	var sb strings.Builder
	sb.WriteString("Try asking:")
	for i, q := range processor.SampleQuestions {
		fmt.Fprintf(&sb, "\n  ?%d  %s", i+1, q)
	}
	return sb.String()
}

func statusText(rt *pipeline.Runtime) string {
	s := rt.Processor().Capabilities()
	summary := "model"
	if !s.Summarizer {
		summary = "heuristic (" + s.SummarizerReason + ")"
	}
	qa := "enabled"
	if !s.QA {
		qa = "unavailable (" + s.QAReason + ")"
	}
	text := fmt.Sprintf("Summarizer: %s\nQuestion answering: %s\nTokenizer: %s",
		summary, qa, rt.Processor().Analyzer().Tokenizer())
	if cur := rt.Current(); cur != nil {
		text += fmt.Sprintf("\nCurrent document: %s (%d questions asked)", cur.Document.SourcePath, len(rt.History()))
	}
	return text
}

func capabilityInfo(s processor.Status) string {
	summary, qa := "heuristic", "off"
	if s.Summarizer {
		summary = "model"
	}
	if s.QA {
		qa = "on"
	}
	return fmt.Sprintf("summary: %s · qa: %s", summary, qa)
}

func system(text string) renderer.Entry {
	return renderer.Entry{Kind: renderer.EntrySystem, Content: text}
}
