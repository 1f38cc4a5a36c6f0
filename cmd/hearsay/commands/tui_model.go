package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearsay-ai/hearsay/go/pkg/asr"
	"github.com/hearsay-ai/hearsay/go/pkg/cli"
)

// maxPanelLines bounds the scrollback kept per panel.
const maxPanelLines = 50

// TUIModel drives the live view of a realtime recognition session: interim
// transcripts on top, the final transcript once the task ends, engine logs at
// the bottom.
type TUIModel struct {
	task *asr.RealtimeTask
	stop func()

	interimViewport viewport.Model
	logViewport     viewport.Model

	interimContent []string
	finalText      string // set when the task ends
	logContent     []string

	partialCh <-chan string
	logWriter *cli.LogWriter

	provider string
	status   string
	started  time.Time
	elapsed  time.Duration // frozen when the task ends
	styles   cli.Styles
	width    int
	height   int
	quitting bool
}

// NewTUIModel builds the model for a running task.
func NewTUIModel(task *asr.RealtimeTask, stop func(), partialCh <-chan string, logWriter *cli.LogWriter, provider string) TUIModel {
	return TUIModel{
		task:           task,
		stop:           stop,
		partialCh:      partialCh,
		interimContent: []string{},
		logContent:     []string{},
		logWriter:      logWriter,
		provider:       provider,
		status:         "streaming",
		started:        time.Now(),
		styles:         cli.NewStyles(cli.DefaultTheme),
	}
}

// PartialMsg wraps interim transcripts for bubbletea.
type PartialMsg string

// TaskDoneMsg is sent when the recognition task finishes.
type TaskDoneMsg struct {
	Result *asr.RealtimeTaskResult
}

// LogMsg wraps log lines for bubbletea.
type LogMsg string

// TickMsg refreshes the elapsed-time display.
type TickMsg time.Time

// Init starts the channel listeners and the elapsed-time ticker.
func (m TUIModel) Init() tea.Cmd {
	return tea.Batch(
		m.listenPartials(),
		m.listenLogs(),
		m.waitTask(),
		m.tick(),
	)
}

func (m TUIModel) listenPartials() tea.Cmd {
	return func() tea.Msg {
		text, ok := <-m.partialCh
		if !ok {
			return nil
		}
		return PartialMsg(text)
	}
}

func (m TUIModel) listenLogs() tea.Cmd {
	if m.logWriter == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-m.logWriter.Channel()
		if !ok {
			return nil
		}
		return LogMsg(line)
	}
}

func (m TUIModel) waitTask() tea.Cmd {
	return func() tea.Msg {
		return TaskDoneMsg{Result: m.task.Wait()}
	}
}

func (m TUIModel) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// capLines keeps only the newest maxPanelLines entries.
func capLines(lines []string) []string {
	if len(lines) > maxPanelLines {
		return lines[len(lines)-maxPanelLines:]
	}
	return lines
}

// Update handles key presses, stream messages, and task completion.
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.stop()
			m.quitting = true
			return m, tea.Quit
		case tea.KeyRunes:
			if len(msg.Runes) == 1 && msg.Runes[0] == 'q' {
				m.stop()
				m.quitting = true
				return m, tea.Quit
			}
			if len(msg.Runes) == 1 && msg.Runes[0] == 's' {
				// 提前停止：结束发送并等待最终结果
				m.stop()
				m.status = "finalizing"
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()

	case PartialMsg:
		ts := time.Now().Format("15:04:05")
		m.interimContent = capLines(append(m.interimContent, fmt.Sprintf("[%s] %s", ts, string(msg))))
		m.interimViewport.SetContent(strings.Join(m.interimContent, "\n"))
		m.interimViewport.GotoBottom()
		cmds = append(cmds, m.listenPartials())

	case TaskDoneMsg:
		m.elapsed = time.Since(m.started)
		if msg.Result.Err != nil {
			m.status = "failed"
			m.finalText = fmt.Sprintf("error: %v", msg.Result.Err)
		} else {
			m.status = "done"
			m.finalText = msg.Result.Result.Text
		}

	case LogMsg:
		m.logContent = capLines(append(m.logContent, string(msg)))
		m.logViewport.SetContent(strings.Join(m.logContent, "\n"))
		m.logViewport.GotoBottom()
		cmds = append(cmds, m.listenLogs())

	case TickMsg:
		cmds = append(cmds, m.tick())
	}

	return m, tea.Batch(cmds...)
}

// resizePanels rebuilds the viewports for the current terminal size. The
// frame stacks three full-width panels.
func (m *TUIModel) resizePanels() {
	inner := m.width - 4
	rows := max((m.height-8)/3, 2)

	m.interimViewport = viewport.New(inner, rows)
	m.logViewport = viewport.New(inner, rows)

	m.interimViewport.SetContent(strings.Join(m.interimContent, "\n"))
	m.logViewport.SetContent(strings.Join(m.logContent, "\n"))
}

// View renders the frame.
func (m TUIModel) View() string {
	if m.quitting {
		return ""
	}

	elapsed := m.elapsed
	if elapsed == 0 {
		elapsed = time.Since(m.started)
	}

	frame := cli.Frame{
		Styles: m.styles,
		Title:  "HEARSAY // " + strings.ToUpper(m.provider),
		Status: m.status + " " + cli.FormatDuration(int(elapsed.Milliseconds())),
		Sections: []cli.Section{
			{Label: "🎙 Interim", Content: func() []string { return m.interimContent }},
			{Label: "📝 Transcript", Content: func() []string {
				if m.finalText == "" {
					return []string{"(streaming...)"}
				}
				return strings.Split(m.finalText, "\n")
			}},
			{Label: "📋 Logs", Content: func() []string { return m.logContent }},
		},
		Help: "s=stop & finalize  q/Ctrl+C=quit",
	}

	return frame.Render(m.width, m.height)
}
