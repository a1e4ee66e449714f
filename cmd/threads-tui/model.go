package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SergeNasr/ai-threads/pkg/command"
	"github.com/SergeNasr/ai-threads/pkg/config"
	"github.com/SergeNasr/ai-threads/pkg/engine"
	"github.com/SergeNasr/ai-threads/pkg/thread"
)

type model struct {
	cfg        config.Config
	configPath string
	store      *thread.Store
	engine     *engine.Engine
	commands   []command.SlashCommand

	rootID   thread.ID
	activeID thread.ID

	statusLine  string
	statusIsErr bool
	quitConfirm bool
	width       int
	height      int

	suggestions []command.SlashCommand

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model
	theme    uiTheme
}

type tickMsg time.Time

type drainDoneMsg struct {
	err error
}

type configReloadedMsg struct {
	cfg config.Config
	err error
}

func newModel(cfg config.Config, configPath string, store *thread.Store, eng *engine.Engine, rootID thread.ID) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = "Ask something, or type / for commands"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true
	timeline.MouseWheelDelta = 4

	return model{
		cfg:        cfg,
		configPath: configPath,
		store:      store,
		engine:     eng,
		commands:   cfg.SlashCommands(),
		rootID:     rootID,
		activeID:   rootID,
		statusLine: "ready",
		input:      input,
		timeline:   timeline,
		spinner:    sp,
		theme:      newTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickEvery(m.cfg.PollInterval()),
		watchConfig(m.configPath),
	)
}

func tickEvery(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) drainCmd() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		return drainDoneMsg{err: eng.ProcessQueue(context.Background())}
	}
}

func (m model) reloadConfigCmd() tea.Cmd {
	path := m.configPath
	return func() tea.Msg {
		cfg, err := config.Load(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.timeline.Width = maxInt(20, m.width-6)
		m.timeline.Height = maxInt(5, m.height-12)
		m.renderTimeline()
		return m, nil

	case tickMsg:
		m.renderTimeline()
		return m, tickEvery(m.cfg.PollInterval())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case drainDoneMsg:
		if msg.err != nil {
			m.statusLine = "generation failed: " + msg.err.Error()
			m.statusIsErr = true
		} else {
			m.statusLine = "ready"
			m.statusIsErr = false
		}
		m.renderTimeline()
		return m, nil

	case configChangedMsg:
		return m, tea.Batch(m.reloadConfigCmd(), watchConfig(m.configPath))

	case configReloadedMsg:
		if msg.err != nil {
			m.statusLine = "config reload failed: " + msg.err.Error()
			m.statusIsErr = true
			return m, nil
		}
		m.cfg.Commands = msg.cfg.Commands
		m.commands = msg.cfg.SlashCommands()
		m.statusLine = "config reloaded"
		m.statusIsErr = false
		return m, nil

	case tea.KeyMsg:
		if m.quitConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				return m, tea.Quit
			default:
				m.quitConfirm = false
				return m, nil
			}
		}
		switch msg.String() {
		case "ctrl+c":
			m.quitConfirm = true
			return m, nil
		case "esc":
			m.suggestions = nil
			return m, nil
		case "tab":
			if len(m.suggestions) > 0 {
				m.input.SetValue("/" + m.suggestions[0].Trigger + " ")
				m.input.CursorEnd()
				m.suggestions = nil
			}
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.suggestions = nil
			cmd := m.handleSubmit(value)
			m.renderTimeline()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.suggestions = command.Suggestions(m.input.Value(), m.commands)
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.timeline, cmd = m.timeline.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleSubmit routes one submitted input line: UI commands first, then
// configured slash commands, then plain prompts.
func (m *model) handleSubmit(raw string) tea.Cmd {
	if strings.HasPrefix(raw, "/") {
		parts := strings.Fields(raw)
		switch strings.ToLower(parts[0]) {
		case "/quit", "/exit":
			m.quitConfirm = true
			return nil
		case "/new":
			id, err := m.engine.Branch("", "")
			if err != nil {
				m.setError(err.Error())
				return nil
			}
			m.activeID = id
			m.setStatus("started a fresh thread")
			return nil
		case "/root":
			m.activeID = m.rootID
			m.setStatus("jumped to root thread")
			return nil
		case "/up":
			parent, ok := m.engine.ParentThread(m.activeID)
			if !ok {
				m.setStatus("already at a top-level thread")
				return nil
			}
			m.activeID = parent.ID
			m.setStatus("moved to parent thread")
			return nil
		case "/go":
			if len(parts) < 2 {
				m.setStatus("usage: /go <thread number>")
				return nil
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.setStatus("usage: /go <thread number>")
				return nil
			}
			threads := m.store.Threads()
			if n < 1 || n > len(threads) {
				m.setStatus(fmt.Sprintf("no thread %d (have %d)", n, len(threads)))
				return nil
			}
			m.activeID = threads[n-1].ID
			m.setStatus("switched thread")
			return nil
		case "/branch":
			return m.handleBranch(parts[1:])
		}

		parsed, ok := command.Parse(raw, m.commands)
		if !ok {
			m.setError("unknown command: " + parts[0])
			return nil
		}
		return m.submitPrompt(command.Execute(parsed.Command, parsed.Params))
	}

	return m.submitPrompt(raw)
}

// handleBranch derives a child thread from message n of the active thread,
// carrying any trailing words as the selected excerpt, and kicks off its
// first generation.
func (m *model) handleBranch(args []string) tea.Cmd {
	active, ok := m.store.Get(m.activeID)
	if !ok {
		m.setError("active thread vanished")
		return nil
	}
	if len(args) == 0 {
		m.setStatus("usage: /branch <message number> [selected text]")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(active.Messages) {
		m.setStatus(fmt.Sprintf("usage: /branch <1-%d> [selected text]", len(active.Messages)))
		return nil
	}

	selected := strings.TrimSpace(strings.Join(args[1:], " "))
	if selected == "" {
		selected = excerpt(active.Messages[n-1].Content, 120)
	}

	childID, err := m.engine.Branch(active.Messages[n-1].ID, selected)
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	m.activeID = childID
	if err := m.engine.Enqueue(childID); err != nil {
		m.setError(err.Error())
		return nil
	}
	m.setStatus("branched; generating...")
	return m.drainCmd()
}

func (m *model) submitPrompt(prompt string) tea.Cmd {
	m.store.AddMessage(m.activeID, thread.RoleUser, prompt)
	if err := m.engine.Enqueue(m.activeID); err != nil {
		m.setError(err.Error())
		return nil
	}
	m.setStatus("generating...")
	return m.drainCmd()
}

func (m *model) setStatus(line string) {
	m.statusLine = line
	m.statusIsErr = false
}

func (m *model) setError(line string) {
	m.statusLine = line
	m.statusIsErr = true
}

func (m *model) renderTimeline() {
	active, ok := m.store.Get(m.activeID)
	if !ok {
		m.timeline.SetContent("thread not found")
		return
	}

	var b strings.Builder
	if active.BranchContext != "" {
		b.WriteString(m.theme.breadcrumb.Render("branched from: "+excerpt(active.BranchContext, 100)) + "\n\n")
	}
	for i, msg := range active.Messages {
		label := m.theme.aiLabel.Render("assistant")
		if msg.Role == thread.RoleUser {
			label = m.theme.userLabel.Render("you")
		}
		b.WriteString(fmt.Sprintf("%2d %s\n%s\n\n", i+1, label, msg.Content))
	}
	if active.Status == thread.StatusStreaming {
		b.WriteString(m.spinner.View() + " streaming...\n")
	}
	if active.Status == thread.StatusError {
		b.WriteString(m.theme.errorRow.Render("generation failed - resubmit to retry") + "\n")
	}

	atBottom := m.timeline.AtBottom()
	m.timeline.SetContent(b.String())
	if atBottom {
		m.timeline.GotoBottom()
	}
}

func (m model) breadcrumb() string {
	chain := m.engine.AncestorChain(m.activeID)
	parts := make([]string, 0, len(chain)+1)
	for _, ancestor := range chain {
		parts = append(parts, threadTitle(ancestor))
	}
	if active, ok := m.store.Get(m.activeID); ok {
		parts = append(parts, threadTitle(active))
	}
	return strings.Join(parts, " › ")
}

// runningStrip summarizes queued and streaming threads for the header area.
func (m model) runningStrip() string {
	entries := m.engine.QueueStatus()
	if len(entries) == 0 {
		return ""
	}
	rows := make([]string, 0, len(entries))
	for _, entry := range entries {
		title := entry.ThreadID
		if t, ok := m.store.Get(entry.ThreadID); ok {
			title = threadTitle(t)
		}
		rows = append(rows, fmt.Sprintf("%s %s", string(entry.Status), excerpt(title, 40)))
	}
	return m.theme.runningRow.Render(strings.Join(rows, "  |  "))
}

func (m model) View() string {
	if m.quitConfirm {
		return m.theme.root.Render(
			m.theme.panel.Render("Quit AI Threads? (y/n)"),
		)
	}

	title := m.theme.panelTitle.Render("AI Threads")
	crumb := m.theme.breadcrumb.Render(m.breadcrumb())
	header := m.theme.header.Width(maxInt(20, m.width-4)).Render(title + "  " + crumb)

	sections := []string{header}
	if strip := m.runningStrip(); strip != "" {
		sections = append(sections, m.theme.panel.Width(maxInt(20, m.width-4)).Render(strip))
	}
	sections = append(sections, m.theme.panel.Width(maxInt(20, m.width-4)).Render(m.timeline.View()))

	if len(m.suggestions) > 0 {
		rows := make([]string, 0, len(m.suggestions))
		for _, cmd := range m.suggestions {
			rows = append(rows, m.theme.suggestion.Render("/"+cmd.Trigger)+" "+m.theme.helpText.Render(cmd.Description))
		}
		sections = append(sections, m.theme.panel.Width(maxInt(20, m.width-4)).Render(strings.Join(rows, "\n")))
	}

	sections = append(sections, m.theme.inputPanel.Width(maxInt(20, m.width-4)).Render(m.input.View()))

	statusStyle := m.theme.status
	if m.statusIsErr {
		statusStyle = m.theme.errorStatus
	}
	help := m.theme.helpText.Render("/branch <n> [text] · /up · /root · /go <n> · /new · tab completes · ctrl+c quits")
	sections = append(sections, m.theme.footer.Width(maxInt(20, m.width-4)).Render(statusStyle.Render(m.statusLine)+"  "+help))

	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// threadTitle derives a short human label for a thread: its first user
// prompt, else its branch context, else a fixed root label.
func threadTitle(t thread.Thread) string {
	if first, ok := firstMessageByRole(t, thread.RoleUser); ok {
		return excerpt(first.Content, 40)
	}
	if t.BranchContext != "" {
		return excerpt(t.BranchContext, 40)
	}
	if t.ParentID == "" {
		return "root"
	}
	return excerpt(t.ID, 8)
}

func firstMessageByRole(t thread.Thread, role thread.Role) (thread.Message, bool) {
	for _, msg := range t.Messages {
		if msg.Role == role {
			return msg, true
		}
	}
	return thread.Message{}, false
}

// excerpt collapses whitespace and truncates to limit runes with an
// ellipsis.
func excerpt(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if limit <= 0 || len(runes) <= limit {
		return collapsed
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
