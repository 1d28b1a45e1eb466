package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	regclient "github.com/reglens/reglens-go"
)

// ViewMode identifies the active dashboard tab.
type ViewMode int

const (
	ChatView ViewMode = iota
	DocumentsView
	TopicsView
	AlertsView
	ChecklistsView
	AnalyticsView
)

const tabCount = 6

// Options wires the dashboard to a backend and data source.
type Options struct {
	// Backend answers questions on the Chat tab.
	Backend regclient.Backend

	// Source supplies the resource tabs. Use DemoSource for keyless demos.
	Source DataSource

	// Params are the default ask parameters from configuration.
	Params *regclient.AskParams

	// ConfidenceThreshold drives the hallucination flag in the quality
	// panel. Zero means regclient.DefaultConfidenceThreshold.
	ConfidenceThreshold float64
}

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	backend   regclient.Backend
	source    DataSource
	params    *regclient.AskParams
	threshold float64

	width  int
	height int
	ready  bool

	currentView ViewMode
	activeTab   int

	// Chat tab
	questionInput textinput.Model
	spinner       spinner.Model
	session       *regclient.Session
	answer        regclient.AnswerState
	warnings      []regclient.ValidationWarning
	askErr        error
	streaming     bool
	lastQuestion  string

	// Resource tabs
	documentsList  list.Model
	alertsList     list.Model
	checklistsList list.Model
	topics         []regclient.Topic
	analytics      *regclient.AnalyticsSummary
	resourceErr    error

	help      help.Model
	keyMap    KeyMap
	showHelp  bool
	statusMsg string
}

// KeyMap defines keybindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Tab     key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel answer"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload tab"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Tab, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Up, k.Down},
		{k.Tab, k.PrevTab, k.Refresh},
		{k.Help, k.Quit},
	}
}

// New creates the dashboard model.
func New(opts Options) Model {
	questionInput := textinput.New()
	questionInput.Placeholder = "Ask about a regulation..."
	questionInput.Prompt = "? "
	questionInput.PromptStyle = PromptStyle
	questionInput.CharLimit = 2000
	questionInput.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	delegate := list.NewDefaultDelegate()
	emptyStyle := lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)

	documentsList := list.New([]list.Item{}, delegate, 0, 0)
	documentsList.Title = "Documents"
	documentsList.SetShowHelp(false)
	documentsList.SetShowStatusBar(false)
	documentsList.SetFilteringEnabled(false)
	documentsList.Styles.NoItems = emptyStyle

	alertsList := list.New([]list.Item{}, delegate, 0, 0)
	alertsList.Title = "Alerts"
	alertsList.SetShowHelp(false)
	alertsList.SetShowStatusBar(false)
	alertsList.SetFilteringEnabled(false)
	alertsList.Styles.NoItems = emptyStyle

	checklistsList := list.New([]list.Item{}, delegate, 0, 0)
	checklistsList.Title = "Checklists"
	checklistsList.SetShowHelp(false)
	checklistsList.SetShowStatusBar(false)
	checklistsList.SetFilteringEnabled(false)
	checklistsList.Styles.NoItems = emptyStyle

	threshold := opts.ConfidenceThreshold
	if threshold <= 0 {
		threshold = regclient.DefaultConfidenceThreshold
	}

	return Model{
		backend:        opts.Backend,
		source:         opts.Source,
		params:         opts.Params,
		threshold:      threshold,
		currentView:    ChatView,
		questionInput:  questionInput,
		spinner:        sp,
		answer:         regclient.NewAnswerState(),
		documentsList:  documentsList,
		alertsList:     alertsList,
		checklistsList: checklistsList,
		help:           help.New(),
		keyMap:         DefaultKeyMap(),
		statusMsg:      fmt.Sprintf("Connected to %s backend", opts.Backend.Name()),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.documentsList.SetSize(m.width-4, m.height-8)
		m.alertsList.SetSize(m.width-4, m.height-8)
		m.checklistsList.SetSize(m.width-4, m.height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.streaming {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionStartedMsg:
		m.session = msg.Session
		m.warnings = msg.Warnings
		m.streaming = true
		m.statusMsg = "Streaming answer..."
		return m, tea.Batch(waitForUpdate(m.session.Updates()), m.spinner.Tick)

	case askFailedMsg:
		m.streaming = false
		m.askErr = msg.Err
		m.statusMsg = "Ask failed"
		return m, nil

	case answerUpdateMsg:
		if msg.Closed {
			m.streaming = false
			return m, nil
		}
		m.answer = msg.State
		if m.answer.Status.IsTerminal() {
			m.streaming = false
			switch m.answer.Status {
			case regclient.StatusComplete:
				m.statusMsg = "Answer complete"
			case regclient.StatusFailed:
				if m.answer.Cancelled() {
					m.statusMsg = "Answer cancelled"
				} else {
					m.statusMsg = "Answer failed"
				}
			}
		}
		// Keep draining until the session closes the channel.
		return m, waitForUpdate(m.session.Updates())

	case documentsLoadedMsg:
		if msg.Err != nil {
			m.resourceErr = msg.Err
			return m, nil
		}
		m.resourceErr = nil
		items := make([]list.Item, len(msg.Documents))
		for i, d := range msg.Documents {
			items[i] = documentItem{doc: d}
		}
		m.documentsList.SetItems(items)
		m.statusMsg = fmt.Sprintf("Loaded %d documents", len(msg.Documents))
		return m, nil

	case topicsLoadedMsg:
		if msg.Err != nil {
			m.resourceErr = msg.Err
			return m, nil
		}
		m.resourceErr = nil
		m.topics = msg.Topics
		m.statusMsg = fmt.Sprintf("Loaded %d topics", len(msg.Topics))
		return m, nil

	case alertsLoadedMsg:
		if msg.Err != nil {
			m.resourceErr = msg.Err
			return m, nil
		}
		m.resourceErr = nil
		items := make([]list.Item, len(msg.Alerts))
		for i, a := range msg.Alerts {
			items[i] = alertItem{alert: a}
		}
		m.alertsList.SetItems(items)
		m.statusMsg = fmt.Sprintf("Loaded %d alerts", len(msg.Alerts))
		return m, nil

	case checklistsLoadedMsg:
		if msg.Err != nil {
			m.resourceErr = msg.Err
			return m, nil
		}
		m.resourceErr = nil
		items := make([]list.Item, len(msg.Checklists))
		for i, c := range msg.Checklists {
			items[i] = checklistItem{list: c}
		}
		m.checklistsList.SetItems(items)
		m.statusMsg = fmt.Sprintf("Loaded %d checklists", len(msg.Checklists))
		return m, nil

	case analyticsLoadedMsg:
		if msg.Err != nil {
			m.resourceErr = msg.Err
			return m, nil
		}
		m.resourceErr = nil
		m.analytics = msg.Summary
		m.statusMsg = "Analytics updated"
		return m, nil
	}

	// Route remaining messages to the active list.
	switch m.currentView {
	case DocumentsView:
		m.documentsList, cmd = m.documentsList.Update(msg)
		cmds = append(cmds, cmd)
	case AlertsView:
		m.alertsList, cmd = m.alertsList.Update(msg)
		cmds = append(cmds, cmd)
	case ChecklistsView:
		m.checklistsList, cmd = m.checklistsList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if m.session != nil {
			m.session.Cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Tab):
		return m.switchTab((m.activeTab + 1) % tabCount)

	case key.Matches(msg, m.keyMap.PrevTab):
		return m.switchTab((m.activeTab + tabCount - 1) % tabCount)

	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.loadCurrentTab()
	}

	if m.currentView == ChatView {
		return m.handleChatKey(msg)
	}
	return m.handleListKey(msg)
}

// handleChatKey processes keys on the chat tab. Printable keys go to the
// question input.
func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		question := strings.TrimSpace(m.questionInput.Value())
		if question == "" || m.streaming {
			return m, nil
		}
		m.lastQuestion = question
		m.questionInput.SetValue("")
		m.answer = regclient.NewAnswerState()
		m.warnings = nil
		m.askErr = nil
		m.streaming = true
		m.statusMsg = "Asking..."
		return m, tea.Batch(startAsk(m.backend, question, m.params), m.spinner.Tick)

	case key.Matches(msg, m.keyMap.Cancel):
		if m.streaming && m.session != nil {
			m.session.Cancel()
			m.statusMsg = "Cancelling..."
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.questionInput, cmd = m.questionInput.Update(msg)
	return m, cmd
}

// handleListKey processes keys on the resource tabs. q quits there since no
// text input is active.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		if m.session != nil {
			m.session.Cancel()
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.currentView {
	case DocumentsView:
		m.documentsList, cmd = m.documentsList.Update(msg)
	case AlertsView:
		m.alertsList, cmd = m.alertsList.Update(msg)
	case ChecklistsView:
		m.checklistsList, cmd = m.checklistsList.Update(msg)
	}
	return m, cmd
}

// switchTab moves to the given tab and kicks off its data load.
func (m Model) switchTab(tab int) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	m.currentView = ViewMode(tab)
	m.resourceErr = nil
	if m.currentView == ChatView {
		m.questionInput.Focus()
		return m, textinput.Blink
	}
	m.questionInput.Blur()
	return m, m.loadCurrentTab()
}

// loadCurrentTab returns the fetch command for the active tab.
func (m Model) loadCurrentTab() tea.Cmd {
	switch m.currentView {
	case DocumentsView:
		return loadDocuments(m.source)
	case TopicsView:
		return loadTopics(m.source)
	case AlertsView:
		return loadAlerts(m.source)
	case ChecklistsView:
		return loadChecklists(m.source)
	case AnalyticsView:
		return loadAnalytics(m.source)
	default:
		return nil
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content strings.Builder

	content.WriteString(m.renderTabBar())
	content.WriteString("\n\n")

	switch m.currentView {
	case ChatView:
		content.WriteString(m.renderChat())
	case DocumentsView:
		content.WriteString(m.renderResource(m.documentsList.View()))
	case TopicsView:
		content.WriteString(m.renderResource(m.renderTopics()))
	case AlertsView:
		content.WriteString(m.renderResource(m.alertsList.View()))
	case ChecklistsView:
		content.WriteString(m.renderResource(m.checklistsList.View()))
	case AnalyticsView:
		content.WriteString(m.renderResource(m.renderAnalytics()))
	}

	content.WriteString("\n")
	content.WriteString(m.renderStatusBar())

	if m.showHelp {
		content.WriteString("\n")
		content.WriteString(HelpStyle.Render(m.help.View(m.keyMap)))
	}

	return content.String()
}

// renderTabBar renders the tab labels.
func (m Model) renderTabBar() string {
	tabs := []string{"Chat", "Documents", "Topics", "Alerts", "Checklists", "Analytics"}
	var rendered []string
	for i, tab := range tabs {
		if i == m.activeTab {
			rendered = append(rendered, ActiveTab.Render(tab))
		} else {
			rendered = append(rendered, InactiveTab.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderChat renders the ask workspace.
func (m Model) renderChat() string {
	var content strings.Builder

	content.WriteString("  " + m.questionInput.View())
	content.WriteString("\n\n")

	if m.askErr != nil {
		content.WriteString(ErrorStyle.Render("  " + m.askErr.Error()))
		content.WriteString("\n")
		return content.String()
	}

	content.WriteString(renderWarnings(m.warnings))

	if m.lastQuestion != "" {
		content.WriteString(QualityLabel.Render("  Q: " + m.lastQuestion))
		content.WriteString("\n\n")
	}

	if m.streaming {
		content.WriteString("  " + m.spinner.View() + " streaming\n\n")
	}

	if m.answer.Status == regclient.StatusFailed {
		content.WriteString(ErrorStyle.Render("  " + m.answer.ErrorMessage))
		content.WriteString("\n")
	}

	if body := renderAnswer(m.answer, m.width-4); body != "" {
		content.WriteString(body)
		content.WriteString("\n\n")
	}

	if c := renderCitations(m.answer.Citations); c != "" {
		content.WriteString(c)
		content.WriteString("\n")
	}
	if q := renderQuality(m.answer.Metadata, m.threshold); q != "" {
		content.WriteString(q)
	}

	return content.String()
}

// renderResource wraps a resource view with its error banner.
func (m Model) renderResource(body string) string {
	if m.resourceErr != nil {
		return ErrorStyle.Render("  "+m.resourceErr.Error()) + "\n\n" + body
	}
	return body
}

// renderTopics renders the topic index.
func (m Model) renderTopics() string {
	if len(m.topics) == 0 {
		return CitationMeta.Render("  No topics loaded.")
	}

	var content strings.Builder
	content.WriteString(Header.Render("Topics"))
	content.WriteString("\n")
	for _, t := range m.topics {
		content.WriteString(CitationTitle.Render(fmt.Sprintf("  %-18s %s", t.Code, t.Label)))
		content.WriteString(CitationMeta.Render(fmt.Sprintf("  (%d docs)", t.DocumentCount)))
		content.WriteString("\n")
		if t.Description != "" {
			content.WriteString(CitationMeta.Render("    " + t.Description))
			content.WriteString("\n")
		}
	}
	return content.String()
}

// renderAnalytics renders the corpus statistics panel.
func (m Model) renderAnalytics() string {
	if m.analytics == nil {
		return CitationMeta.Render("  No analytics loaded.")
	}

	a := m.analytics
	var content strings.Builder
	content.WriteString(Header.Render("Analytics"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  documents        %d\n", a.TotalDocuments))
	content.WriteString(fmt.Sprintf("  questions asked  %d\n", a.TotalQuestions))
	content.WriteString(fmt.Sprintf("  answered rate    %.0f%%\n", a.AnsweredRate*100))
	content.WriteString(fmt.Sprintf("  avg confidence   %.2f\n", a.AvgConfidence))
	content.WriteString(fmt.Sprintf("  avg groundedness %.2f\n", a.AvgGroundedness))
	if len(a.TopTopics) > 0 {
		content.WriteString("\n")
		content.WriteString(Header.Render("Most asked topics"))
		content.WriteString("\n")
		for _, tc := range a.TopTopics {
			content.WriteString(fmt.Sprintf("  %-18s %d\n", tc.Code, tc.Count))
		}
	}
	content.WriteString("\n")
	content.WriteString(CitationMeta.Render("  updated " + a.UpdatedAt))
	return content.String()
}

// renderStatusBar renders the bottom status line.
func (m Model) renderStatusBar() string {
	hints := "[tab] switch  [ctrl+r] reload  [ctrl+h] help  [ctrl+c] quit"
	if m.currentView == ChatView {
		hints = "[enter] ask  [esc] cancel  " + hints
	}
	text := fmt.Sprintf(" %s  •  %s  •  %s", m.backend.Name(), m.statusMsg, hints)
	return StatusBar.Width(m.width).Render(text)
}
