// Package ui is the terminal front-end: a small three-page app whose Chat
// page renders a conversation.Session.
package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lee-electronics/assistant/internal/conversation"
	"github.com/lee-electronics/assistant/internal/model/persona"
)

// Page identifies a screen of the app.
type Page int

const (
	HomePage Page = iota
	ChatPage
	AboutPage
)

var pageTitles = []string{"Home", "Chat", "About"}

func (p Page) String() string {
	if int(p) < len(pageTitles) {
		return pageTitles[p]
	}
	return "?"
}

type stateMsg conversation.State
type sessionClosedMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	session *conversation.Session
	updates <-chan conversation.State
	persona persona.Persona

	page    Page
	started bool
	state   conversation.State

	input textinput.Model
	spin  spinner.Model

	width  int
	height int
}

// Option customises a Model.
type Option func(*Model)

// WithStartPage opens the app on p instead of Home.
func WithStartPage(p Page) Option {
	return func(m *Model) {
		m.page = p
	}
}

// New builds the app around session. The connection check runs the first
// time the Chat page is shown.
func New(ctx context.Context, session *conversation.Session, opts ...Option) Model {
	in := textinput.New()
	in.Placeholder = "Ask about our products, services, or policies..."
	in.Prompt = "› "
	in.CharLimit = 0
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brandColor)

	m := Model{
		ctx:     ctx,
		session: session,
		updates: session.Subscribe(),
		persona: persona.LeeElectronics(),
		page:    HomePage,
		state:   session.State(),
		input:   in,
		spin:    s,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.page == ChatPage {
		m.enterChat()
	}
	return m
}

// Init starts the spinner and the state subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForState(m.updates))
}

func waitForState(ch <-chan conversation.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return stateMsg(st)
	}
}

// Update handles input and session notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case stateMsg:
		m.state = conversation.State(msg)
		m.syncInput()
		return m, waitForState(m.updates)

	case sessionClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m.switchTo(Page((int(m.page) + 1) % len(pageTitles))), nil
	case "shift+tab":
		return m.switchTo(Page((int(m.page) + len(pageTitles) - 1) % len(pageTitles))), nil
	case "alt+1":
		return m.switchTo(HomePage), nil
	case "alt+2":
		return m.switchTo(ChatPage), nil
	case "alt+3":
		return m.switchTo(AboutPage), nil
	}

	switch m.page {
	case ChatPage:
		return m.handleChatKey(msg)
	case HomePage:
		if msg.String() == "enter" {
			return m.switchTo(ChatPage), nil
		}
	case AboutPage:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "enter":
		if m.session.Submit(m.ctx, m.input.Value()) {
			m.input.Reset()
		}
		m.state = m.session.State()
		m.syncInput()
		return m, nil

	case "ctrl+r":
		if m.state.CanRetry() {
			m.session.Retry(m.ctx)
			m.state = m.session.State()
		}
		return m, nil

	case "ctrl+e":
		m.session.Echo(m.ctx)
		return m, nil

	case "f1", "f2", "f3", "f4":
		if m.state.Busy {
			return m, nil
		}
		idx := int(key[1] - '1')
		if idx < len(conversation.Suggestions) {
			m.input.SetValue(conversation.Suggestions[idx])
			m.input.CursorEnd()
			m.session.Edit(m.input.Value())
		}
		return m, nil
	}

	if m.state.Busy {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.Edit(after)
	}
	return m, cmd
}

func (m Model) switchTo(p Page) Model {
	m.page = p
	if p == ChatPage {
		m.enterChat()
	}
	return m
}

// enterChat focuses the input and runs the connection check once.
func (m *Model) enterChat() {
	m.input.Focus()
	if !m.started {
		m.started = true
		m.session.Start(m.ctx)
		m.state = m.session.State()
	}
}

// syncInput disables typing while a reply is pending.
func (m *Model) syncInput() {
	if m.state.Busy {
		m.input.Blur()
		return
	}
	if m.page == ChatPage {
		m.input.Focus()
	}
}

// View renders the shell around the current page.
func (m Model) View() string {
	var body string
	switch m.page {
	case HomePage:
		body = m.homeView()
	case ChatPage:
		body = m.chatView()
	case AboutPage:
		body = m.aboutView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.navView(),
		body,
		m.footerView(),
	)
}

func (m Model) navView() string {
	tabs := make([]string, 0, len(pageTitles))
	for i, title := range pageTitles {
		style := tabStyle
		if Page(i) == m.page {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(title))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		brandStyle.Render("⚡ "+m.persona.Company),
		"  ",
		strings.Join(tabs, " "),
	)
	return headerStyle.Width(max(m.width, lipgloss.Width(bar))).Render(bar)
}

func (m Model) footerView() string {
	hints := "tab switch page · esc quit"
	if m.page == ChatPage {
		hints = "enter send · F1-F4 suggestions · ctrl+e echo test · " + hints
	}
	line := "© " + m.persona.Company + " · " + hints
	return footerStyle.Width(max(m.width, lipgloss.Width(line))).Render(line)
}
