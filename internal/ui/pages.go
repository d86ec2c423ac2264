package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lee-electronics/assistant/internal/conversation"
	"github.com/lee-electronics/assistant/internal/model/chat"
)

func (m Model) homeFeatures() []string {
	return []string{
		"Product recommendations across " + listWords(m.persona.Offerings),
		"Warranty, return and shipping policy answers",
		"Store contact details and opening hours",
		"Available around the clock",
	}
}

// listWords joins words as "a, b and c".
func listWords(words []string) string {
	switch len(words) {
	case 0:
		return "our catalogue"
	case 1:
		return words[0]
	}
	return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
}

func (m Model) homeView() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(m.persona.Name))
	b.WriteString("\n")
	b.WriteString("Get instant answers about " + m.persona.Company + " products, services and policies.\n\n")
	for _, f := range m.homeFeatures() {
		b.WriteString(bulletStyle.Render("✓ "))
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press enter to start chatting."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) aboutView() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("About " + m.persona.Company))
	b.WriteString("\n")
	b.WriteString("Lee Electronics offers a wide range of electronic products and services\n")
	b.WriteString("such as TVs, smartphones, and laptops. The assistant answers from our\n")
	b.WriteString("internal documentation, policies, product descriptions and contact details.\n\n")
	b.WriteString(mutedStyle.Render("Answers are generated by an AI model and may be incomplete.\n"))
	b.WriteString(mutedStyle.Render("For anything urgent please contact customer support."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) chatView() string {
	sections := []string{m.statusView()}

	if m.state.Error != "" {
		sections = append(sections, bannerStyle.Render(
			bannerTitleStyle.Render("Connection Issue: ")+m.state.Error+"\n"+
				mutedStyle.Render("You can still try sending messages"),
		))
	}

	for _, msg := range m.state.Messages {
		sections = append(sections, renderMessage(msg, m.bubbleWidth()))
	}

	if m.state.Busy {
		sections = append(sections, m.spin.View()+" "+mutedStyle.Render("Assistant is typing..."))
	}

	sections = append(sections, suggestionsView(), m.input.View())
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) statusView() string {
	color := pendingColor
	switch m.state.Connection {
	case chat.Connected:
		color = okColor
	case chat.Disconnected:
		color = errColor
	}

	line := lipgloss.NewStyle().Foreground(color).Render("●") + " " + m.state.Connection.Label()
	if m.state.CanRetry() {
		line += "  " + mutedStyle.Render("[ctrl+r] Retry")
	}
	if d := m.state.Diagnostics; d != nil {
		model := "mock answers"
		if d.AIConfigured {
			model = "AI model configured"
		}
		line += "  " + mutedStyle.Render(fmt.Sprintf("(%s, %s)", d.Message, model))
	}
	return line
}

func (m Model) bubbleWidth() int {
	if m.width <= 0 {
		return 72
	}
	return max(m.width*3/4, 20)
}

func renderMessage(msg chat.Message, width int) string {
	stamp := timeStyle.Render(msg.CreatedAt.Format("15:04"))
	if msg.IsUser() {
		bubble := userBubbleStyle.Width(min(lipgloss.Width(msg.Content)+2, width)).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
	}
	bubble := assistantBubbleStyle.Width(width).Render(msg.Content)
	return lipgloss.JoinVertical(lipgloss.Left, bubble, stamp)
}

func suggestionsView() string {
	chips := make([]string, 0, len(conversation.Suggestions))
	for i, s := range conversation.Suggestions {
		chips = append(chips, chipStyle.Render(fmt.Sprintf("F%d %s", i+1, s)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}
