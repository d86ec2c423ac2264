package ui

import "github.com/charmbracelet/lipgloss"

var (
	brandColor   = lipgloss.Color("39")
	mutedColor   = lipgloss.Color("245")
	okColor      = lipgloss.Color("42")
	errColor     = lipgloss.Color("196")
	pendingColor = lipgloss.Color("220")

	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(brandColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(mutedColor)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("231")).Background(brandColor)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor)
	footerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			Foreground(mutedColor)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errColor).
			Padding(0, 1)
	bannerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(errColor)

	userBubbleStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("231")).
			Background(brandColor)
	assistantBubbleStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(mutedColor)
	timeStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	chipStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandColor)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(brandColor).MarginBottom(1)
	bulletStyle  = lipgloss.NewStyle().Foreground(okColor)
)
