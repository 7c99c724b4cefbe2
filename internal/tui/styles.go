package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor   = lipgloss.Color("#4A86E8") // accent blue
	secondaryColor = lipgloss.Color("#26A269") // success green
	processColor   = lipgloss.Color("#9141AC") // purple
	infoColor      = lipgloss.Color("#5E9CEC") // light blue
	warningColor   = lipgloss.Color("#E5A50A") // amber
	errorColor     = lipgloss.Color("#C01C28") // red
	detailColor    = lipgloss.Color("#A51D2D") // dark red
	mutedColor     = lipgloss.Color("#6B7280") // gray
	textColor      = lipgloss.Color("#F3F4F6") // light text
	dimTextColor   = lipgloss.Color("#9CA3AF") // dim text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			MarginTop(1).
			MarginBottom(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	fileNameStyle = lipgloss.NewStyle().
			Foreground(textColor)

	countStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// Log line styles, one per event kind
	infoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	processingStyle = lipgloss.NewStyle().
			Foreground(processColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(detailColor).
			PaddingLeft(4)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Width(12)

	statValueStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	highlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(1, 2).
				MarginTop(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(2)

	iconProcessing = "→"
	iconSuccess    = "✓"
	iconError      = "✗"
	iconInfo       = "·"
	iconFolder     = "📁"
)
