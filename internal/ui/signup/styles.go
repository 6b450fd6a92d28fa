package signup

import "github.com/charmbracelet/lipgloss"

var (
	subtleColor  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	successColor = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	welcomeColor = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	accentColor  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

	labelStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
	insertStyle  = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	welcomeStyle = lipgloss.NewStyle().Foreground(welcomeColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accentColor).
			Padding(0, 2)

	tableBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor)
)
