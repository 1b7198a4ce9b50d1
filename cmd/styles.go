package cmd

import "charm.land/lipgloss/v2"

// CLI output styles.
var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F8FAFC"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
)

func kv(label, value string) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(value)
}
