package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	verboseStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

func success(msg string) string { return successStyle.Render("✓ " + msg) }
func failure(msg string) string { return errorStyle.Render("✗ " + msg) }
func info(msg string) string    { return infoStyle.Render(msg) }
func verbose(msg string) string { return verboseStyle.Render("  … " + msg) }
