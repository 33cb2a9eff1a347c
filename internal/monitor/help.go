package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "r", Desc: "Refresh selected host"},
	{Key: "R", Desc: "Refresh all hosts"},
	{Key: "Enter / x", Desc: "Restart selected service"},
	{Key: "up / k", Desc: "Previous host"},
	{Key: "down / j", Desc: "Next host"},
	{Key: "left / h", Desc: "Previous service"},
	{Key: "right / l", Desc: "Next service"},
	{Key: "Home / End", Desc: "First / last host"},
	{Key: "PgUp / PgDn", Desc: "Scroll the log"},
	{Key: "Esc", Desc: "Dismiss notice / close"},
	{Key: "?", Desc: "Toggle this help"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	// Build help content
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		line := helpKeyStyle.Render(binding.Key) + helpDescStyle.Render(binding.Desc)
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	helpContent := strings.Join(lines, "\n")
	helpBox := helpBoxStyle.Render(helpContent)

	// Center the help box using lipgloss.Place
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
