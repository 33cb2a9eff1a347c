package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableStyle provides consistent styling for tables across the CLI.
type TableStyle struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// DefaultTableStyle returns the default table styling.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Cell: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Selected: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Background(ColorMuted),
		Border: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	base := DefaultTableStyle()
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(base.Border.GetForeground()).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Inherit(base.Cell)
	s.Selected = s.Selected.
		Foreground(base.Selected.GetForeground()).
		Background(base.Selected.GetBackground()).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	// Create the table
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// CheckRow is one service result in check output.
type CheckRow struct {
	Host    string // Host code
	Target  string // user@hostname
	Service string
	State   string // available, not working, unreachable, unknown
	Detail  string // Probe output or error, first line only
}

// RenderCheckTable renders check results grouped by host, in row order.
func RenderCheckTable(rows []CheckRow) string {
	if len(rows) == 0 {
		return "No services to check"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	var output string

	hosts := make(map[string][]CheckRow)
	hostOrder := []string{}
	for _, row := range rows {
		key := row.Host + " " + row.Target
		if _, exists := hosts[key]; !exists {
			hostOrder = append(hostOrder, key)
		}
		hosts[key] = append(hosts[key], row)
	}

	for _, key := range hostOrder {
		group := hosts[key]
		output += headerStyle.Render(group[0].Host) + " " + MutedStyle().Render(group[0].Target) + "\n"

		for _, row := range group {
			icon, style := stateIcon(row.State)
			line := "  " + style.Render(icon) + " " + padRight(row.Service, 20) + style.Render(padRight(row.State, 13))
			if row.Detail != "" {
				line += MutedStyle().Render(row.Detail)
			}
			output += line + "\n"
		}
		output += "\n"
	}

	return output
}

func stateIcon(state string) (string, lipgloss.Style) {
	switch state {
	case "available":
		return SymbolSuccess, SuccessStyle()
	case "not working":
		return SymbolFail, ErrorStyle()
	case "unreachable":
		return SymbolSkipped, WarningStyle()
	case "checking":
		return SymbolProgress, InfoStyle()
	default:
		return SymbolPending, MutedStyle()
	}
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
