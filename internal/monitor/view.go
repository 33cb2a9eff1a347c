package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/svcmon/internal/status"
)

const (
	minHostColWidth = 14
	minCellWidth    = 12
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	if detail := m.renderDetail(); detail != "" {
		b.WriteString(detail)
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(NoticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.renderLogPane())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with per-state totals.
func (m Model) renderHeader() string {
	counts := m.Counts()

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("svcmon")

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %d hosts | %d services | %d available | %d failing | last update %s",
			len(m.hosts), len(m.services),
			counts[status.Available],
			counts[status.NotWorking]+counts[status.Unreachable],
			formatSince(m.lastUpdate, time.Now())))

	return HeaderStyle.Render(title + stats)
}

// renderGrid renders hosts as rows and services as columns.
func (m Model) renderGrid() string {
	if len(m.hosts) == 0 {
		return LabelStyle.Render("No hosts registered. Add one with: svcmon host add")
	}
	if len(m.services) == 0 {
		return LabelStyle.Render("No services registered. Add one with: svcmon service add <name>")
	}

	hostWidth := m.hostColumnWidth()
	cellWidth := m.cellWidth()

	var rows []string

	header := []string{padRight("", hostWidth)}
	for _, svc := range m.services {
		header = append(header, ColumnHeaderStyle.Render(padRight(truncate(svc, cellWidth-1), cellWidth)))
	}
	rows = append(rows, strings.Join(header, " "))

	for r, h := range m.hosts {
		label := HostNameStyle.Render(h.Code)
		if hs := m.store.HostState(h.Key()).State; hs == status.Unreachable {
			label += " " + StateStyle(hs).Render(GlyphUnreachable)
		}
		line := []string{padRight(label, hostWidth)}

		for c, svc := range m.services {
			restarting := m.restarting[cellKey(h, svc)]
			line = append(line, m.renderCell(r, c, m.store.Get(h.Key(), svc).State, restarting, cellWidth))
		}
		rows = append(rows, strings.Join(line, " "))
		rows = append(rows, HostAddrStyle.Render(padRight(truncate(h.Target(), hostWidth), hostWidth)))
	}

	return GridStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderCell(row, col int, state status.State, restarting bool, width int) string {
	text := StateGlyph(state, m.spinnerFrame) + " " + state.String()
	if restarting && state == status.Checking {
		text = StateGlyph(state, m.spinnerFrame) + " restarting"
	}
	cell := StateStyle(state).Render(padRight(truncate(text, width), width))
	if row == m.row && col == m.col {
		return SelectedCellStyle.Render(cell)
	}
	return cell
}

// renderDetail describes the selected cell: state, last output and error.
func (m Model) renderDetail() string {
	h, ok := m.SelectedHost()
	if !ok {
		return ""
	}
	svc, ok := m.SelectedService()
	if !ok {
		return ""
	}

	entry := m.store.Get(h.Key(), svc)
	parts := []string{
		LabelStyle.Render("host ") + ValueStyle.Render(h.Target()),
		LabelStyle.Render("service ") + ValueStyle.Render(svc),
		LabelStyle.Render("state ") + StateStyle(entry.State).Render(entry.State.String()),
	}
	if entry.Error != "" {
		parts = append(parts, LabelStyle.Render("error ")+LogErrorStyle.Render(firstLine(entry.Error)))
	} else if entry.Output != "" {
		parts = append(parts, LabelStyle.Render("output ")+ValueStyle.Render(firstLine(entry.Output)))
	}
	return " " + strings.Join(parts, "  ")
}

// renderLogPane renders the scrolling probe log.
func (m Model) renderLogPane() string {
	if len(m.logLines) == 0 {
		return LogPaneStyle.Render(LabelStyle.Render("Waiting for probe results..."))
	}
	return LogPaneStyle.Render(m.logView.View())
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh host",
		"R refresh all",
		"enter restart",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func (m Model) hostColumnWidth() int {
	w := minHostColWidth
	for _, h := range m.hosts {
		w = max(w, lipgloss.Width(h.Code)+2)
	}
	return w
}

func (m Model) cellWidth() int {
	w := minCellWidth
	for _, svc := range m.services {
		w = max(w, lipgloss.Width(svc)+1)
	}
	if m.width > 0 && len(m.services) > 0 {
		avail := (m.width - m.hostColumnWidth() - 6) / len(m.services)
		if avail >= minCellWidth {
			w = min(w, avail)
		}
	}
	return w
}

// formatSince renders how long ago t was, "never" for the zero time.
func formatSince(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	secs := int(now.Sub(t).Seconds())
	switch {
	case secs <= 0:
		return "just now"
	case secs == 1:
		return "1s ago"
	case secs < 60:
		return fmt.Sprintf("%ds ago", secs)
	default:
		return fmt.Sprintf("%dm ago", secs/60)
	}
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
