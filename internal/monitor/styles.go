package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/svcmon/internal/status"
	"github.com/rileyhilliard/svcmon/internal/ui"
)

// Dashboard palette, drawn from the shared CLI palette so check output and
// the grid agree on what each state looks like.
const (
	ColorDarkBg    = ui.ColorDeepVoid
	ColorSurfaceBg = ui.ColorDarkSurface
	ColorBorder    = ui.ColorGlassBorder

	ColorHealthy  = ui.ColorSuccess
	ColorWarning  = ui.ColorWarning
	ColorCritical = ui.ColorError

	ColorTextPrimary   = ui.ColorPrimary
	ColorTextSecondary = ui.ColorSecondary
	ColorTextMuted     = ui.ColorMuted

	ColorAccent    = ui.ColorNeonPink
	ColorAccentDim = ui.ColorNeonPurple
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	GridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	LogPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim).
				Bold(true)

	HostNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	HostAddrStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	SelectedCellStyle = lipgloss.NewStyle().
				Background(ColorBorder).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	LogWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	LogErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)
)

// State glyphs, shared with check output.
const (
	GlyphUnknown     = ui.SymbolPending
	GlyphAvailable   = ui.SymbolSuccess
	GlyphNotWorking  = ui.SymbolFail
	GlyphUnreachable = ui.SymbolSkipped
)

// CheckingSpinnerFrames animate cells with a check in flight.
var CheckingSpinnerFrames = ui.SpinnerFrames

// StateColor returns the palette color for a state.
func StateColor(s status.State) lipgloss.Color {
	switch s {
	case status.Available:
		return ColorHealthy
	case status.NotWorking, status.Unreachable:
		return ColorCritical
	case status.Checking:
		return ColorWarning
	default:
		return ColorTextMuted
	}
}

// StateStyle returns a foreground style for a state.
func StateStyle(s status.State) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StateColor(s))
}

// StateGlyph returns the glyph for a state. frame animates Checking.
func StateGlyph(s status.State, frame int) string {
	switch s {
	case status.Available:
		return GlyphAvailable
	case status.NotWorking:
		return GlyphNotWorking
	case status.Unreachable:
		return GlyphUnreachable
	case status.Checking:
		return CheckingSpinnerFrames[frame%len(CheckingSpinnerFrames)]
	default:
		return GlyphUnknown
	}
}
