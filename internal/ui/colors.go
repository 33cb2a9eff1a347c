package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Neon palette shared with the dashboard.
const (
	ColorNeonPink   lipgloss.Color = "#FF2E97"
	ColorNeonCyan   lipgloss.Color = "#00FFFF"
	ColorNeonPurple lipgloss.Color = "#BF40FF"
	ColorNeonGreen  lipgloss.Color = "#39FF14"
	ColorNeonAmber  lipgloss.Color = "#FFAA00"

	ColorDeepVoid    lipgloss.Color = "#0A0A0F"
	ColorDarkSurface lipgloss.Color = "#12121A"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = ColorNeonGreen
	ColorError   lipgloss.Color = "#FF0055"
	ColorWarning lipgloss.Color = ColorNeonAmber
	ColorInfo    lipgloss.Color = ColorNeonCyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#FFFFFF"
	ColorSecondary lipgloss.Color = "#B4B4D0"
	ColorMuted     lipgloss.Color = "#6B6B8D"
)

// GradientColors cycle through the spinner animation: pink, purple, cyan, green.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// SuccessStyle renders text in the success color.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle renders text in the error color.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle renders text in the warning color.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning)
}

// InfoStyle renders text in the info color.
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorInfo)
}

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// PrintWarning writes a warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}

// DisableColors switches all lipgloss output to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
