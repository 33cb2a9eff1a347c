package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticColorsMapToPalette(t *testing.T) {
	assert.Equal(t, ColorNeonGreen, ColorSuccess, "available services render neon green")
	assert.Equal(t, ColorNeonAmber, ColorWarning, "unreachable hosts render amber")
	assert.Equal(t, ColorNeonCyan, ColorInfo, "checks in progress render cyan")
	assert.Equal(t, lipgloss.Color("#FF0055"), ColorError)
}

func TestSemanticColorsAreDistinct(t *testing.T) {
	// Each check table state needs its own color to be told apart.
	seen := make(map[lipgloss.Color]string)
	for name, c := range map[string]lipgloss.Color{
		"success": ColorSuccess,
		"error":   ColorError,
		"warning": ColorWarning,
		"info":    ColorInfo,
		"muted":   ColorMuted,
	} {
		if other, dup := seen[c]; dup {
			t.Errorf("%s and %s share color %s", name, other, c)
		}
		seen[c] = name
	}
}

func TestGradientColors_EndOnSuccess(t *testing.T) {
	require.Len(t, GradientColors, 4)
	assert.Equal(t, ColorNeonPink, GradientColors[0])
	assert.Equal(t, ColorSuccess, GradientColors[len(GradientColors)-1])
}

func TestStyleForegrounds(t *testing.T) {
	tests := []struct {
		name  string
		style lipgloss.Style
		want  lipgloss.Color
	}{
		{"success", SuccessStyle(), ColorSuccess},
		{"error", ErrorStyle(), ColorError},
		{"warning", WarningStyle(), ColorWarning},
		{"info", InfoStyle(), ColorInfo},
		{"muted", MutedStyle(), ColorMuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.style.GetForeground())
			assert.Contains(t, tt.style.Render("nginx on web01"), "nginx on web01")
		})
	}
}

func TestPrintWarning(t *testing.T) {
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	PrintWarning("Another host already uses code 'web'")

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()

	assert.Contains(t, output, "Another host already uses code 'web'")
	assert.Contains(t, output, SymbolWarning)
}

func TestDisableColors(t *testing.T) {
	original := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(original) })

	DisableColors()

	assert.Equal(t, "not working", ErrorStyle().Render("not working"))
	assert.Equal(t, SymbolSuccess, SuccessStyle().Render(SymbolSuccess))
}
