package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/status"
	"github.com/stretchr/testify/assert"
)

func TestRenderDashboard_Grid(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web, db}, "nginx", "mysql")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	f.store.Set(web.Key(), "nginx", status.Entry{State: status.Available})
	f.store.Set(web.Key(), "mysql", status.Entry{State: status.NotWorking, Error: "mysqld is stopped"})

	view := m.View()

	assert.Contains(t, view, "svcmon")
	assert.Contains(t, view, "2 hosts")
	assert.Contains(t, view, "web")
	assert.Contains(t, view, "db")
	assert.Contains(t, view, "ops@web01")
	assert.Contains(t, view, "nginx")
	assert.Contains(t, view, "mysql")
	assert.Contains(t, view, "available")
	assert.Contains(t, view, "not working")
	assert.Contains(t, view, "unknown")
	assert.Contains(t, view, "q quit")
}

func TestRenderDashboard_UnreachableHost(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web}, "nginx")
	gen := f.store.Begin(web.Key())
	f.store.SetHostUnreachable(web.Key(), gen, []string{"nginx"}, "SSH connection failed")

	view := m.View()
	assert.Contains(t, view, "not working")
	assert.Contains(t, view, GlyphUnreachable)
	assert.Contains(t, view, "SSH connection failed")
}

func TestRenderDetail_SelectedCell(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web}, "nginx", "mysql")
	f.store.Set(web.Key(), "mysql", status.Entry{State: status.Available, Output: "SUCCESS! MySQL running (1234)"})
	m.col = 1

	detail := m.renderDetail()
	assert.Contains(t, detail, "ops@web01")
	assert.Contains(t, detail, "mysql")
	assert.Contains(t, detail, "SUCCESS! MySQL running")
}

func TestRenderDashboard_Empty(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.Contains(t, m.View(), "No hosts registered")

	m, _ = newTestModel(t, []registry.Host{web})
	assert.Contains(t, m.View(), "No services registered")
}

func TestRenderDashboard_Notice(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")
	m.notice = "Couldn't save registry"
	assert.Contains(t, m.View(), "Couldn't save registry")
}

func TestRenderHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")
	m.showHelp = true

	view := m.View()
	assert.Contains(t, view, "Refresh all hosts")
	assert.Contains(t, view, "Restart selected service")
}

func TestFormatSince(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		t      time.Time
		expect string
	}{
		{"zero", time.Time{}, "never"},
		{"now", now, "just now"},
		{"one second", now.Add(-time.Second), "1s ago"},
		{"seconds", now.Add(-42 * time.Second), "42s ago"},
		{"minutes", now.Add(-3 * time.Minute), "3m ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, formatSince(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "nginx", truncate("nginx", 10))
	assert.Equal(t, "postgr…", truncate("postgresql", 7))
	assert.Equal(t, "p", truncate("postgresql", 1))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one"))
	assert.Equal(t, "one …", firstLine("one\ntwo"))
}
