package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/probe"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/status"
)

// maxLogLines bounds the log pane history.
const maxLogLines = 500

// logPaneHeight is the visible height of the log pane, borders excluded.
const logPaneHeight = 6

// spinnerInterval is the animation frame rate for cells being checked.
const spinnerInterval = 150 * time.Millisecond

// Model is the Bubble Tea model for the host × service dashboard.
type Model struct {
	ctx        context.Context
	registry   *registry.Registry
	store      *status.Store
	orch       *Orchestrator
	remediator *probe.Remediator

	updates <-chan status.Update
	logs    <-chan logger.LogMessage

	hosts    []registry.Host
	services []string
	row      int
	col      int

	width      int
	height     int
	lastUpdate time.Time
	quitting   bool
	showHelp   bool
	notice     string

	// restarting tracks cells with a remediation in flight, keyed by cellKey.
	restarting map[string]bool

	spinnerFrame int

	logView  viewport.Model
	logLines []string
}

// storeUpdateMsg carries one accepted store write.
type storeUpdateMsg status.Update

// logMsg carries one log line for the log pane.
type logMsg logger.LogMessage

// remediatedMsg reports a finished restart.
type remediatedMsg struct {
	host    registry.Host
	service string
	entry   status.Entry
}

// spinnerTickMsg signals a spinner animation frame update.
type spinnerTickMsg time.Time

// NewModel creates the dashboard. updates must come from store.Subscribe
// and logs from a LogFeed the orchestrator and remediator log into.
func NewModel(ctx context.Context, reg *registry.Registry, orch *Orchestrator, remediator *probe.Remediator,
	updates <-chan status.Update, logs <-chan logger.LogMessage) Model {
	return Model{
		ctx:        ctx,
		registry:   reg,
		store:      orch.Store(),
		orch:       orch,
		remediator: remediator,
		updates:    updates,
		logs:       logs,
		hosts:      reg.Hosts(),
		services:   reg.Services(),
		restarting: make(map[string]bool),
		logView:    viewport.New(80, logPaneHeight),
	}
}

// Init kicks off the initial refresh of every host and starts listening
// for store updates and log lines.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshAllCmd(),
		m.pollUpdatesCmd(),
		m.pollLogsCmd(),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = max(msg.Width-4, 10)
		m.logView.Height = logPaneHeight

	case storeUpdateMsg:
		m.lastUpdate = msg.Entry.UpdatedAt
		return m, m.pollUpdatesCmd()

	case logMsg:
		m.appendLog(logger.LogMessage(msg))
		return m, m.pollLogsCmd()

	case remediatedMsg:
		delete(m.restarting, cellKey(msg.host, msg.service))
		if msg.entry.State != status.Available {
			m.notice = fmt.Sprintf("%s on %s still %s after restart", msg.service, msg.host.Code, msg.entry.State)
		}

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10000
		return m, m.spinnerTickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// SelectedHost returns the host on the selected row.
func (m Model) SelectedHost() (registry.Host, bool) {
	if m.row >= 0 && m.row < len(m.hosts) {
		return m.hosts[m.row], true
	}
	return registry.Host{}, false
}

// SelectedService returns the service in the selected column.
func (m Model) SelectedService() (string, bool) {
	if m.col >= 0 && m.col < len(m.services) {
		return m.services[m.col], true
	}
	return "", false
}

// Counts tallies service cells by state across the grid.
func (m Model) Counts() map[status.State]int {
	counts := make(map[status.State]int)
	for _, h := range m.hosts {
		for _, svc := range m.services {
			counts[m.store.Get(h.Key(), svc).State]++
		}
	}
	return counts
}

func (m Model) pollUpdatesCmd() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	updates := m.updates
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return storeUpdateMsg(u)
	}
}

func (m Model) pollLogsCmd() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	logs := m.logs
	return func() tea.Msg {
		l, ok := <-logs
		if !ok {
			return nil
		}
		return logMsg(l)
	}
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (m Model) refreshAllCmd() tea.Cmd {
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		orch.RefreshAll(ctx)
		return nil
	}
}

func (m Model) refreshSelectedCmd() tea.Cmd {
	h, ok := m.SelectedHost()
	if !ok {
		return nil
	}
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		orch.RefreshHostAsync(ctx, h)
		return nil
	}
}

func (m *Model) restartSelectedCmd() tea.Cmd {
	h, ok := m.SelectedHost()
	if !ok {
		return nil
	}
	svc, ok := m.SelectedService()
	if !ok {
		return nil
	}
	key := cellKey(h, svc)
	if m.restarting[key] {
		return nil
	}
	m.restarting[key] = true

	remediator, ctx := m.remediator, m.ctx
	return func() tea.Msg {
		entry := remediator.Remediate(ctx, h, svc)
		return remediatedMsg{host: h, service: svc, entry: entry}
	}
}

func (m *Model) appendLog(msg logger.LogMessage) {
	line := msg.Message
	switch msg.Level {
	case "warn":
		line = LogWarnStyle.Render(line)
	case "error":
		line = LogErrorStyle.Render(line)
	}

	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}

	atBottom := m.logView.AtBottom()
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	if atBottom {
		m.logView.GotoBottom()
	}
}

func cellKey(h registry.Host, service string) string {
	return h.Key() + "\x00" + service
}
