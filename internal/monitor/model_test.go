package monitor

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/probe"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
	"github.com/rileyhilliard/svcmon/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, hosts []registry.Host, services ...string) (Model, *fixture) {
	t.Helper()
	f := newFixture(t, 0, hosts, services...)
	remediator := probe.NewRemediator(f.orch.checker, f.store, f.log, 0)
	m := NewModel(context.Background(), f.reg, f.orch, remediator, nil, nil)
	return m, f
}

func TestNewModel(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web, db}, "nginx", "mysql")

	assert.Equal(t, f.reg.Hosts(), m.hosts)
	assert.Equal(t, []string{"nginx", "mysql"}, m.services)
	assert.Equal(t, 0, m.row)
	assert.Equal(t, 0, m.col)
	assert.NotNil(t, m.restarting)
	assert.Same(t, f.store, m.store)
}

func TestSelection(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web, db}, "nginx", "mysql")
	m.row, m.col = 1, 1

	h, ok := m.SelectedHost()
	require.True(t, ok)
	assert.Equal(t, db, h)

	svc, ok := m.SelectedService()
	require.True(t, ok)
	assert.Equal(t, "mysql", svc)
}

func TestSelection_EmptyRegistry(t *testing.T) {
	m, _ := newTestModel(t, nil)

	_, ok := m.SelectedHost()
	assert.False(t, ok)
	_, ok = m.SelectedService()
	assert.False(t, ok)

	assert.Nil(t, m.refreshSelectedCmd())
	assert.Nil(t, m.restartSelectedCmd())
}

func TestCounts(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web, db}, "nginx")
	f.store.Set(web.Key(), "nginx", status.Entry{State: status.Available})
	f.store.Set(db.Key(), "nginx", status.Entry{State: status.NotWorking})

	counts := m.Counts()
	assert.Equal(t, 1, counts[status.Available])
	assert.Equal(t, 1, counts[status.NotWorking])
	assert.Equal(t, 0, counts[status.Unknown])
}

func TestRefreshAllCmd_SettlesEveryCell(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web, db}, "nginx")
	f.exec.SetOutput("systemctl is-active nginx", remote.Output{Stdout: "active"})
	f.exec.SetUnreachable("db01")

	cmd := m.refreshAllCmd()
	require.NotNil(t, cmd)
	cmd()
	f.orch.Wait()

	assert.Equal(t, status.Available, f.store.Get(web.Key(), "nginx").State)
	assert.Equal(t, status.Unreachable, f.store.Get(db.Key(), "nginx").State)
}

func TestRefreshSelectedCmd_OnlyTouchesSelectedHost(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web, db}, "nginx")
	f.exec.SetOutput("systemctl is-active nginx", remote.Output{Stdout: "active"})
	m.row = 1

	cmd := m.refreshSelectedCmd()
	require.NotNil(t, cmd)
	cmd()
	f.orch.Wait()

	assert.Equal(t, status.Unknown, f.store.Get(web.Key(), "nginx").State)
	assert.Equal(t, status.Available, f.store.Get(db.Key(), "nginx").State)
}

func TestRestartSelectedCmd(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web}, "nginx")
	f.exec.SetOutput("systemctl is-active nginx", remote.Output{Stdout: "active"})

	cmd := m.restartSelectedCmd()
	require.NotNil(t, cmd)

	// A second restart of the same cell waits for the first.
	assert.Nil(t, m.restartSelectedCmd())

	msg := cmd()
	done, ok := msg.(remediatedMsg)
	require.True(t, ok)
	assert.Equal(t, status.Available, done.entry.State)
	assert.Contains(t, f.exec.CommandsFor("web01"), "sudo systemctl restart nginx")

	updated, _ := m.Update(done)
	m = updated.(Model)
	assert.Empty(t, m.restarting)
	assert.NotNil(t, m.restartSelectedCmd())
}

func TestRemediated_FailedRestartSetsNotice(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web}, "nginx")
	f.exec.SetOutput("systemctl is-active nginx", remote.Output{Stdout: "inactive"})

	cmd := m.restartSelectedCmd()
	require.NotNil(t, cmd)
	done, ok := cmd().(remediatedMsg)
	require.True(t, ok)
	require.Equal(t, status.NotWorking, done.entry.State)

	updated, _ := m.Update(done)
	m = updated.(Model)
	assert.Equal(t, "nginx on web still not working after restart", m.notice)
	assert.Contains(t, m.View(), "nginx on web still not working after restart")

	handled, _ := m.HandleKeyMsg(keyMsg("esc"))
	assert.True(t, handled)
	assert.Empty(t, m.notice)
	assert.NotContains(t, m.View(), "still not working after restart")
}

func TestRemediated_SuccessfulRestartLeavesNoNotice(t *testing.T) {
	m, f := newTestModel(t, []registry.Host{web}, "nginx")
	f.exec.SetOutput("systemctl is-active nginx", remote.Output{Stdout: "active"})

	done := m.restartSelectedCmd()().(remediatedMsg)
	updated, _ := m.Update(done)
	m = updated.(Model)
	assert.Empty(t, m.notice)
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 116, m.logView.Width)
}

func TestUpdate_StoreUpdate(t *testing.T) {
	f := newFixture(t, 0, []registry.Host{web}, "nginx")
	updates, cancel := f.store.Subscribe(8)
	defer cancel()
	m := NewModel(context.Background(), f.reg, f.orch, nil, updates, nil)

	at := time.Now()
	updated, cmd := m.Update(storeUpdateMsg(status.Update{
		HostKey: web.Key(),
		Service: "nginx",
		Entry:   status.Entry{State: status.Available, UpdatedAt: at},
	}))
	m = updated.(Model)

	assert.Equal(t, at, m.lastUpdate)
	assert.NotNil(t, cmd, "should keep polling for updates")
}

func TestPollUpdatesCmd_DeliversStoreWrites(t *testing.T) {
	f := newFixture(t, 0, []registry.Host{web}, "nginx")
	updates, cancel := f.store.Subscribe(8)
	defer cancel()
	m := NewModel(context.Background(), f.reg, f.orch, nil, updates, nil)

	f.store.Set(web.Key(), "nginx", status.Entry{State: status.NotWorking})

	msg := m.pollUpdatesCmd()()
	u, ok := msg.(storeUpdateMsg)
	require.True(t, ok)
	assert.Equal(t, "nginx", u.Service)
	assert.Equal(t, status.NotWorking, u.Entry.State)
}

func TestPollCmds_NilWithoutChannels(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")
	assert.Nil(t, m.pollUpdatesCmd())
	assert.Nil(t, m.pollLogsCmd())
}

func TestUpdate_LogMsg(t *testing.T) {
	feed := NewLogFeed(4)
	f := newFixture(t, 0, []registry.Host{web}, "nginx")
	m := NewModel(context.Background(), f.reg, f.orch, nil, nil, feed.Lines())

	updated, cmd := m.Update(logMsg{Level: "info", Message: "Checked nginx on web01: active"})
	m = updated.(Model)

	require.Len(t, m.logLines, 1)
	assert.Contains(t, m.logLines[0], "Checked nginx on web01")
	assert.NotNil(t, cmd, "should keep polling for log lines")
}

func TestAppendLog_Bounded(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")
	for i := 0; i < maxLogLines+25; i++ {
		m.appendLog(logger.LogMessage{Level: "info", Message: "line"})
	}
	assert.Len(t, m.logLines, maxLogLines)
}

func TestUpdate_SpinnerTick(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")

	updated, cmd := m.Update(spinnerTickMsg(time.Now()))
	m = updated.(Model)

	assert.Equal(t, 1, m.spinnerFrame)
	assert.NotNil(t, cmd)
}

func TestView_QuittingIsEmpty(t *testing.T) {
	m, _ := newTestModel(t, []registry.Host{web}, "nginx")
	m.quitting = true
	assert.Empty(t, m.View())
}

func TestLogFeed_DropsWhenFull(t *testing.T) {
	feed := NewLogFeed(2)
	log := feed.Logger()

	log.Info("one")
	log.Warn("two")
	log.Error("three")

	lines := feed.Lines()
	assert.Equal(t, logger.LogMessage{Level: "info", Message: "one"}, <-lines)
	assert.Equal(t, logger.LogMessage{Level: "warn", Message: "two"}, <-lines)
	select {
	case extra := <-lines:
		t.Fatalf("expected dropped line, got %v", extra)
	default:
	}
}
