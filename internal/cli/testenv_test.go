package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/svcmon/internal/host"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
	remotetesting "github.com/rileyhilliard/svcmon/internal/remote/testing"
	"github.com/stretchr/testify/require"
)

var (
	webHost = registry.Host{Code: "web", Hostname: "web01", Username: "ops", Password: "pw"}
	dbHost  = registry.Host{Code: "db", Hostname: "db01", Username: "root", Password: "pw"}
)

// testEnv is a config file plus registry in a temp dir, with the SSH
// executor swapped for a fake.
type testEnv struct {
	dir   string
	paths registry.Paths
	exec  *remotetesting.FakeExecutor
}

func newTestEnv(t *testing.T, hosts []registry.Host, services ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "svcmon.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`hosts_file: hosts.json
services_file: services.json
database_service: mysql
`), 0o644))

	env := &testEnv{
		dir: dir,
		paths: registry.Paths{
			Hosts:    filepath.Join(dir, "hosts.json"),
			Services: filepath.Join(dir, "services.json"),
		},
		exec: remotetesting.NewFakeExecutor(),
	}

	reg := registry.New(env.paths)
	for _, h := range hosts {
		reg.AddHost(h)
	}
	for _, s := range services {
		reg.AddService(s)
	}
	require.NoError(t, reg.Persist())

	origCfg, origExec, origInteractive, origVerbose := cfgFile, newExecutor, isInteractive, verbose
	t.Cleanup(func() {
		cfgFile, newExecutor, isInteractive, verbose = origCfg, origExec, origInteractive, origVerbose
	})
	cfgFile = cfgPath
	verbose = false
	isInteractive = func() bool { return false }
	newExecutor = func(host.Connector, time.Duration) remote.Executor {
		return env.exec
	}
	return env
}

// registry reloads what the commands persisted.
func (e *testEnv) registry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(e.paths)
	require.NoError(t, err)
	return reg
}

func active() remote.Output {
	return remote.Output{Stdout: "active"}
}

func inactive() remote.Output {
	return remote.Output{Stdout: "inactive"}
}

func remoteRunning() remote.Output {
	return remote.Output{Stdout: "mysqld.service\n   Active: active (running) since Mon"}
}
