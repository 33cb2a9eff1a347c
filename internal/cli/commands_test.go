package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/svcmon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfigInit(t *testing.T, path string, force bool) (string, error) {
	t.Helper()
	origPath, origForce := configInitPath, configInitForce
	t.Cleanup(func() { configInitPath, configInitForce = origPath, origForce })
	configInitPath, configInitForce = path, force

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	t.Cleanup(func() { configInitCmd.SetOut(nil) })
	err := configInitCmd.RunE(configInitCmd, nil)
	return out.String(), err
}

func TestConfigInit_WritesLoadableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "svcmon.yaml")

	out, err := runConfigInit(t, path, false)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().DatabaseService, cfg.DatabaseService)
}

func TestConfigInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_concurrency: 3\n"), 0o644))

	_, err := runConfigInit(t, path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runConfigInit(t, path, true)
	require.NoError(t, err)
}

func TestConfigPath_ShowsRegistryFiles(t *testing.T) {
	env := newTestEnv(t, nil)

	var out bytes.Buffer
	configPathCmd.SetOut(&out)
	t.Cleanup(func() { configPathCmd.SetOut(nil) })

	require.NoError(t, configPathCmd.RunE(configPathCmd, nil))
	assert.Contains(t, out.String(), filepath.Join(env.dir, "svcmon.yaml"))
	assert.Contains(t, out.String(), env.paths.Hosts)
	assert.Contains(t, out.String(), env.paths.Services)
}

func TestCompletionCommandWritesScript(t *testing.T) {
	var out bytes.Buffer
	completionCmd.SetOut(&out)
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	require.NoError(t, completionCmd.RunE(completionCmd, []string{"zsh"}))
	assert.Contains(t, out.String(), "#compdef svcmon")
}
