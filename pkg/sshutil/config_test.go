package sshutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSSHConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseSSHConfigFile(t *testing.T) {
	path := writeSSHConfig(t, `
Host db01
    HostName 192.168.1.100
    User admin
    Port 2222

Host web01
    HostName web.example.com
    User ubuntu

Host *
    ServerAliveInterval 60

Host work-*
    User workuser
`)

	hosts, err := ParseSSHConfigFile(path)
	require.NoError(t, err)

	require.Len(t, hosts, 2)
	assert.Equal(t, "db01", hosts[0].Alias)
	assert.Equal(t, "web01", hosts[1].Alias)

	assert.Equal(t, "192.168.1.100", hosts[0].Hostname)
	assert.Equal(t, "admin", hosts[0].User)
	assert.Equal(t, "2222", hosts[0].Port)

	assert.Equal(t, "web.example.com", hosts[1].Hostname)
	assert.Equal(t, "", hosts[1].Port)
}

func TestParseSSHConfigFile_NotExists(t *testing.T) {
	hosts, err := ParseSSHConfigFile("/nonexistent/config")
	assert.NoError(t, err)
	assert.Nil(t, hosts)
}

func TestParseSSHConfigFile_StopsAtMatch(t *testing.T) {
	path := writeSSHConfig(t, `
Host before-match
    HostName before.example.com

Match host *.example.com
    User matchuser

Host after-match
    HostName after.example.com
`)

	hosts, err := ParseSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "before-match", hosts[0].Alias)
}

func TestKnownHost_Description(t *testing.T) {
	tests := []struct {
		name     string
		entry    KnownHost
		expected string
	}{
		{
			name:     "full entry",
			entry:    KnownHost{Alias: "db01", Hostname: "192.168.1.100", User: "admin", Port: "2222"},
			expected: "192.168.1.100, user: admin, port: 2222",
		},
		{
			name:     "default port",
			entry:    KnownHost{Alias: "db01", Hostname: "192.168.1.100", User: "admin", Port: "22"},
			expected: "192.168.1.100, user: admin",
		},
		{
			name:     "hostname same as alias",
			entry:    KnownHost{Alias: "db01", Hostname: "db01", User: "admin"},
			expected: "user: admin",
		},
		{
			name:     "minimal entry",
			entry:    KnownHost{Alias: "db01"},
			expected: "db01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.Description())
		})
	}
}

func TestKnownHost_Address(t *testing.T) {
	assert.Equal(t, "10.0.0.5", KnownHost{Alias: "web", Hostname: "10.0.0.5"}.Address())
	assert.Equal(t, "web", KnownHost{Alias: "web"}.Address())
}
