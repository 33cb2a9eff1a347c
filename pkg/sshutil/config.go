package sshutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// KnownHost is a concrete host alias found in ~/.ssh/config. It is offered
// as a suggestion when registering a host interactively.
type KnownHost struct {
	Alias    string
	Hostname string
	User     string
	Port     string
}

// Address returns the name to dial: HostName when set, else the alias.
func (h KnownHost) Address() string {
	if h.Hostname != "" {
		return h.Hostname
	}
	return h.Alias
}

// Description returns a short label for selection lists.
func (h KnownHost) Description() string {
	parts := []string{}

	if h.Hostname != "" && h.Hostname != h.Alias {
		parts = append(parts, h.Hostname)
	}
	if h.User != "" {
		parts = append(parts, "user: "+h.User)
	}
	if h.Port != "" && h.Port != "22" {
		parts = append(parts, "port: "+h.Port)
	}

	if len(parts) == 0 {
		return h.Alias
	}
	return strings.Join(parts, ", ")
}

// KnownHosts parses ~/.ssh/config.
func KnownHosts() ([]KnownHost, error) {
	return ParseSSHConfigFile(filepath.Join(homeDir(), ".ssh", "config"))
}

// ParseSSHConfigFile returns the concrete (non-wildcard) host aliases in
// configPath, sorted by alias. A missing file yields no hosts and no error.
func ParseSSHConfigFile(configPath string) ([]KnownHost, error) {
	content, _, err := preprocessSSHConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []KnownHost
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			entry := KnownHost{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})

	return hosts, nil
}
