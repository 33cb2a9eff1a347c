package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"gopkg.in/yaml.v3"
)

// keyComments annotate the keys of a generated config file.
var keyComments = map[string]string{
	"hosts_file":               "Registry of hosts, relative to this file",
	"services_file":            "Registry of service names, relative to this file",
	"connect_timeout":          "TCP dial plus SSH handshake",
	"command_timeout":          "Per remote command, 0s for no limit",
	"max_concurrency":          "Hosts refreshed at once, 0 for no cap",
	"strict_host_key_checking": "Verify host keys against ~/.ssh/known_hosts",
	"database_service":         "Checked with 'service mysqld status'",
	"settle_delay":             "Wait after a restart before re-checking",
	"format":                   "text or json",
	"level":                    "debug, info, warn or error",
}

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	annotate(&doc)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}

// WriteDefault writes a default config file to path. An existing file is
// left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Pass --force to overwrite it.")
		}
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't build the default config", "")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create config directory "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file "+path,
			"Check file permissions")
	}
	return nil
}

// annotate walks mapping nodes and attaches keyComments as head comments.
func annotate(node *yaml.Node) {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if c, ok := keyComments[key.Value]; ok {
				key.HeadComment = c
			}
			annotate(node.Content[i+1])
		}
		return
	}
	for _, child := range node.Content {
		annotate(child)
	}
}
