package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file looked for in the current directory.
	ConfigFileName = "svcmon.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/svcmon"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'svcmon config init' to create one, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. svcmon.yaml in the current directory
// 3. ~/.config/svcmon/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalPath returns ~/.config/svcmon/config.yaml, or "" when the home
// directory is unknown.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// LoadOrDefault finds and loads the config, falling back to defaults when
// no file exists. The returned path is empty in that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg := DefaultConfig()
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// RegistryPaths resolves the registry files. Relative paths are taken
// against the config file's directory, or the current directory when
// running without a config file.
func RegistryPaths(cfg *Config, configPath string) registry.Paths {
	base := configDir(configPath)
	return registry.Paths{
		Hosts:    resolvePath(base, cfg.HostsFile, DefaultHostsFile),
		Services: resolvePath(base, cfg.ServicesFile, DefaultServicesFile),
	}
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.HostsFile = Expand(cfg.HostsFile)
	cfg.ServicesFile = Expand(cfg.ServicesFile)

	return cfg, nil
}

// setDefaults registers defaults so keys missing from the file keep them.
// Viper parses duration strings for time.Duration fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("hosts_file", DefaultHostsFile)
	v.SetDefault("services_file", DefaultServicesFile)
	v.SetDefault("connect_timeout", DefaultConnectTimeout.String())
	v.SetDefault("command_timeout", "0s")
	v.SetDefault("max_concurrency", 0)
	v.SetDefault("strict_host_key_checking", false)
	v.SetDefault("database_service", DefaultDatabaseService)
	v.SetDefault("remediation.settle_delay", "0s")
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.level", DefaultLogLevel)
}

// configDir returns the directory containing the config file.
func configDir(configPath string) string {
	if configPath == "" {
		cwd, _ := os.Getwd()
		return cwd
	}
	return filepath.Dir(configPath)
}

func resolvePath(base, path, def string) string {
	if path == "" {
		path = def
	}
	path = ExpandTilde(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
