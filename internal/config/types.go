package config

import "time"

// Config represents the svcmon config file.
type Config struct {
	// HostsFile and ServicesFile locate the registry. Relative paths are
	// resolved against the config file's directory.
	HostsFile    string `yaml:"hosts_file" mapstructure:"hosts_file"`
	ServicesFile string `yaml:"services_file" mapstructure:"services_file"`

	// ConnectTimeout bounds TCP dial plus SSH handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// CommandTimeout bounds a single remote command. Zero means no limit.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`

	// MaxConcurrency caps hosts refreshed at once. Zero means unbounded.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// StrictHostKeyChecking verifies host keys against known_hosts.
	// Off by default: unknown keys are accepted.
	StrictHostKeyChecking bool `yaml:"strict_host_key_checking" mapstructure:"strict_host_key_checking"`

	// DatabaseService is the service name checked with the database probe.
	DatabaseService string `yaml:"database_service" mapstructure:"database_service"`

	Remediation RemediationConfig `yaml:"remediation" mapstructure:"remediation"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// RemediationConfig tunes service restarts.
type RemediationConfig struct {
	// SettleDelay is how long to wait after a restart before re-checking.
	SettleDelay time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`
}

// LogConfig controls log output.
type LogConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format" mapstructure:"format"`
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
}

// Default values.
const (
	DefaultHostsFile       = "hosts.json"
	DefaultServicesFile    = "services.json"
	DefaultConnectTimeout  = 10 * time.Second
	DefaultDatabaseService = "mysql"
	DefaultLogFormat       = "text"
	DefaultLogLevel        = "info"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		HostsFile:       DefaultHostsFile,
		ServicesFile:    DefaultServicesFile,
		ConnectTimeout:  DefaultConnectTimeout,
		DatabaseService: DefaultDatabaseService,
		Log: LogConfig{
			Format: DefaultLogFormat,
			Level:  DefaultLogLevel,
		},
	}
}
