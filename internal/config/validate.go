package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/svcmon/internal/errors"
)

// LogFormats are the accepted values for log.format.
var LogFormats = []string{"text", "json"}

// LogLevels are the accepted values for log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if cfg.ConnectTimeout < 0 {
		return negativeErr("connect_timeout", cfg.ConnectTimeout.String())
	}
	if cfg.CommandTimeout < 0 {
		return negativeErr("command_timeout", cfg.CommandTimeout.String())
	}
	if cfg.MaxConcurrency < 0 {
		return negativeErr("max_concurrency", fmt.Sprint(cfg.MaxConcurrency))
	}
	if cfg.Remediation.SettleDelay < 0 {
		return negativeErr("remediation.settle_delay", cfg.Remediation.SettleDelay.String())
	}

	if strings.TrimSpace(cfg.DatabaseService) == "" {
		return errors.New(errors.ErrConfig,
			"database_service can't be empty",
			fmt.Sprintf("Set it to the service checked with 'service mysqld status', usually '%s'.", DefaultDatabaseService))
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your config.")
	}

	return nil
}

func validateLog(l LogConfig) error {
	if l.Format != "" && !contains(LogFormats, l.Format) {
		return fmt.Errorf("log.format '%s' isn't valid (use %s)", l.Format, strings.Join(LogFormats, " or "))
	}
	if l.Level != "" && !contains(LogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level '%s' isn't valid (use one of %s)", l.Level, strings.Join(LogLevels, ", "))
	}
	return nil
}

func negativeErr(key, value string) error {
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("%s can't be negative (got %s)", key, value),
		"Use 0 to turn the limit off.")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
