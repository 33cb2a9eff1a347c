package cli

import (
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/svcmon/internal/config"
	"github.com/rileyhilliard/svcmon/internal/host"
	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/monitor"
	"github.com/rileyhilliard/svcmon/internal/probe"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
	"github.com/rileyhilliard/svcmon/internal/status"
)

// newExecutor builds the remote executor. Tests swap it for a fake.
var newExecutor = func(connector host.Connector, commandTimeout time.Duration) remote.Executor {
	return remote.NewSSHExecutor(connector, commandTimeout)
}

// app bundles everything a command needs, built from the loaded config.
type app struct {
	cfg        *config.Config
	configPath string
	reg        *registry.Registry
	connector  host.Connector
	exec       remote.Executor
	checker    *probe.Checker
	store      *status.Store
}

// loadApp reads and validates the config, then loads the registry.
func loadApp() (*app, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	reg, err := registry.Load(config.RegistryPaths(cfg, path))
	if err != nil {
		return nil, err
	}

	connector := host.Connector{
		Timeout:               cfg.ConnectTimeout,
		StrictHostKeyChecking: cfg.StrictHostKeyChecking,
	}
	exec := newExecutor(connector, cfg.CommandTimeout)

	return &app{
		cfg:        cfg,
		configPath: path,
		reg:        reg,
		connector:  connector,
		exec:       exec,
		checker:    probe.NewChecker(exec, probe.Classifier{DatabaseService: cfg.DatabaseService}),
		store:      status.NewStore(),
	}, nil
}

// probeLogger returns the configured logger writing to w, or a no-op logger
// unless --verbose was given.
func (a *app) probeLogger(w io.Writer) logger.Logger {
	if !verbose {
		return logger.Noop()
	}
	return newLogger(a.cfg.Log, w)
}

// newLogger builds a logger for the log section of the config.
func newLogger(cfg config.LogConfig, w io.Writer) logger.Logger {
	if cfg.Format == "json" {
		return logger.NewJSONLogger(w, "svcmon", cfg.Level)
	}
	if w == os.Stderr {
		return logger.WithMinLevel(logger.NewEnvLogger("[svcmon]"), cfg.Level)
	}
	return logger.WithMinLevel(logger.NewSinkLogger(func(m logger.LogMessage) {
		_, _ = io.WriteString(w, m.Level+": "+m.Message+"\n")
	}), cfg.Level)
}

func (a *app) orchestrator(log logger.Logger) *monitor.Orchestrator {
	return monitor.NewOrchestrator(a.reg, a.store, a.checker, monitor.OrchestratorOptions{
		MaxConcurrency: a.cfg.MaxConcurrency,
		Log:            log,
	})
}

func (a *app) remediator(log logger.Logger) *probe.Remediator {
	return probe.NewRemediator(a.checker, a.store, log, a.cfg.Remediation.SettleDelay)
}
