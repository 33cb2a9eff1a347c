package probe

import (
	"context"
	"time"

	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/status"
)

// Remediator restarts a service and records a fresh observation of it.
type Remediator struct {
	Checker *Checker
	Store   *status.Store
	Log     logger.Logger

	// SettleDelay is waited between the restart and the recheck.
	SettleDelay time.Duration
}

// NewRemediator creates a remediator. A nil log discards output.
func NewRemediator(checker *Checker, store *status.Store, log logger.Logger, settle time.Duration) *Remediator {
	if log == nil {
		log = logger.Noop()
	}
	return &Remediator{Checker: checker, Store: store, Log: log, SettleDelay: settle}
}

// Remediate issues the restart command for service on h, ignoring its
// result, then probes the service again and stores the outcome. The
// returned entry is the fresh observation; it can still be NotWorking.
//
// Writes use the host's current generation, so a refresh started while the
// remediation runs supersedes it.
func (r *Remediator) Remediate(ctx context.Context, h registry.Host, service string) status.Entry {
	key := h.Key()
	gen := r.Store.Generation(key)
	kind := r.Checker.Classifier.KindFor(service)

	r.Store.Set(key, service, status.Entry{State: status.Checking, Generation: gen})

	out := r.Checker.Executor.Run(ctx, h, kind.RestartCommand(service))
	if out.Failed() {
		r.Log.Warn("Restart of %s on %s failed: %s", service, h.Hostname, out.Stderr)
	} else {
		r.Log.Debug("Restarted %s on %s", service, h.Hostname)
	}

	if r.SettleDelay > 0 {
		timer := time.NewTimer(r.SettleDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	res := r.Checker.Check(ctx, h, service)
	entry := res.Entry(gen)
	r.Store.Set(key, service, entry)
	LogChecked(r.Log, h, service, res)

	return entry
}

// LogChecked writes the per-probe log line.
func LogChecked(log logger.Logger, h registry.Host, service string, res Result) {
	log.Info("Checked %s on %s: %s", service, h.Hostname, res.Summary())
}
