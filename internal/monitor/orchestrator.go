package monitor

import (
	"context"
	"sync"

	"github.com/rileyhilliard/svcmon/internal/logger"
	"github.com/rileyhilliard/svcmon/internal/probe"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
	"github.com/rileyhilliard/svcmon/internal/status"
)

// Orchestrator fans reachability and service probes out across hosts and
// writes every outcome into the status store.
type Orchestrator struct {
	registry *registry.Registry
	store    *status.Store
	exec     remote.Executor
	checker  *probe.Checker
	log      logger.Logger

	// sem caps concurrent host refreshes; nil means unbounded.
	sem chan struct{}
	wg  sync.WaitGroup
}

// OrchestratorOptions tunes an Orchestrator.
type OrchestratorOptions struct {
	// MaxConcurrency caps concurrent host refreshes. Zero means one
	// goroutine per host with no cap.
	MaxConcurrency int

	// Log receives one line per completed probe. Nil discards.
	Log logger.Logger
}

// NewOrchestrator wires an orchestrator over the registry and store.
func NewOrchestrator(reg *registry.Registry, store *status.Store, checker *probe.Checker, opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		registry: reg,
		store:    store,
		exec:     checker.Executor,
		checker:  checker,
		log:      opts.Log,
	}
	if o.log == nil {
		o.log = logger.Noop()
	}
	if opts.MaxConcurrency > 0 {
		o.sem = make(chan struct{}, opts.MaxConcurrency)
	}
	return o
}

// Store returns the store the orchestrator writes to.
func (o *Orchestrator) Store() *status.Store {
	return o.store
}

// RefreshHost checks reachability of h, then probes every registered service
// on it in registry order. It blocks until every write for this refresh has
// been issued. An unreachable host gets all its services marked NotWorking
// without any service command being sent.
func (o *Orchestrator) RefreshHost(ctx context.Context, h registry.Host) {
	services := o.registry.Services()
	key := h.Key()

	gen := o.store.Begin(key)
	o.store.MarkChecking(key, gen, services)

	if ok, diag := o.exec.Reachable(ctx, h); !ok {
		o.store.SetHostUnreachable(key, gen, services, diag)
		o.log.Warn("Host %s is unreachable: %s", h.Hostname, diag)
		return
	}
	o.store.SetHostReachable(key, gen)

	for _, svc := range services {
		res := o.checker.Check(ctx, h, svc)
		o.store.Set(key, svc, res.Entry(gen))
		probe.LogChecked(o.log, h, svc, res)
	}
}

// RefreshHostAsync runs RefreshHost in the background.
func (o *Orchestrator) RefreshHostAsync(ctx context.Context, h registry.Host) {
	o.spawn(ctx, h)
}

// RefreshAll starts one background refresh per registered host and returns
// without waiting. Progress is observed through the store.
func (o *Orchestrator) RefreshAll(ctx context.Context) {
	for _, h := range o.registry.Hosts() {
		o.spawn(ctx, h)
	}
}

// Wait blocks until every background refresh started so far has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) spawn(ctx context.Context, h registry.Host) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		if o.sem != nil {
			select {
			case o.sem <- struct{}{}:
				defer func() { <-o.sem }()
			case <-ctx.Done():
				// Still settle the host so no entry is left Checking.
				gen := o.store.Begin(h.Key())
				o.store.SetHostUnreachable(h.Key(), gen, o.registry.Services(), ctx.Err().Error())
				return
			}
		}

		o.RefreshHost(ctx, h)
	}()
}
