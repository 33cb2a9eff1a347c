// Package testing provides test doubles for the remote package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
)

// Call records one Run invocation.
type Call struct {
	Hostname string
	Cmd      string
}

// FakeExecutor answers commands from canned outputs without any network.
// Outputs can be registered for every host or for one hostname; per-host
// outputs win. Registering several outputs for the same command plays them
// back in order and repeats the last one.
type FakeExecutor struct {
	mu          sync.Mutex
	outputs     map[string][]remote.Output
	unreachable map[string]string

	delay       time.Duration
	inFlight    int
	maxInFlight int

	calls      []Call
	reachCalls []string
}

var _ remote.Executor = (*FakeExecutor)(nil)

// NewFakeExecutor creates a fake where every host is reachable and every
// command prints nothing.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		outputs:     make(map[string][]remote.Output),
		unreachable: make(map[string]string),
	}
}

// SetOutput queues outputs for cmd on every host.
func (f *FakeExecutor) SetOutput(cmd string, outs ...remote.Output) *FakeExecutor {
	return f.SetHostOutput("", cmd, outs...)
}

// SetHostOutput queues outputs for cmd on hostname.
func (f *FakeExecutor) SetHostOutput(hostname, cmd string, outs ...remote.Output) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[key(hostname, cmd)] = append([]remote.Output(nil), outs...)
	return f
}

// SetUnreachable makes hostname fail with a connection failure.
func (f *FakeExecutor) SetUnreachable(hostname string) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreachable[hostname] = remote.ConnectionFailedText
	return f
}

// SetReachable undoes SetUnreachable.
func (f *FakeExecutor) SetReachable(hostname string) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.unreachable, hostname)
	return f
}

// SetDelay makes every Run and Reachable take d (or until ctx ends).
func (f *FakeExecutor) SetDelay(d time.Duration) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
	return f
}

// MaxInFlight returns the highest number of calls that were running at once.
func (f *FakeExecutor) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// Run implements remote.Executor.
func (f *FakeExecutor) Run(ctx context.Context, h registry.Host, cmd string) remote.Output {
	if !f.wait(ctx) {
		return remote.Output{Stderr: ctx.Err().Error(), Failure: remote.ExecutionFailure}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Hostname: h.Hostname, Cmd: cmd})

	if diag, down := f.unreachable[h.Hostname]; down {
		return remote.Output{Stderr: diag, Failure: remote.ConnectionFailure}
	}

	for _, k := range []string{key(h.Hostname, cmd), key("", cmd)} {
		queue, ok := f.outputs[k]
		if !ok || len(queue) == 0 {
			continue
		}
		out := queue[0]
		if len(queue) > 1 {
			f.outputs[k] = queue[1:]
		}
		return out
	}

	return remote.Output{}
}

// Reachable implements remote.Executor.
func (f *FakeExecutor) Reachable(ctx context.Context, h registry.Host) (bool, string) {
	if !f.wait(ctx) {
		return false, ctx.Err().Error()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.reachCalls = append(f.reachCalls, h.Hostname)
	if diag, down := f.unreachable[h.Hostname]; down {
		return false, diag
	}
	return true, ""
}

// Calls returns every Run invocation in order.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CommandsFor returns the commands Run issued against hostname.
func (f *FakeExecutor) CommandsFor(hostname string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cmds []string
	for _, c := range f.calls {
		if c.Hostname == hostname {
			cmds = append(cmds, c.Cmd)
		}
	}
	return cmds
}

// ReachableCalls returns the hostnames passed to Reachable.
func (f *FakeExecutor) ReachableCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.reachCalls))
	copy(out, f.reachCalls)
	return out
}

func (f *FakeExecutor) wait(ctx context.Context) bool {
	f.mu.Lock()
	delay := f.delay
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func key(hostname, cmd string) string {
	return hostname + "\x00" + cmd
}
