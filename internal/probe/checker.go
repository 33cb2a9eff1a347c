package probe

import (
	"context"

	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/internal/remote"
	"github.com/rileyhilliard/svcmon/internal/status"
)

// Result is the outcome of one probe.
type Result struct {
	Healthy bool
	Output  string
	Error   string
	Failure remote.Failure
}

// State maps the result onto a store state.
func (r Result) State() status.State {
	if r.Healthy {
		return status.Available
	}
	return status.NotWorking
}

// Entry converts the result into a store entry tagged with gen.
func (r Result) Entry(gen uint64) status.Entry {
	return status.Entry{
		State:      r.State(),
		Output:     r.Output,
		Error:      r.Error,
		Generation: gen,
	}
}

// Summary is the text shown for the result: the error when there is one,
// the output otherwise.
func (r Result) Summary() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Output
}

// Checker runs status commands and classifies their output.
type Checker struct {
	Executor   remote.Executor
	Classifier Classifier
}

// NewChecker creates a checker using exec and the classifier.
func NewChecker(exec remote.Executor, classifier Classifier) *Checker {
	return &Checker{Executor: exec, Classifier: classifier}
}

// Check probes service on h.
func (c *Checker) Check(ctx context.Context, h registry.Host, service string) Result {
	kind := c.Classifier.KindFor(service)
	out := c.Executor.Run(ctx, h, kind.StatusCommand(service))

	res := Result{
		Healthy: !out.Failed() && kind.Healthy(out.Stdout),
		Output:  out.Stdout,
		Error:   out.Stderr,
		Failure: out.Failure,
	}

	// A running database can still write warnings to stderr.
	if res.Healthy && kind == Database {
		res.Error = ""
	}
	return res
}
