// Package remote runs shell commands on registry hosts. Every call opens a
// fresh SSH connection and closes it before returning.
package remote

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/host"
	"github.com/rileyhilliard/svcmon/internal/registry"
)

// ConnectionFailedText is the fixed diagnostic reported for transport-level
// failures.
const ConnectionFailedText = "SSH connection failed"

// Failure classifies how a remote call went wrong.
type Failure int

const (
	// NoFailure means the command ran; its exit status may still be non-zero.
	NoFailure Failure = iota
	// ConnectionFailure means the host refused, didn't answer, or was unroutable.
	ConnectionFailure
	// ExecutionFailure means the connection was attempted or made but the
	// command couldn't run or produced unusable output.
	ExecutionFailure
)

func (f Failure) String() string {
	switch f {
	case ConnectionFailure:
		return "connection"
	case ExecutionFailure:
		return "execution"
	default:
		return "none"
	}
}

// Output is the trimmed result of a remote command.
type Output struct {
	Stdout  string
	Stderr  string
	Failure Failure
}

// Failed reports whether the command didn't run.
func (o Output) Failed() bool {
	return o.Failure != NoFailure
}

// Executor runs commands on hosts.
type Executor interface {
	// Run executes cmd on h. Failures are reported in Output, never as errors.
	Run(ctx context.Context, h registry.Host, cmd string) Output

	// Reachable reports whether a connection to h can be opened. The string
	// is a diagnostic when it can't.
	Reachable(ctx context.Context, h registry.Host) (bool, string)
}

// SSHExecutor is the Executor backed by real SSH connections.
type SSHExecutor struct {
	Connector host.Connector

	// CommandTimeout bounds each Run and Reachable, including connect.
	// Zero means none.
	CommandTimeout time.Duration
}

var _ Executor = (*SSHExecutor)(nil)

// NewSSHExecutor creates an executor dialing with connector.
func NewSSHExecutor(connector host.Connector, commandTimeout time.Duration) *SSHExecutor {
	return &SSHExecutor{Connector: connector, CommandTimeout: commandTimeout}
}

// Run executes cmd on a fresh connection to h.
func (e *SSHExecutor) Run(ctx context.Context, h registry.Host, cmd string) Output {
	if e.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.CommandTimeout)
		defer cancel()
	}

	client, err := e.Connector.Connect(ctx, h)
	if err != nil {
		return failureOutput(err)
	}
	defer client.Close()

	stdout, stderr, _, err := client.ExecContext(ctx, cmd)
	if err != nil {
		return Output{Stderr: errors.Short(err), Failure: ExecutionFailure}
	}

	return Output{
		Stdout: strings.TrimSpace(string(stdout)),
		Stderr: strings.TrimSpace(string(stderr)),
	}
}

// Reachable opens and closes a connection to h.
func (e *SSHExecutor) Reachable(ctx context.Context, h registry.Host) (bool, string) {
	if e.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.CommandTimeout)
		defer cancel()
	}

	if _, err := e.Connector.Probe(ctx, h); err != nil {
		return false, failureOutput(err).Stderr
	}
	return true, ""
}

// failureOutput maps a connect error onto the failure taxonomy.
func failureOutput(err error) Output {
	var probeErr *host.ProbeError
	if stderrors.As(err, &probeErr) {
		if probeErr.Reason.IsConnection() {
			return Output{Stderr: ConnectionFailedText, Failure: ConnectionFailure}
		}
		err = probeErr.Cause
	}
	return Output{Stderr: errors.Short(err), Failure: ExecutionFailure}
}
