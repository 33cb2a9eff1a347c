// Package host opens SSH connections to registry hosts and classifies why a
// connection attempt failed.
package host

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/registry"
	"github.com/rileyhilliard/svcmon/pkg/sshutil"
)

// ProbeError represents a failed connection attempt with a categorized reason.
type ProbeError struct {
	Host   string
	Reason ProbeFailReason
	Cause  error
}

// ProbeFailReason categorizes why a probe failed.
type ProbeFailReason int

const (
	ProbeFailUnknown ProbeFailReason = iota
	ProbeFailTimeout
	ProbeFailRefused
	ProbeFailUnreachable
	ProbeFailAuth
	ProbeFailHostKey
)

// String returns a human-readable description of the failure reason.
func (r ProbeFailReason) String() string {
	switch r {
	case ProbeFailTimeout:
		return "connection timed out"
	case ProbeFailRefused:
		return "connection refused"
	case ProbeFailUnreachable:
		return "host unreachable"
	case ProbeFailAuth:
		return "authentication failed"
	case ProbeFailHostKey:
		return "host key verification failed"
	default:
		return "unknown error"
	}
}

// IsConnection reports whether the reason is a transport-level failure:
// the endpoint refused, didn't answer, or couldn't be routed to.
func (r ProbeFailReason) IsConnection() bool {
	switch r {
	case ProbeFailTimeout, ProbeFailRefused, ProbeFailUnreachable:
		return true
	default:
		return false
	}
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("probe %s failed: %s (%s)", e.Host, e.Reason, errors.Short(e.Cause))
	}
	return fmt.Sprintf("probe %s failed: %s", e.Host, e.Reason)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// DialFunc opens an SSH connection. sshutil.DialContext satisfies it once
// adapted by DialSSH.
type DialFunc func(ctx context.Context, target string, opts sshutil.DialOptions) (sshutil.SSHClient, error)

// DialSSH dials a real SSH connection.
func DialSSH(ctx context.Context, target string, opts sshutil.DialOptions) (sshutil.SSHClient, error) {
	client, err := sshutil.DialContext(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Connector opens connections to registry hosts using their stored
// credentials.
type Connector struct {
	// Timeout bounds connect plus handshake.
	Timeout time.Duration

	// StrictHostKeyChecking verifies host keys against known_hosts.
	StrictHostKeyChecking bool

	// Dial is used to open connections. Nil means DialSSH.
	Dial DialFunc
}

// Connect opens a fresh connection to h. Failures are returned as *ProbeError.
func (c Connector) Connect(ctx context.Context, h registry.Host) (sshutil.SSHClient, error) {
	dial := c.Dial
	if dial == nil {
		dial = DialSSH
	}

	client, err := dial(ctx, h.Target(), sshutil.DialOptions{
		Timeout:               c.Timeout,
		Password:              h.Password,
		StrictHostKeyChecking: c.StrictHostKeyChecking,
	})
	if err != nil {
		return nil, categorizeProbeError(h.Hostname, err)
	}
	return client, nil
}

// Probe connects to h, closes the connection, and returns the time it took.
func (c Connector) Probe(ctx context.Context, h registry.Host) (time.Duration, error) {
	start := time.Now()

	client, err := c.Connect(ctx, h)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	return time.Since(start), nil
}

// ProbeResult contains the result of probing a single host.
type ProbeResult struct {
	Host    registry.Host
	Latency time.Duration
	Error   error
	Success bool
}

// ProbeAll probes hosts sequentially and returns one result per host, in order.
func (c Connector) ProbeAll(ctx context.Context, hosts []registry.Host) []ProbeResult {
	results := make([]ProbeResult, len(hosts))

	for i, h := range hosts {
		latency, err := c.Probe(ctx, h)
		results[i] = ProbeResult{
			Host:    h,
			Latency: latency,
			Error:   err,
			Success: err == nil,
		}
	}

	return results
}

// categorizeProbeError converts a generic error into a ProbeError with
// a categorized failure reason.
func categorizeProbeError(hostname string, err error) *ProbeError {
	if err == nil {
		return nil
	}

	probeErr := &ProbeError{
		Host:   hostname,
		Reason: ProbeFailUnknown,
		Cause:  err,
	}

	// Match on message and cause only; suggestions would add false hits.
	errStr := strings.ToLower(errors.Short(err))

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		probeErr.Reason = ProbeFailTimeout
		return probeErr
	}

	if strings.Contains(errStr, "connection refused") {
		probeErr.Reason = ProbeFailRefused
		return probeErr
	}

	if strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "host is down") ||
		strings.Contains(errStr, "no such host") {
		probeErr.Reason = ProbeFailUnreachable
		return probeErr
	}

	if strings.Contains(errStr, "unable to authenticate") ||
		strings.Contains(errStr, "no supported methods") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "authentication failed") ||
		strings.Contains(errStr, "no ssh auth methods") {
		probeErr.Reason = ProbeFailAuth
		return probeErr
	}

	if strings.Contains(errStr, "host key") {
		probeErr.Reason = ProbeFailHostKey
		return probeErr
	}

	return probeErr
}
