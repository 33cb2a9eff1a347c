// Package testing provides an in-memory SSHClient for unit tests.
package testing

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/rileyhilliard/svcmon/pkg/sshutil"
)

// CommandResponse defines a canned response for a specific command pattern.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockClient simulates an SSH connection. Commands are answered from
// registered responses; anything unmatched exits 127 like a missing binary.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	commands map[string]CommandResponse // pattern -> response
	patterns []string                   // registration order
	log      []string
}

var _ sshutil.SSHClient = (*MockClient)(nil)

// NewMockClient creates a new mock SSH client with no canned responses.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		commands: make(map[string]CommandResponse),
	}
}

// Exec answers cmd from the registered responses. Exact matches win over
// regex patterns; patterns are tried in registration order.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}
	m.log = append(m.log, cmd)

	if resp, ok := m.commands[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}
	for _, pattern := range m.patterns {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			resp := m.commands[pattern]
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
		}
	}

	return nil, []byte("command not found"), 127, nil
}

// ExecContext runs Exec unless ctx is already done.
func (m *MockClient) ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error) {
	select {
	case <-ctx.Done():
		return nil, nil, -1, ctx.Err()
	default:
	}
	return m.Exec(cmd)
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}

// SetCommandResponse registers a canned response for a command pattern.
// The pattern can be an exact string or a regex pattern.
func (m *MockClient) SetCommandResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commands[pattern]; !ok {
		m.patterns = append(m.patterns, pattern)
	}
	m.commands[pattern] = resp
}

// Commands returns every command passed to Exec, in order.
func (m *MockClient) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.log))
	copy(out, m.log)
	return out
}

// IsClosed reports whether Close was called.
func (m *MockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
