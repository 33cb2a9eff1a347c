package sshutil

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Exec runs a command on the remote host and returns the output.
// Exit code is -1 if the command couldn't be executed at all.
func (c *Client) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	return c.ExecContext(context.Background(), cmd)
}

// ExecContext is Exec with cancellation. When ctx ends before the command
// does, the session is closed and the context error is returned.
func (c *Client) ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error) {
	session, err := c.NewSession()
	if err != nil {
		return nil, nil, -1, errors.WrapWithCode(err, errors.ErrExec,
			"Failed to create SSH session",
			"Connection may have been closed. Try reconnecting.")
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return nil, nil, -1, errors.WrapWithCode(ctx.Err(), errors.ErrExec,
			fmt.Sprintf("Command didn't finish in time: %s", cmd),
			"Raise command_timeout in the config, or check the remote host is responsive.")
	case err = <-done:
	}

	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
		} else {
			return nil, nil, -1, errors.WrapWithCode(err, errors.ErrExec,
				fmt.Sprintf("Failed to execute command: %s", cmd),
				"Check if the command exists on the remote host.")
		}
	}

	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}
