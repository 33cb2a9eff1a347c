package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrExec,
		ErrPersist,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in config.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "Can't reach 'db01'",
			suggestion: "Make sure the host is reachable",
		},
		{
			name:       "persist error",
			code:       ErrPersist,
			message:    "Couldn't save hosts.json",
			suggestion: "Check that you have write permissions.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	err := WrapWithCode(errors.New("permission denied"), ErrPersist,
		"Couldn't save hosts.json", "Check that you have write permissions.")

	out := err.Error()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "✗ Couldn't save hosts.json", lines[0])
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "Check that you have write permissions.")
}

func TestError_FormatWithoutSuggestion(t *testing.T) {
	err := Wrap(errors.New("dial tcp: i/o timeout"), "Can't reach 'web01'")

	assert.Equal(t, ErrSSH, err.Code)
	assert.Equal(t, "✗ Can't reach 'web01'\n\n  dial tcp: i/o timeout\n", err.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapWithCode(cause, ErrExec, "Command failed", "")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsCode(t *testing.T) {
	err := New(ErrPersist, "write failed", "")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsCode(err, ErrPersist))
	assert.True(t, IsCode(wrapped, ErrPersist))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(nil, ErrPersist))
	assert.False(t, IsCode(errors.New("plain"), ErrPersist))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "", Short(nil))
	assert.Equal(t, "plain", Short(errors.New("plain")))
	assert.Equal(t, "Can't reach 'db01'", Short(New(ErrSSH, "Can't reach 'db01'", "ping it")))
	assert.Equal(t, "Command failed: exit 3",
		Short(WrapWithCode(errors.New("exit 3"), ErrExec, "Command failed", "")))
}
