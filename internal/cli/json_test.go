package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"failing": 0}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestWriteJSONResult_FailureKeepsData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONResult(&buf, false, CheckReport{Failing: 2}))

	var env struct {
		Success bool        `json:"success"`
		Data    CheckReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, 2, env.Data.Failing)
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrConfig, "Host 'x' not found", "Registered hosts: web")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigNotFound, env.Error.Code)
	assert.Equal(t, "Registered hosts: web", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: stderrors.New("boom"), wantCode: ErrCodeUnknown},
		{name: "config invalid", err: errors.New(errors.ErrConfig, "bad value", ""), wantCode: ErrCodeConfigInvalid},
		{name: "ssh", err: errors.New(errors.ErrSSH, "dial failed", ""), wantCode: ErrCodeSSHConnectionFail},
		{name: "exec", err: errors.New(errors.ErrExec, "command failed", ""), wantCode: ErrCodeCommandFailed},
		{name: "persist", err: errors.New(errors.ErrPersist, "write failed", ""), wantCode: ErrCodePersistFailed},
		{name: "probe timeout", err: &host.ProbeError{Host: "web01", Reason: host.ProbeFailTimeout}, wantCode: ErrCodeSSHTimeout},
		{name: "probe auth", err: &host.ProbeError{Host: "web01", Reason: host.ProbeFailAuth}, wantCode: ErrCodeSSHAuthFailed},
		{name: "probe host key", err: &host.ProbeError{Host: "web01", Reason: host.ProbeFailHostKey}, wantCode: ErrCodeSSHHostKey},
		{name: "probe refused", err: &host.ProbeError{Host: "web01", Reason: host.ProbeFailRefused}, wantCode: ErrCodeSSHConnectionFail},
		{
			name:     "wrapped probe error",
			err:      errors.WrapWithCode(&host.ProbeError{Host: "web01", Reason: host.ProbeFailAuth}, errors.ErrSSH, "probe failed", ""),
			wantCode: ErrCodeSSHAuthFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			if tt.wantCode == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestProbeErrorToJSON_Details(t *testing.T) {
	got := ErrorToJSON(&host.ProbeError{Host: "web01", Reason: host.ProbeFailTimeout})
	require.NotNil(t, got)

	details, ok := got.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "web01", details["host"])
	assert.Equal(t, host.ProbeFailTimeout.String(), details["reason"])
	assert.NotEmpty(t, got.Suggestion)
}
