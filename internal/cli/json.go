package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/svcmon/internal/errors"
	"github.com/rileyhilliard/svcmon/internal/host"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound    = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeSSHTimeout        = "SSH_TIMEOUT"
	ErrCodeSSHAuthFailed     = "SSH_AUTH_FAILED"
	ErrCodeSSHHostKey        = "SSH_HOST_KEY"
	ErrCodeSSHConnectionFail = "SSH_CONNECTION_FAILED"
	ErrCodeCommandFailed     = "COMMAND_FAILED"
	ErrCodePersistFailed     = "PERSIST_FAILED"
	ErrCodeUnknown           = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONResult writes data with an explicit success flag. check uses it
// to report failing services while still returning the full matrix.
func WriteJSONResult(w io.Writer, success bool, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: success,
		Data:    data,
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var probeErr *host.ProbeError
	if stderrors.As(err, &probeErr) {
		return probeErrorToJSON(probeErr)
	}

	var svcErr *errors.Error
	if stderrors.As(err, &svcErr) {
		return &JSONError{
			Code:       mapErrorCode(svcErr.Code, svcErr.Message),
			Message:    svcErr.Message,
			Suggestion: svcErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrSSH:
		return ErrCodeSSHConnectionFail
	case errors.ErrExec:
		return ErrCodeCommandFailed
	case errors.ErrPersist:
		return ErrCodePersistFailed
	}

	return ErrCodeUnknown
}

// probeErrorToJSON converts a probe error to JSON with specific SSH error codes.
func probeErrorToJSON(probeErr *host.ProbeError) *JSONError {
	var code string
	var suggestion string

	switch probeErr.Reason {
	case host.ProbeFailTimeout:
		code = ErrCodeSSHTimeout
		suggestion = "Check if host is reachable: ping the hostname"
	case host.ProbeFailAuth:
		code = ErrCodeSSHAuthFailed
		suggestion = "Check the stored password, or load a key into ssh-agent"
	case host.ProbeFailHostKey:
		code = ErrCodeSSHHostKey
		suggestion = "Accept host key: ssh -o StrictHostKeyChecking=accept-new <hostname> exit"
	case host.ProbeFailRefused, host.ProbeFailUnreachable:
		code = ErrCodeSSHConnectionFail
		suggestion = "Check if SSH server is running and host is reachable"
	default:
		code = ErrCodeSSHConnectionFail
	}

	return &JSONError{
		Code:       code,
		Message:    probeErr.Error(),
		Suggestion: suggestion,
		Details: map[string]interface{}{
			"reason": probeErr.Reason.String(),
			"host":   probeErr.Host,
		},
	}
}
