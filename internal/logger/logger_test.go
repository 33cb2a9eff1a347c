package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{
			name:      "logs when SVCMON_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "logs when SVCMON_DEBUG is any value",
			envValue:  "true",
			expectLog: true,
		},
		{
			name:      "does not log when SVCMON_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Capture log output
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			// Set environment
			if tt.envValue != "" {
				t.Setenv(DebugEnv, tt.envValue)
			} else {
				os.Unsetenv(DebugEnv)
			}

			l := NewEnvLogger("[test]")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] test message arg")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[monitor]")
	l.Info("Checked %s on %s: %s", "nginx", "web01", "active")

	assert.Contains(t, buf.String(), "[monitor] Checked nginx on web01: active")
}

func TestEnvLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[warn-test]")
	l.Warn("warning message")

	assert.Contains(t, buf.String(), "[warn-test] WARN: warning message")
}

func TestEnvLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[error-test]")
	l.Error("error message")

	assert.Contains(t, buf.String(), "[error-test] ERROR: error message")
}

func TestNoopLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String(), "noop logger should not produce any output")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)

	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "debug msg", l.Messages[0].Message)

	assert.Equal(t, "info", l.Messages[1].Level)
	assert.Equal(t, "info msg", l.Messages[1].Message)

	assert.Equal(t, "warn", l.Messages[2].Level)
	assert.Equal(t, "warn msg", l.Messages[2].Message)

	assert.Equal(t, "error", l.Messages[3].Level)
	assert.Equal(t, "error msg", l.Messages[3].Message)
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages, 2)

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestLoggerInterface(t *testing.T) {
	// Verify all implementations satisfy the interface
	_ = NewEnvLogger("")
	_ = Noop()
	_ = NewBufferLogger()
	_ = NewSinkLogger(func(LogMessage) {})
	_ = NewJSONLogger(&bytes.Buffer{}, "", "info")
}

func TestEnvLogger_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[fmt]")

	// Test various format specifiers
	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.True(t, strings.Contains(output, "int: 42"))
	assert.True(t, strings.Contains(output, "string: hello"))
	assert.True(t, strings.Contains(output, "float: 3.14"))
}

func TestJSONLogger(t *testing.T) {
	os.Unsetenv(DebugEnv)
	var buf bytes.Buffer

	l := NewJSONLogger(&buf, "monitor", "info")
	l.Debug("hidden")
	l.Warn("Host %s is unreachable: %s", "db01", "SSH connection failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug should be filtered at info level")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, "monitor", event["component"])
	assert.Equal(t, "Host db01 is unreachable: SSH connection failed", event["message"])
	assert.Contains(t, event, "time")
}

func TestJSONLogger_BadLevelFallsBackToInfo(t *testing.T) {
	os.Unsetenv(DebugEnv)
	var buf bytes.Buffer

	l := NewJSONLogger(&buf, "", "loud")
	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "component")
}

func TestSinkLogger(t *testing.T) {
	os.Unsetenv(DebugEnv)
	var got []LogMessage
	l := NewSinkLogger(func(m LogMessage) { got = append(got, m) })

	l.Debug("dropped")
	l.Info("Checked %s on %s: %s", "mysql", "db01", "Active: active (running)")
	l.Error("boom")

	require.Len(t, got, 2)
	assert.Equal(t, LogMessage{Level: "info", Message: "Checked mysql on db01: Active: active (running)"}, got[0])
	assert.Equal(t, "error", got[1].Level)
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Info("worker %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Snapshot(), 20)
}

func TestWithMinLevel(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"info", []string{"info", "warn", "error"}},
		{"warn", []string{"warn", "error"}},
		{"error", []string{"error"}},
		{"bogus", []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := NewBufferLogger()
			l := WithMinLevel(buf, tt.level)

			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			var got []string
			for _, m := range buf.Snapshot() {
				got = append(got, m.Level)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
