package logger

import (
	"bytes"
	"log"
	"os"
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
			name:      "logs when PARAPING_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "logs when PARAPING_DEBUG is any value",
			envValue:  "true",
			expectLog: true,
		},
		{
			name:      "does not log when PARAPING_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.SetOutput(&buf)
			defer log.SetOutput(os.Stderr)

			if tt.envValue != "" {
				t.Setenv("PARAPING_DEBUG", tt.envValue)
			} else {
				os.Unsetenv("PARAPING_DEBUG")
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

func TestEnvLogger_InfoWarnError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := NewEnvLogger("[probe]")
	l.Info("probing %d hosts", 3)
	l.Warn("slow reply from %s", "10.0.0.1")
	l.Error("socket error: %s", "closed")

	out := buf.String()
	assert.Contains(t, out, "[probe] probing 3 hosts")
	assert.Contains(t, out, "[probe] WARN: slow reply from 10.0.0.1")
	assert.Contains(t, out, "[probe] ERROR: socket error: closed")
}

func TestNoopLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := Noop()
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error("ignored")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("d %d", 1)
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, "d 1", l.Messages[0].Message)
	assert.True(t, l.HasLevel("debug"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("fatal"))

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buffered := NewBufferLogger()
	SetDefault(buffered)

	Default().Info("hello")
	assert.True(t, buffered.HasLevel("info"))
}
