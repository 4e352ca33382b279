package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrProbe,
		ErrLookup,
		ErrInput,
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
			message:    "Count must be a positive number",
			suggestion: "Pass -c with a value greater than zero",
		},
		{
			name:       "probe error",
			code:       ErrProbe,
			message:    "Cannot open ICMP socket",
			suggestion: "Run as root or grant CAP_NET_RAW",
		},
		{
			name:       "lookup error",
			code:       ErrLookup,
			message:    "whois lookup timed out",
			suggestion: "Check outbound connectivity on port 43",
		},
		{
			name:       "input error",
			code:       ErrInput,
			message:    "Input file not found",
			suggestion: "Check the -f path",
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

func TestErrorFormat(t *testing.T) {
	err := New(ErrConfig, "No hosts specified", "Provide hosts as arguments or use -f")
	msg := err.Error()

	assert.True(t, strings.HasPrefix(msg, "✗ No hosts specified"))
	assert.Contains(t, msg, "Provide hosts as arguments or use -f")
}

func TestErrorFormatWithCause(t *testing.T) {
	cause := errors.New("open hosts.txt: no such file or directory")
	err := WrapWithCode(cause, ErrInput, "Cannot read input file", "Check the path")
	msg := err.Error()

	assert.Contains(t, msg, "✗ Cannot read input file")
	assert.Contains(t, msg, "no such file or directory")
	assert.Contains(t, msg, "Check the path")
}

func TestIsCode(t *testing.T) {
	err := New(ErrLookup, "lookup failed", "")
	wrapped := WrapWithCode(err, ErrConfig, "outer", "")

	assert.True(t, IsCode(err, ErrLookup))
	assert.False(t, IsCode(err, ErrConfig))
	assert.True(t, IsCode(wrapped, ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(errors.New("plain"), ErrConfig))
}
