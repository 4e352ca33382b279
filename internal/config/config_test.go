package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icecake0141/paraping/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// run from an empty directory so no local config file is found
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1*time.Second, s.Timeout)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 500*time.Millisecond, s.SlowThreshold)
	assert.Equal(t, 10, s.MaxParallel)
	assert.False(t, s.ASN.Enabled)
	assert.Equal(t, 2, s.ASN.Workers)
	assert.Equal(t, 60*time.Second, s.ASN.FailureTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paraping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`timeout: 2s
count: 8
slow_threshold: 250ms
asn:
  enabled: true
  failure_ttl: 90s
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 250*time.Millisecond, s.SlowThreshold)
	// unset keys keep their defaults
	assert.Equal(t, 10, s.MaxParallel)
	assert.True(t, s.ASN.Enabled)
	assert.Equal(t, 90*time.Second, s.ASN.FailureTTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paraping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slow_threshold: 250ms\n"), 0o644))

	t.Setenv("PARAPING_SLOW_THRESHOLD", "750ms")
	t.Setenv("PARAPING_ASN_ENABLED", "true")

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, s.SlowThreshold)
	assert.True(t, s.ASN.Enabled)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		hosts    []string
		wantErr  string
	}{
		{
			name:     "valid",
			settings: Default(),
			hosts:    []string{"8.8.8.8"},
		},
		{
			name:     "zero count",
			settings: Settings{Count: 0},
			hosts:    []string{"8.8.8.8"},
			wantErr:  "positive",
		},
		{
			name:     "negative count",
			settings: Settings{Count: -3},
			hosts:    []string{"8.8.8.8"},
			wantErr:  "positive",
		},
		{
			name:     "no hosts",
			settings: Default(),
			hosts:    nil,
			wantErr:  "No hosts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.settings, tt.hosts)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
