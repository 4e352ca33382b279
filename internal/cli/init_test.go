package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/icecake0141/paraping/internal/errors"
)

func TestInitConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".paraping.yaml")

	require.NoError(t, initConfig(path, false))

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	var got fileSettings
	require.NoError(t, yaml.Unmarshal(body, &got))
	assert.Equal(t, "1s", got.Timeout)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, "500ms", got.SlowThreshold)
	assert.Equal(t, 10, got.MaxParallel)
	assert.False(t, got.ASN.Enabled)
	assert.Equal(t, 2, got.ASN.Workers)
	assert.Equal(t, "1m0s", got.ASN.FailureTTL)

	// The leading comment survives in front of the YAML body.
	assert.Contains(t, string(body), "# paraping configuration")
}

func TestInitConfigRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".paraping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 99\n"), 0o644))

	err := initConfig(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	// Existing content is untouched.
	body, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "count: 99\n", string(body))
}

func TestInitConfigForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".paraping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 99\n"), 0o644))

	require.NoError(t, initConfig(path, true))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "count: 4")
}
