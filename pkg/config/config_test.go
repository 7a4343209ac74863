package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/pkg/config"
)

func writeTemp(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "c", cfg.Profile)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, ".cellml-cache", cfg.CacheDir)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTemp(t, "profile: python\noutput_dir: ./build\nmetrics_addr: :9100\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Profile)
	assert.Equal(t, "./build", cfg.OutputDir)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, ".cellml-cache", cfg.CacheDir) // untouched default survives merge
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	path := writeTemp(t, "profile: fortran\noutput_dir: ./build\n")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	path := writeTemp(t, "profile: c\noutput_dir: \"\"\n")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
