package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FISCAL_CONFIG", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8084", c.Server.Port)
	assert.Equal(t, int64(32), c.Server.MaxUploadMB)
	assert.Equal(t, int64(32<<20), c.Server.MaxUploadBytes())
	assert.Equal(t, "production", c.Log.Mode)
	assert.Empty(t, c.Tax.SchemesFile)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiscal.yaml")
	content := "server:\n  port: \"9000\"\n  max_upload_mb: 8\ntax:\n  schemes_file: /etc/fiscal/esquemas.yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FISCAL_CONFIG", path)
	t.Setenv("FISCAL_LOG_MODE", "development")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Server.Port)
	assert.Equal(t, int64(8), c.Server.MaxUploadMB)
	assert.Equal(t, "development", c.Log.Mode)
	assert.Equal(t, "/etc/fiscal/esquemas.yaml", c.Tax.SchemesFile)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("FISCAL_CONFIG", filepath.Join(t.TempDir(), "ausente.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
