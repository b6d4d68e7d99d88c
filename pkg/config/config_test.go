package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

func TestLoadWithoutEnvFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "@esprim.tn", cfg.Auth.EmailDomain)
	assert.Equal(t, 120*time.Second, cfg.Drafts.AutosaveInterval)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, 10, cfg.Catalog.PopularLimit)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "API_PREFIX=/api/v2\nCATALOG_POPULAR_LIMIT=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	chdir(t, dir)
	// godotenv exports the file into the process environment; drop the
	// keys afterwards so later tests see a clean slate.
	t.Cleanup(func() {
		os.Unsetenv("API_PREFIX")
		os.Unsetenv("CATALOG_POPULAR_LIMIT")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, 5, cfg.Catalog.PopularLimit)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_EMAIL_DOMAIN", "@example.edu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "@example.edu", cfg.Auth.EmailDomain)
}
