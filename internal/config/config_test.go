package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/", cfg.LinkedIn.BaseURL)
	assert.Equal(t, 100, cfg.Limits.MaxProfilesPerSearch)
	assert.Equal(t, 50, cfg.Limits.MaxSendsPerDay)
	assert.Equal(t, "prospector.db", cfg.Database.Path)
	assert.NotEmpty(t, cfg.Templates.Outreach)
}

func TestLoadYAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
limits:
  max_sends_per_day: 5
database:
  path: custom.db
search:
  defaults:
    keywords: "open to work"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Limits.MaxSendsPerDay)
	assert.Equal(t, "custom.db", cfg.Database.Path)
	assert.Equal(t, "open to work", cfg.Search.Defaults.Keywords)
	// untouched values keep their defaults
	assert.Equal(t, 100, cfg.Limits.MaxProfilesPerSearch)
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: from-yaml.db\n"), 0o644))
	t.Setenv("PROSPECTOR_DB_PATH", "from-env.db")
	t.Setenv("PROSPECTOR_HEADLESS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
	assert.True(t, cfg.Stealth.Headless)
}

func TestValidateRejectsBadLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_sends_per_day: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
