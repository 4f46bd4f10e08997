package tolet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tolet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Stays\nsession_secret: s3cret\nlisting_cache_ttl: 90s\n"), 0o600))
	t.Setenv("TOLET_ADDR", ":8080")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Stays", cfg.Name)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 90*time.Second, cfg.ListingCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.DraftTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("TOLET_SESSION_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "To-Let", cfg.Name)
	assert.Error(t, cfg.Validate(), "no session secret")
}

func TestValidateRejectsNegativeTTL(t *testing.T) {
	t.Setenv("TOLET_SESSION_SECRET", "s3cret")
	t.Setenv("TOLET_LISTING_CACHE_TTL", "-5m")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing_cache_ttl must not be negative")

	cfg.ListingCacheTTL = time.Minute
	cfg.DraftTTL = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "draft_ttl")
}

func TestSetupRefusesNegativeTTL(t *testing.T) {
	dir := t.TempDir()
	app := New(SiteConfig{
		SessionSecret:   "s3cret",
		DatabasePath:    filepath.Join(dir, "sessions.db"),
		StagingDir:      filepath.Join(dir, "staging"),
		ListingCacheTTL: -time.Minute,
	})
	assert.ErrorContains(t, app.Setup(), "listing_cache_ttl")
}
