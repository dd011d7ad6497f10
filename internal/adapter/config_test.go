package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/movied/internal/domain"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MOVIED_TMDB_TOKEN", "")
	t.Setenv("TMDB_TOKEN", "")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "en-US", cfg.TMDB.Language)
	assert.Equal(t, time.Hour, cfg.Cache.CatalogTTL)
	assert.Equal(t, time.Minute, cfg.Cache.SearchTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.Debounce)
	assert.True(t, cfg.UI.GuardShortcut)
	assert.ErrorIs(t, cfg.Validate(), domain.ErrMissingToken)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("MOVIED_TMDB_TOKEN", "")
	t.Setenv("TMDB_TOKEN", "")

	dir := t.TempDir()
	yaml := `tmdb:
  token: file-token
  language: fr-FR
cache:
  persist: false
  search_ttl: 30s
ui:
  guard_shortcut: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.TMDB.Token)
	assert.Equal(t, "fr-FR", cfg.TMDB.Language)
	assert.Equal(t, 30*time.Second, cfg.Cache.SearchTTL)
	assert.Empty(t, cfg.CacheDir())
	assert.False(t, cfg.UI.GuardShortcut)
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MOVIED_TMDB_TOKEN", "")
	t.Setenv("TMDB_TOKEN", "plain-token")
	t.Setenv("MOVIED_SERVER_ADDR", ":9999")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "plain-token", cfg.TMDB.Token)
	assert.Equal(t, ":9999", cfg.Server.Addr)

	t.Setenv("MOVIED_TMDB_TOKEN", "prefixed-token")
	cfg, err = loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "prefixed-token", cfg.TMDB.Token)
}

func TestCacheScopeSeparatesLanguages(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.TMDB.Language = "de-DE"
	assert.NotEqual(t, a.CacheScope(), b.CacheScope())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("nonsense").String())
}

func TestSetupLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "movied.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("cache warmed", "entries", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"cache warmed"`)
	assert.Contains(t, string(data), `"entries":3`)
}

func TestExpandHome(t *testing.T) {
	p, err := expandHome("/var/log/movied.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/movied.log", p)

	p, err = expandHome("~/movied.log")
	require.NoError(t, err)
	assert.NotContains(t, p, "~")
}
