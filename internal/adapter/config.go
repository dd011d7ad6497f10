package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/movied/internal/adapter/tmdb"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

// DefaultImageBaseURL is the TMDB image CDN root
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds metadata API configuration
type TMDBConfig struct {
	Token        string `mapstructure:"token"` // v4 read access token
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Language     string `mapstructure:"language"`
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	Persist    bool          `mapstructure:"persist"` // keep catalog payloads across runs
	Dir        string        `mapstructure:"dir"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
	SearchTTL  time.Duration `mapstructure:"search_ttl"`
}

// ServerConfig holds web front end configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PlayerConfig holds the trailer player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty for auto-detect
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Debounce      time.Duration `mapstructure:"debounce"`
	GuardShortcut bool          `mapstructure:"guard_shortcut"` // ctrl+k ignored while another field has focus
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      tmdb.DefaultBaseURL,
			ImageBaseURL: DefaultImageBaseURL,
			Language:     tmdb.DefaultLanguage,
		},
		Cache: CacheConfig{
			Persist:    true,
			Dir:        defaultCachePath(),
			CatalogTTL: query.DefaultStaleAfter,
			SearchTTL:  query.SearchStaleAfter,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		UI: UIConfig{
			Debounce:      300 * time.Millisecond,
			GuardShortcut: true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "movied", "movied.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "movied", "movied.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "movied")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "movied")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "movied", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "movied", "cache")
	}
}

// LoadConfig loads configuration from the default locations and the environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

// loadConfig reads config.yaml from the first matching path. Environment
// variables use the MOVIED_ prefix (MOVIED_TMDB_TOKEN); TMDB_TOKEN is also
// accepted for the token.
func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("MOVIED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about
	for _, key := range []string{
		"tmdb.token", "tmdb.base_url", "tmdb.image_base_url", "tmdb.language",
		"cache.persist", "cache.dir", "cache.catalog_ttl", "cache.search_ttl",
		"server.addr", "player.command",
		"ui.debounce", "ui.guard_shortcut",
		"logging.file", "logging.level",
	} {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("tmdb.token", "MOVIED_TMDB_TOKEN", "TMDB_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveToken writes the API token to the config file
func SaveToken(token string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.Set("tmdb.token", token)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports configuration that would make every request fail
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDB.Token) == "" {
		return domain.ErrMissingToken
	}
	return nil
}

// IsConfigured returns true if the API token is set
func (c *Config) IsConfigured() bool {
	return c.Validate() == nil
}

// CacheScope identifies the warm tier partition for this configuration.
// Payloads fetched for a different API root or language are never shared.
func (c *Config) CacheScope() string {
	return c.TMDB.BaseURL + "|" + c.TMDB.Language
}

// CacheDir returns the warm tier directory, or "" when persistence is off
func (c *Config) CacheDir() string {
	if !c.Cache.Persist {
		return ""
	}
	return c.Cache.Dir
}

// ClearCache removes all cached data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
