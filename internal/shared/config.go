package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	KeyFile         = "key.key"
	CredentialsFile = "credentials.enc"
	TokenFile       = "token.enc"
	DatabaseFile    = "seedify.db"
	LockFile        = "seedify.lock"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify   SpotifyConfig   `toml:"spotify"`
	Storage   StorageConfig   `toml:"storage"`
	Database  DatabaseConfig  `toml:"database"`
	Recommend RecommendConfig `toml:"recommend"`
	Playlist  PlaylistConfig  `toml:"playlist"`
}

// SpotifyConfig contains the OAuth redirect and search market.
type SpotifyConfig struct {
	RedirectURI string `toml:"redirect_uri"`
	Market      string `toml:"market"`
}

// StorageConfig locates the state directory.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RecommendConfig tunes the recommendation phases.
type RecommendConfig struct {
	CoverageLimit int  `toml:"coverage_limit"`
	FillLimit     int  `toml:"fill_limit"`
	PaceMS        int  `toml:"pace_ms"`
	SeedCache     bool `toml:"seed_cache"`
}

// PlaylistConfig controls the created playlist.
type PlaylistConfig struct {
	Public    bool `toml:"public"`
	NameLimit int  `toml:"name_limit"`
}

// Pace returns the courtesy delay between catalog calls.
func (r RecommendConfig) Pace() time.Duration {
	return time.Duration(r.PaceMS) * time.Millisecond
}

// StateDir returns the storage directory with a leading "~" expanded.
func (c *Config) StateDir() (string, error) {
	return expandHome(c.Storage.Dir)
}

// StatePath joins name onto the state directory.
func (c *Config) StatePath(name string) (string, error) {
	dir, err := c.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// DatabasePath returns the configured database path, falling back to the
// state directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return expandHome(c.Database.Path)
	}
	return c.StatePath(DatabaseFile)
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Storage.Dir == "":
		return fmt.Errorf("%w: storage.dir is empty", ErrInvalidConfig)
	case c.Recommend.CoverageLimit < 1 || c.Recommend.CoverageLimit > 100:
		return fmt.Errorf("%w: recommend.coverage_limit must be in [1, 100], got %d", ErrInvalidConfig, c.Recommend.CoverageLimit)
	case c.Recommend.FillLimit < 1 || c.Recommend.FillLimit > 100:
		return fmt.Errorf("%w: recommend.fill_limit must be in [1, 100], got %d", ErrInvalidConfig, c.Recommend.FillLimit)
	case c.Recommend.PaceMS < 0:
		return fmt.Errorf("%w: recommend.pace_ms must not be negative", ErrInvalidConfig)
	case c.Playlist.NameLimit < 1:
		return fmt.Errorf("%w: playlist.name_limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a TOML file from path over the embedded defaults, so keys
// absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault behaves like [LoadConfig] but returns the defaults when
// the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, ErrMissingConfig) {
		return DefaultConfig(), nil
	}
	return config, err
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
