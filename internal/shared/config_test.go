package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Spotify.RedirectURI != "http://127.0.0.1:8888/callback" {
			t.Errorf("expected default redirect URI, got %s", config.Spotify.RedirectURI)
		}
		if config.Recommend.CoverageLimit != 20 {
			t.Errorf("expected coverage limit 20, got %d", config.Recommend.CoverageLimit)
		}
		if config.Recommend.FillLimit != 100 {
			t.Errorf("expected fill limit 100, got %d", config.Recommend.FillLimit)
		}
		if config.Recommend.Pace() != 100*time.Millisecond {
			t.Errorf("expected 100ms pace, got %v", config.Recommend.Pace())
		}
		if config.Recommend.SeedCache {
			t.Error("expected seed cache to be disabled by default")
		}
		if config.Playlist.Public {
			t.Error("expected playlists to be private by default")
		}
		if config.Playlist.NameLimit != 100 {
			t.Errorf("expected name limit 100, got %d", config.Playlist.NameLimit)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Storage.Dir != DefaultConfig().Storage.Dir {
			t.Errorf("created config storage dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig overlays defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[storage]
dir = "/var/lib/seedify"

[recommend]
fill_limit = 50

[playlist]
public = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Recommend.FillLimit != 50 {
			t.Errorf("expected fill limit 50, got %d", config.Recommend.FillLimit)
		}
		if config.Recommend.CoverageLimit != 20 {
			t.Errorf("expected default coverage limit to survive, got %d", config.Recommend.CoverageLimit)
		}
		if !config.Playlist.Public {
			t.Error("expected public playlist")
		}

		dbPath, err := config.DatabasePath()
		if err != nil {
			t.Fatalf("DatabasePath() error = %v", err)
		}
		if dbPath != filepath.Join("/var/lib/seedify", DatabaseFile) {
			t.Errorf("unexpected database path %s", dbPath)
		}
	})

	t.Run("LoadConfig rejects out of range values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[recommend]\nfill_limit = 500\n"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig rejects malformed TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[recommend\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault with missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.toml")

		if _, err := LoadConfig(missing); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		config, err := LoadConfigOrDefault(missing)
		if err != nil {
			t.Fatalf("expected defaults, got error %v", err)
		}
		if config.Recommend.CoverageLimit != 20 {
			t.Errorf("expected default config, got %+v", config.Recommend)
		}
	})

	t.Run("StateDir expands home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		config := DefaultConfig()
		dir, err := config.StateDir()
		if err != nil {
			t.Fatalf("StateDir() error = %v", err)
		}
		if dir != filepath.Join(home, ".seedify") {
			t.Errorf("expected %s, got %s", filepath.Join(home, ".seedify"), dir)
		}
	})
}
