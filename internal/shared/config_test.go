package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Mode != "development" {
			t.Errorf("expected mode development, got %s", config.Mode)
		}

		if config.IsProduction() {
			t.Error("default config should not be production")
		}

		if config.Database.Path != "./encore.db" {
			t.Errorf("expected database path ./encore.db, got %s", config.Database.Path)
		}

		if config.Cache.Dir != "./cache" {
			t.Errorf("expected cache dir ./cache, got %s", config.Cache.Dir)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.SetlistFM.APIKey != "your_setlistfm_api_key" {
			t.Errorf("expected setlistfm api_key your_setlistfm_api_key, got %s", config.Credentials.SetlistFM.APIKey)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		err = CreateConfigFile(configPath)
		if err == nil {
			t.Fatal("creating config file again should fail")
		}
		if !errors.Is(err, os.ErrExist) {
			t.Errorf("expected os.ErrExist, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `mode = "production"

[credentials.setlistfm]
api_key = "test_setlistfm_key"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[cache]
dir = "/custom/cache"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[logging]
file = "/var/log/encore.log"
max_size_mb = 5
max_backups = 2
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if !config.IsProduction() {
			t.Error("expected production mode")
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Cache.Dir != "/custom/cache" {
			t.Errorf("expected cache dir /custom/cache, got %s", config.Cache.Dir)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Logging.File != "/var/log/encore.log" {
			t.Errorf("expected logging file /var/log/encore.log, got %s", config.Logging.File)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
