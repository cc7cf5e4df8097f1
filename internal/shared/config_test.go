package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Library.PlaylistLimit != 20 {
			t.Errorf("expected playlist limit 20, got %d", config.Library.PlaylistLimit)
		}

		if config.Library.TrackLimit != 50 {
			t.Errorf("expected track limit 50, got %d", config.Library.TrackLimit)
		}

		if config.Playback.PollInterval() != time.Second {
			t.Errorf("expected poll interval 1s, got %v", config.Playback.PollInterval())
		}

		if !config.Playback.ShowIdle {
			t.Error("expected show_idle to default to true")
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("config file should exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Server.Host != DefaultConfig().Server.Host {
			t.Errorf("created config server host doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("overrides defaults", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")

			testConfig := `[server]
host = "0.0.0.0"
port = 9000

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:9000/callback"

[playback]
poll_interval_ms = 2000
`
			if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.Server.Port != 9000 {
				t.Errorf("expected server port 9000, got %d", config.Server.Port)
			}

			if config.Credentials.Spotify.ClientID != "test_client_id" {
				t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
			}

			if config.Playback.PollInterval() != 2*time.Second {
				t.Errorf("expected poll interval 2s, got %v", config.Playback.PollInterval())
			}

			if config.Library.TrackLimit != 50 {
				t.Errorf("expected unset track limit to keep default 50, got %d", config.Library.TrackLimit)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("invalid values", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[library]\nplaylist_limit = 500\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("malformed toml", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := LoadConfig(configPath); err == nil {
				t.Error("expected parse error")
			}
		})
	})

	t.Run("SaveConfig", func(t *testing.T) {
		t.Run("round trips tokens", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			config := DefaultConfig()
			expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

			if err := config.Credentials.Spotify.Update(&oauth2.Token{
				AccessToken:  "access",
				RefreshToken: "refresh",
				TokenType:    "Bearer",
				Expiry:       expiry,
			}); err != nil {
				t.Fatalf("failed to update token: %v", err)
			}

			if err := SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			loaded, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load saved config: %v", err)
			}

			token := loaded.Credentials.Spotify.Token()
			if token == nil {
				t.Fatal("expected token to be restored")
			}
			if token.AccessToken != "access" || token.RefreshToken != "refresh" {
				t.Errorf("unexpected token %+v", token)
			}
			if !token.Expiry.Equal(expiry) {
				t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
			}
		})

		t.Run("rejects nil config", func(t *testing.T) {
			if err := SaveConfig(filepath.Join(t.TempDir(), "c.toml"), nil); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("rejects empty path", func(t *testing.T) {
			if err := SaveConfig("", DefaultConfig()); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Token is nil without credentials", func(t *testing.T) {
		if tok := (SpotifyConfig{}).Token(); tok != nil {
			t.Errorf("expected nil token, got %+v", tok)
		}
	})

	t.Run("Update keeps refresh token when omitted", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "original"}
		if err := cfg.Update(&oauth2.Token{AccessToken: "new"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RefreshToken != "original" {
			t.Errorf("expected refresh token to be kept, got %q", cfg.RefreshToken)
		}
		if cfg.AccessToken != "new" {
			t.Errorf("expected access token to be updated, got %q", cfg.AccessToken)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if err := cfg.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := cfg.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty access token")
		}
	})

	t.Run("Configured", func(t *testing.T) {
		tt := []struct {
			name string
			cfg  SpotifyConfig
			want bool
		}{
			{"empty", SpotifyConfig{}, false},
			{"placeholder", SpotifyConfig{ClientID: "your_spotify_client_id", ClientSecret: "x"}, false},
			{"missing secret", SpotifyConfig{ClientID: "id"}, false},
			{"real", SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.cfg.Configured(); got != tc.want {
					t.Errorf("Configured() = %v, want %v", got, tc.want)
				}
			})
		}
	})
}

func TestLogPath(t *testing.T) {
	config := DefaultConfig()
	config.Log.Path = "/tmp/custom.log"
	if got := config.LogPath(); got != "/tmp/custom.log" {
		t.Errorf("expected custom log path, got %s", got)
	}
}
