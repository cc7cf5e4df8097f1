package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	appName        = "spotui"
	configFileName = "config.toml"
	logFileName    = "spotui.log"

	placeholderClientID = "your_spotify_client_id"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Library     LibraryConfig     `toml:"library"`
	Playback    PlaybackConfig    `toml:"playback"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the last issued OAuth2 token.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri" validate:"omitempty,url"`
	AccessToken  string    `toml:"access_token,omitempty"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	TokenType    string    `toml:"token_type,omitempty"`
	Expiry       time.Time `toml:"expiry,omitempty"`
}

// ServerConfig contains the OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
}

// LibraryConfig bounds the first page fetched for playlists and tracks.
type LibraryConfig struct {
	PlaylistLimit int `toml:"playlist_limit" validate:"gte=1,lte=50"`
	TrackLimit    int `toml:"track_limit" validate:"gte=1,lte=100"`
}

// PlaybackConfig controls the playback status poller.
type PlaybackConfig struct {
	PollIntervalMS    int     `toml:"poll_interval_ms" validate:"gte=250"`
	PollTimeoutMS     int     `toml:"poll_timeout_ms" validate:"gte=100"`
	ShowIdle          bool    `toml:"show_idle"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gt=0"`
}

// LogConfig contains logging settings. An empty path means the XDG state directory.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Path  string `toml:"path"`
}

// PollInterval returns the configured poll interval as a [time.Duration].
func (p PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMS) * time.Millisecond
}

// PollTimeout returns the per-poll request timeout as a [time.Duration].
func (p PlaybackConfig) PollTimeout() time.Duration {
	return time.Duration(p.PollTimeoutMS) * time.Millisecond
}

// Map returns the credentials in the shape expected by services.NewSpotifyService.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Configured reports whether real client credentials are present.
func (s SpotifyConfig) Configured() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.ClientID != placeholderClientID
}

// Token returns the stored [oauth2.Token], or nil when no access or refresh token has been saved.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}
}

// Update stores token in the config. A refreshed token without a refresh token keeps the previous one.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", ErrInvalidInput)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidInput)
	}

	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenType = token.TokenType
	s.Expiry = token.Expiry
	return nil
}

// Validate checks struct constraints with [validator.Validate].
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogPath returns the configured log file path, defaulting to the XDG state directory.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	path, err := xdg.StateFile(filepath.Join(appName, logFileName))
	if err != nil {
		return filepath.Join(os.TempDir(), appName, logFileName)
	}
	return path
}

// DefaultConfigPath returns ./config.toml when it exists, otherwise $XDG_CONFIG_HOME/spotui/config.toml.
func DefaultConfigPath() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes config to path as TOML. The file holds tokens, so it is written with mode 0600.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidInput)
	}
	if path == "" {
		return fmt.Errorf("%w: empty config path", ErrInvalidInput)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
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

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
