package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotui/internal/services"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	service     services.Service
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(url string) error

	// guards config writes from the token refresh callback
	mu sync.Mutex
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		service:     opts.Service,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: shared.OpenBrowser,
	}
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, configCommand, playlistsCommand, tracksCommand, playerCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file, applies flag and environment overrides, and builds the Spotify client.
//
// A missing config file is not an error: defaults apply until `config init` writes one.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config, err := shared.LoadConfig(r.configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config = shared.DefaultConfig()
	case err != nil:
		return ctx, err
	}

	applyCredentialFlags(cmd, &config.Credentials.Spotify)

	if cmd.Bool("debug") {
		r.logger.SetLevel(log.DebugLevel)
	} else {
		shared.SetLogLevel(r.logger, config.Log.Level)
	}

	r.config = config

	if r.service != nil {
		return ctx, nil
	}

	svc, err := r.newSpotifyService(ctx)
	if err != nil {
		return ctx, err
	}
	if svc != nil {
		r.service = svc
	}

	return ctx, nil
}

// applyCredentialFlags overrides creds with non-empty flag values.
//
// A SPOTIFY_* variable that is set but empty still wins the flag's env lookup, so the SPOTIPY_* fallback is read here.
func applyCredentialFlags(cmd *cli.Command, creds *shared.SpotifyConfig) {
	for _, c := range []struct {
		flag, fallback string
		dst            *string
	}{
		{"client-id", "SPOTIPY_CLIENT_ID", &creds.ClientID},
		{"client-secret", "SPOTIPY_CLIENT_SECRET", &creds.ClientSecret},
		{"redirect-uri", "SPOTIPY_REDIRECT_URI", &creds.RedirectURI},
	} {
		v := cmd.String(c.flag)
		if v == "" {
			v = os.Getenv(c.fallback)
		}
		if v != "" {
			*c.dst = v
		}
	}
}

// newSpotifyService returns nil without error when no client credentials are configured.
func (r *Runner) newSpotifyService(ctx context.Context) (*services.SpotifyService, error) {
	creds := r.config.Credentials.Spotify
	if !creds.Configured() {
		r.logger.Debug("spotify credentials not configured")
		return nil, nil
	}

	client := r.httpClient
	if client == nil {
		client = &http.Client{
			Transport: shared.NewThrottledTransport(http.DefaultTransport, r.config.Playback.RequestsPerSecond, 2),
		}
	}

	svc, err := services.NewSpotifyService(creds.Map(), services.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
			return
		}
		r.logger.Debug("refreshed token saved", "path", r.configPath)
	})

	if token := creds.Token(); token != nil {
		if err := svc.OAuthenticate(ctx, token); err != nil {
			return nil, err
		}
	}

	return svc, nil
}

// requireService returns the Spotify client, or [shared.ErrMissingCredentials] when none could be built.
func (r *Runner) requireService() (services.Service, error) {
	if r.service == nil {
		return nil, fmt.Errorf("%w: set client_id and client_secret in %s or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET",
			shared.ErrMissingCredentials, r.configPath)
	}
	return r.service, nil
}

// saveTokens stores token in the runner's config and writes it to configPath, when one is set.
//
// Only the token fields reach the file: it is reloaded and patched, so credentials that came from flags or the
// environment are never written out.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrInvalidConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	onDisk, err := shared.LoadConfig(r.configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		onDisk = shared.DefaultConfig()
	case err != nil:
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := onDisk.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(r.configPath, onDisk); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
