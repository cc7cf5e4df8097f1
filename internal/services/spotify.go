// Spotify implementation of [Service]
//
// Requests go through github.com/zmb3/spotify/v2; this file maps its types onto [models] and its failures onto shared sentinels.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const (
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"

	defaultPlaylistLimit = 20
	maxPlaylistLimit     = 50
	defaultTrackLimit    = 50
	maxTrackLimit        = 100
)

// Scopes requests playback read/modify and private playlist read access.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopePlaylistReadPrivate,
}

var _ OAuthService = (*SpotifyService)(nil)

// SpotifyService implements [OAuthService] on top of a [spotify.Client].
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	apiOpts    []spotify.ClientOption
	now        func() time.Time

	mu             sync.RWMutex
	client         *spotify.Client
	source         *refreshableTokenSource
	onTokenRefresh func(*oauth2.Token)
}

// Option customizes a [SpotifyService].
type Option func(*SpotifyService)

// WithHTTPClient sets the base client used for API calls and token refreshes.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) { s.httpClient = c }
}

// WithBaseURL points API calls at an alternative host. url must end with a slash.
func WithBaseURL(url string) Option {
	return func(s *SpotifyService) { s.apiOpts = append(s.apiOpts, spotify.WithBaseURL(url)) }
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...Option) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		httpClient: http.DefaultClient,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// GetOAuthConfig returns the [oauth2.Config] backing this service.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to be called whenever the token source yields a new access token.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokenRefresh = fn
	if s.source != nil {
		s.source.setCallback(fn)
	}
}

// OAuthenticate builds the API client from token.
//
// ctx outlives this call: the [oauth2] token source keeps it for refresh requests, so pass a process-lifetime context.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: missing token", shared.ErrNotAuthenticated)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = newRefreshableTokenSource(s.config.TokenSource(ctx, token), token, s.onTokenRefresh)
	s.client = spotify.New(oauth2.NewClient(ctx, s.source), s.apiOpts...)
	return nil
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, fmt.Errorf("%w: run `spotui auth` first", shared.ErrNotAuthenticated)
	}
	return s.client, nil
}

// CurrentPlayback reads the user's player state. A 204 (no active device) yields an inactive snapshot.
func (s *SpotifyService) CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	state, err := client.PlayerState(ctx)
	if err != nil {
		return nil, classify("read playback state", err, true)
	}

	return snapshotFrom(state, s.now()), nil
}

func (s *SpotifyService) Play(ctx context.Context) error {
	return s.command(ctx, "start playback", func(c *spotify.Client) error { return c.Play(ctx) })
}

// PlayTrack starts playback of a single track.
func (s *SpotifyService) PlayTrack(ctx context.Context, uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: empty track uri", shared.ErrInvalidInput)
	}
	return s.command(ctx, "play track", func(c *spotify.Client) error {
		return c.PlayOpt(ctx, &spotify.PlayOptions{URIs: []spotify.URI{spotify.URI(uri)}})
	})
}

func (s *SpotifyService) Pause(ctx context.Context) error {
	return s.command(ctx, "pause playback", func(c *spotify.Client) error { return c.Pause(ctx) })
}

func (s *SpotifyService) Next(ctx context.Context) error {
	return s.command(ctx, "skip to next track", func(c *spotify.Client) error { return c.Next(ctx) })
}

func (s *SpotifyService) Previous(ctx context.Context) error {
	return s.command(ctx, "skip to previous track", func(c *spotify.Client) error { return c.Previous(ctx) })
}

func (s *SpotifyService) command(ctx context.Context, op string, fn func(*spotify.Client) error) error {
	client, err := s.api()
	if err != nil {
		return err
	}
	if err := fn(client); err != nil {
		return classify(op, err, true)
	}
	return nil
}

// Playlists retrieves the first page of the current user's playlists.
func (s *SpotifyService) Playlists(ctx context.Context, limit int) ([]models.Playlist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	page, err := client.CurrentUsersPlaylists(ctx, spotify.Limit(clampLimit(limit, defaultPlaylistLimit, maxPlaylistLimit)))
	if err != nil {
		return nil, classify("list playlists", err, false)
	}

	playlists := make([]models.Playlist, 0, len(page.Playlists))
	for _, p := range page.Playlists {
		playlists = append(playlists, models.Playlist{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Owner:       p.Owner.DisplayName,
			TrackCount:  int(p.Tracks.Total),
			Public:      p.IsPublic,
		})
	}

	return playlists, nil
}

// PlaylistTracks retrieves the first page of a playlist's tracks, skipping episodes and removed tracks.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidInput)
	}

	client, err := s.api()
	if err != nil {
		return nil, err
	}

	page, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(clampLimit(limit, defaultTrackLimit, maxTrackLimit)))
	if err != nil {
		return nil, classify("list playlist tracks", err, false)
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.Track == nil {
			continue
		}
		tracks = append(tracks, trackFrom(item.Track.Track))
	}

	return tracks, nil
}

// Devices lists the user's available Spotify Connect devices.
func (s *SpotifyService) Devices(ctx context.Context) ([]models.Device, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	devices, err := client.PlayerDevices(ctx)
	if err != nil {
		return nil, classify("list devices", err, false)
	}

	out := make([]models.Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, models.Device{
			ID:     string(d.ID),
			Name:   d.Name,
			Type:   d.Type,
			Active: d.Active,
			Volume: int(d.Volume),
		})
	}
	return out, nil
}

func clampLimit(limit, def, hi int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, hi)
}

func snapshotFrom(state *spotify.PlayerState, now time.Time) *models.PlaybackSnapshot {
	snap := &models.PlaybackSnapshot{FetchedAt: now}
	if state == nil {
		return snap
	}

	snap.Playing = state.Playing
	snap.ProgressMS = int(state.Progress)
	snap.Device = state.Device.Name
	if state.Item != nil {
		track := trackFrom(state.Item)
		snap.Track = &track
		snap.DurationMS = track.DurationMS
	}
	return snap
}

func trackFrom(ft *spotify.FullTrack) models.Track {
	artists := make([]string, 0, len(ft.Artists))
	for _, a := range ft.Artists {
		artists = append(artists, a.Name)
	}

	return models.Track{
		ID:         string(ft.ID),
		URI:        string(ft.URI),
		Title:      ft.Name,
		Artists:    artists,
		Album:      ft.Album.Name,
		DurationMS: int(ft.Duration),
	}
}

// classify wraps err with the shared sentinel matching its cause. player selects the 404 meaning.
func classify(op string, err error, player bool) error {
	sentinel := shared.ErrAPIRequest

	var retrieveErr *oauth2.RetrieveError
	switch {
	case errors.As(err, &retrieveErr):
		sentinel = shared.ErrTokenExpired
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = shared.ErrTimeout
	default:
		switch statusOf(err) {
		case http.StatusUnauthorized:
			sentinel = shared.ErrTokenExpired
		case http.StatusForbidden:
			sentinel = shared.ErrPremiumRequired
		case http.StatusNotFound:
			if player {
				sentinel = shared.ErrNoActiveDevice
			} else {
				sentinel = shared.ErrPlaylistNotFound
			}
		case http.StatusTooManyRequests:
			sentinel = shared.ErrRateLimited
		}
	}

	return fmt.Errorf("%w: %s: %w", sentinel, op, err)
}

func statusOf(err error) int {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Status
	}
	return 0
}

// refreshableTokenSource reports each new access token to a callback so it can be persisted.
type refreshableTokenSource struct {
	base oauth2.TokenSource

	mu        sync.Mutex
	last      string
	onRefresh func(*oauth2.Token)
}

func newRefreshableTokenSource(base oauth2.TokenSource, initial *oauth2.Token, fn func(*oauth2.Token)) *refreshableTokenSource {
	src := &refreshableTokenSource{base: base, onRefresh: fn}
	if initial != nil {
		src.last = initial.AccessToken
	}
	return src
}

func (r *refreshableTokenSource) setCallback(fn func(*oauth2.Token)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRefresh = fn
}

// Token implements [oauth2.TokenSource].
func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.base.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	fn := r.onRefresh
	r.mu.Unlock()

	if changed && fn != nil {
		fn(token)
	}
	return token, nil
}
