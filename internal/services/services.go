// package services defines the interfaces the client uses to reach the remote playback API
//
// Spotify (via github.com/zmb3/spotify/v2)
package services

import (
	"context"

	"github.com/desertthunder/spotui/internal/models"
	"golang.org/x/oauth2"
)

// Player reads remote playback state and issues transport commands.
type Player interface {
	// CurrentPlayback returns a fresh snapshot. Nothing playing is a successful, inactive snapshot, not an error.
	CurrentPlayback(ctx context.Context) (*models.PlaybackSnapshot, error)

	// Play resumes playback on the active device.
	Play(ctx context.Context) error

	// PlayTrack starts playback of a single track URI on the active device.
	PlayTrack(ctx context.Context, uri string) error

	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
}

// Library reads the first page of the user's playlists and of a playlist's tracks.
type Library interface {
	// Playlists returns at most limit playlists for the authenticated user.
	Playlists(ctx context.Context, limit int) ([]models.Playlist, error)

	// PlaylistTracks returns at most limit tracks of a playlist. Episodes and unavailable items are skipped.
	PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]models.Track, error)
}

// Service is the full remote client used by the CLI and TUI.
type Service interface {
	Player
	Library

	// Devices lists Spotify Connect devices visible to the user.
	Devices(ctx context.Context) ([]models.Device, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService extends [Service] for providers using the OAuth2 authorization code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the URL the user visits to grant access.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the [oauth2.Config] used by the callback handler to exchange codes.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs token and builds the authenticated API client.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error

	// SetTokenRefreshCallback registers fn to receive every newly refreshed token.
	SetTokenRefreshCallback(fn func(*oauth2.Token))
}
