// Package services defines the [Player], [Library], and [Service] interfaces for the remote playback API and implements them for Spotify.
//
// # Spotify Implementation
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. It does not reimplement the Web API; it maps the binding's types onto
// [models.Playlist], [models.Track], [models.Device], and [models.PlaybackSnapshot].
//
// Authentication uses OAuth2 with automatic token refresh. The [oauth2] client refreshes expired tokens using the refresh token
// and [SpotifyService.SetTokenRefreshCallback] reports each new token so the caller can persist it.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for OAuth providers. The CLI uses it together with the server package's callback
// handler to complete the authorization code flow.
//
// # Error Handling
//
// Every failure is wrapped with a sentinel from the shared package so callers can route it with errors.Is:
//   - [shared.ErrNotAuthenticated] : OAuthenticate() not called
//   - [shared.ErrTokenExpired] : HTTP 401 or refresh failure; reauthorization needed
//   - [shared.ErrPremiumRequired] : HTTP 403 on a player command
//   - [shared.ErrNoActiveDevice] : HTTP 404 on a player endpoint
//   - [shared.ErrRateLimited] : HTTP 429
//   - [shared.ErrAPIRequest] : any other failure
package services
