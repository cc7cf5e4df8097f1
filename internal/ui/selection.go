package ui

import (
	"slices"

	"github.com/desertthunder/spotui/internal/models"
)

// Selection holds the last fetched playlists and tracks. Both collections are owned copies.
type Selection struct {
	playlists []models.Playlist
	tracks    []models.Track
	tracksFor string
	pending   string
}

// SetPlaylists replaces the held playlists with a copy of p.
func (s *Selection) SetPlaylists(p []models.Playlist) {
	s.playlists = slices.Clone(p)
}

// Request marks playlistID as the playlist whose tracks are expected next.
func (s *Selection) Request(playlistID string) {
	s.pending = playlistID
}

// Pending returns the playlist ID most recently passed to [Selection.Request].
func (s *Selection) Pending() string { return s.pending }

// SetTracks replaces the held tracks with a copy of t unless playlistID is not the pending request,
// in which case the fetch is stale and nothing changes.
func (s *Selection) SetTracks(playlistID string, t []models.Track) bool {
	if playlistID != s.pending {
		return false
	}
	s.tracks = slices.Clone(t)
	s.tracksFor = playlistID
	return true
}

// Playlist returns the playlist at i. ok is false outside [0, len).
func (s *Selection) Playlist(i int) (models.Playlist, bool) {
	if i < 0 || i >= len(s.playlists) {
		return models.Playlist{}, false
	}
	return s.playlists[i], true
}

// Track returns the track at i. ok is false outside [0, len).
func (s *Selection) Track(i int) (models.Track, bool) {
	if i < 0 || i >= len(s.tracks) {
		return models.Track{}, false
	}
	return s.tracks[i], true
}

// PlaylistFor returns the playlist the held tracks belong to.
func (s *Selection) PlaylistFor() (models.Playlist, bool) {
	for _, p := range s.playlists {
		if p.ID == s.tracksFor {
			return p, true
		}
	}
	return models.Playlist{}, false
}

func (s *Selection) Tracks() []models.Track { return slices.Clone(s.tracks) }
