// package models defines the data model for the playback client
package models

import (
	"strings"
	"time"
)

// Playlist represents a playlist owned by or followed by the current user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// Track represents a playable track.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album,omitempty"`
	DurationMS int      `json:"duration_ms"`
}

// PrimaryArtist returns the first credited artist or an empty string.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// ArtistNames returns all credited artists joined with ", ".
func (t Track) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

// PlaybackSnapshot is one read of remote playback state.
//
// ProgressMS <= DurationMS is expected but comes from upstream unchecked; use [PlaybackSnapshot.Clamped] before rendering.
type PlaybackSnapshot struct {
	Playing    bool      `json:"is_playing"`
	Track      *Track    `json:"track,omitempty"`
	ProgressMS int       `json:"progress_ms"`
	DurationMS int       `json:"duration_ms"`
	Device     string    `json:"device,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Active reports whether something is playing right now.
func (s PlaybackSnapshot) Active() bool {
	return s.Playing && s.Track != nil
}

// Clamped returns progress bounded to [0, duration] and a non-negative duration.
func (s PlaybackSnapshot) Clamped() (progress, duration int) {
	duration = max(s.DurationMS, 0)
	progress = min(max(s.ProgressMS, 0), duration)
	return progress, duration
}

// Fraction returns the clamped progress as a ratio in [0, 1]. A zero duration yields 0.
func (s PlaybackSnapshot) Fraction() float64 {
	progress, duration := s.Clamped()
	if duration == 0 {
		return 0
	}
	return float64(progress) / float64(duration)
}

// Device is a Spotify Connect target.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"is_active"`
	Volume int    `json:"volume_percent"`
}
