// package formatter renders playback state, library listings, and errors as text and exports track lists (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	NotPlaying = "Not Playing"
	ellipsis   = "…"
)

// Export formats accepted by [ExportTracks].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// NowPlaying returns the playback label for a track that is playing.
func NowPlaying(t models.Track) string {
	return "🎵 " + trackLabel(t)
}

// Paused returns the playback label for a track that is loaded but not playing.
func Paused(t models.Track) string {
	return "⏸ " + trackLabel(t)
}

func trackLabel(t models.Track) string {
	if artist := t.PrimaryArtist(); artist != "" {
		return t.Title + " - " + artist
	}
	return t.Title
}

// PlaybackLabel picks the label for snap: playing, paused, or [NotPlaying].
func PlaybackLabel(snap *models.PlaybackSnapshot) string {
	switch {
	case snap == nil || snap.Track == nil:
		return NotPlaying
	case snap.Playing:
		return NowPlaying(*snap.Track)
	default:
		return Paused(*snap.Track)
	}
}

// FormatDuration renders milliseconds as m:ss, or h:mm:ss past an hour. Negative values render as 0:00.
func FormatDuration(ms int) string {
	secs := max(ms, 0) / 1000
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Progress renders the clamped position of snap as "elapsed / total".
func Progress(snap *models.PlaybackSnapshot) string {
	if snap == nil {
		return FormatDuration(0) + " / " + FormatDuration(0)
	}
	progress, duration := snap.Clamped()
	return FormatDuration(progress) + " / " + FormatDuration(duration)
}

// StatusLine is the one-line playback summary printed by `player status`.
func StatusLine(snap *models.PlaybackSnapshot) string {
	if snap == nil || snap.Track == nil {
		return NotPlaying
	}

	line := PlaybackLabel(snap) + "  " + Progress(snap)
	if snap.Device != "" {
		line += "  on " + snap.Device
	}
	return line
}

// TrackCount renders n with thousands separators, e.g. "1,204 tracks".
func TrackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return humanize.Comma(int64(n)) + " tracks"
}

// PlaylistLine renders a playlist as "name (N tracks)".
func PlaylistLine(p models.Playlist) string {
	return fmt.Sprintf("%s (%s)", p.Name, TrackCount(p.TrackCount))
}

// DeviceLine renders a device, marking the active one with an asterisk.
func DeviceLine(d models.Device) string {
	marker := " "
	if d.Active {
		marker = "*"
	}
	return fmt.Sprintf("%s %s [%s] volume %d%%", marker, d.Name, d.Type, d.Volume)
}

// Truncate shortens s to at most width terminal cells, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// DescribeError turns err into a message fit for a notification.
func DescribeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrNoActiveDevice):
		return "No active device. Open Spotify on a device and try again."
	case errors.Is(err, shared.ErrTokenExpired):
		return "Session expired. Run `spotui auth` to sign in again."
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Not signed in. Run `spotui auth` first."
	case errors.Is(err, shared.ErrPremiumRequired):
		return "Playback control requires Spotify Premium."
	case errors.Is(err, shared.ErrRateLimited):
		return "Rate limited by Spotify. Try again in a moment."
	case errors.Is(err, shared.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "Spotify did not respond in time."
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return "Playlist not found."
	case errors.Is(err, shared.ErrMissingCredentials):
		return "Spotify credentials are missing. Run `spotui config init` and fill in [credentials.spotify]."
	case errors.Is(err, shared.ErrInvalidInput):
		return "Nothing to play for this selection."
	default:
		return "Request failed. Ensure Spotify is open on a device! (" + err.Error() + ")"
	}
}

// ExportToCSV converts tracks to CSV with columns: ID, Title, Artist, Album, Duration, URI
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.ArtistNames(),
			track.Album,
			FormatDuration(track.DurationMS),
			track.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a playlist heading followed by a numbered track list.
func ExportToMarkdown(playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)

	if playlist.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", playlist.Description)
	}
	if playlist.Owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", playlist.Owner)
	}
	fmt.Fprintf(&buf, "**Tracks**: %s\n\n", humanize.Comma(int64(len(tracks))))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.ArtistNames(), track.Title, albumPart, FormatDuration(track.DurationMS))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to plain text format
func ExportToText(playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	if playlist.Name != "" {
		fmt.Fprintf(&buf, "Playlist: %s\n", playlist.Name)
	}
	if playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))

	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, track.ArtistNames(), track.Title, FormatDuration(track.DurationMS))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders tracks as an indented JSON array.
func ExportToJSON(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tracks: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportTracks dispatches on format (case-insensitive).
func ExportTracks(format string, playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return ExportToText(playlist, tracks)
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown, "md":
		return ExportToMarkdown(playlist, tracks)
	case FormatJSON:
		return ExportToJSON(tracks)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want text, csv, markdown or json)", shared.ErrInvalidArgument, format)
	}
}
