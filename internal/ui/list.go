package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := formatter.TrackCount(i.playlist.TrackCount)
	if i.playlist.Owner != "" {
		desc = desc + " • " + i.playlist.Owner
	}
	return desc
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

// trackColumns sizes the Title/Artist/Album/Time columns to fit width cells.
func trackColumns(width int) []table.Column {
	const timeWidth = 7
	rest := max(width-timeWidth-8, 30)
	return []table.Column{
		{Title: "Title", Width: rest * 2 / 5},
		{Title: "Artist", Width: rest * 3 / 10},
		{Title: "Album", Width: rest * 3 / 10},
		{Title: "Time", Width: timeWidth},
	}
}

func trackRows(tracks []models.Track, columns []table.Column) []table.Row {
	rows := make([]table.Row, len(tracks))
	for i, t := range tracks {
		rows[i] = table.Row{
			formatter.Truncate(t.Title, columns[0].Width),
			formatter.Truncate(t.ArtistNames(), columns[1].Width),
			formatter.Truncate(t.Album, columns[2].Width),
			formatter.FormatDuration(t.DurationMS),
		}
	}
	return rows
}
