package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/mattn/go-runewidth"
)

var testTracks = []models.Track{
	{
		ID:         "track1",
		URI:        "spotify:track:track1",
		Title:      "Song One",
		Artists:    []string{"Artist One", "Guest"},
		Album:      "Album One",
		DurationMS: 180000,
	},
	{
		ID:         "track2",
		URI:        "spotify:track:track2",
		Title:      "Song Two",
		Artists:    []string{"Artist Two"},
		Album:      "Album Two",
		DurationMS: 241000,
	},
}

var testPlaylist = models.Playlist{
	ID:          "test123",
	Name:        "Test Playlist",
	Description: "A test playlist",
	Owner:       "me",
	TrackCount:  2,
	Public:      true,
}

func TestLabels(t *testing.T) {
	track := models.Track{Title: "A", Artists: []string{"X", "Y"}}

	t.Run("NowPlaying", func(t *testing.T) {
		if got := NowPlaying(track); got != "🎵 A - X" {
			t.Errorf("expected %q, got %q", "🎵 A - X", got)
		}
	})

	t.Run("without artist", func(t *testing.T) {
		if got := NowPlaying(models.Track{Title: "A"}); got != "🎵 A" {
			t.Errorf("expected %q, got %q", "🎵 A", got)
		}
	})

	t.Run("PlaybackLabel", func(t *testing.T) {
		tt := []struct {
			name string
			snap *models.PlaybackSnapshot
			want string
		}{
			{"nil", nil, NotPlaying},
			{"no item", &models.PlaybackSnapshot{Playing: true}, NotPlaying},
			{"playing", &models.PlaybackSnapshot{Playing: true, Track: &track}, "🎵 A - X"},
			{"paused", &models.PlaybackSnapshot{Track: &track}, "⏸ A - X"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := PlaybackLabel(tc.snap); got != tc.want {
					t.Errorf("expected %q, got %q", tc.want, got)
				}
			})
		}
	})

	t.Run("StatusLine", func(t *testing.T) {
		snap := &models.PlaybackSnapshot{Playing: true, Track: &track, ProgressMS: 50000, DurationMS: 200000, Device: "Desk"}
		want := "🎵 A - X  0:50 / 3:20  on Desk"
		if got := StatusLine(snap); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}

		if got := StatusLine(&models.PlaybackSnapshot{}); got != NotPlaying {
			t.Errorf("expected %q, got %q", NotPlaying, got)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tt := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{-5000, "0:00"},
		{999, "0:00"},
		{50000, "0:50"},
		{200000, "3:20"},
		{3723000, "1:02:03"},
	}

	for _, tc := range tt {
		t.Run(tc.want, func(t *testing.T) {
			if got := FormatDuration(tc.ms); got != tc.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
			}
		})
	}

	t.Run("Progress clamps", func(t *testing.T) {
		snap := &models.PlaybackSnapshot{ProgressMS: 300000, DurationMS: 200000}
		if got := Progress(snap); got != "3:20 / 3:20" {
			t.Errorf("expected clamped progress, got %q", got)
		}
	})
}

func TestLines(t *testing.T) {
	t.Run("TrackCount", func(t *testing.T) {
		for n, want := range map[int]string{0: "0 tracks", 1: "1 track", 1204: "1,204 tracks"} {
			if got := TrackCount(n); got != want {
				t.Errorf("TrackCount(%d) = %q, want %q", n, got, want)
			}
		}
	})

	t.Run("PlaylistLine", func(t *testing.T) {
		if got := PlaylistLine(testPlaylist); got != "Test Playlist (2 tracks)" {
			t.Errorf("unexpected line %q", got)
		}
	})

	t.Run("DeviceLine", func(t *testing.T) {
		got := DeviceLine(models.Device{Name: "Desk", Type: "Computer", Active: true, Volume: 40})
		if got != "* Desk [Computer] volume 40%" {
			t.Errorf("unexpected line %q", got)
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		if got := Truncate("short", 10); got != "short" {
			t.Errorf("expected untouched string, got %q", got)
		}

		got := Truncate("a very long playlist name", 10)
		if runewidth.StringWidth(got) > 10 || !strings.HasSuffix(got, "…") {
			t.Errorf("expected truncated string within 10 cells, got %q", got)
		}

		wide := Truncate("日本語のタイトル", 6)
		if runewidth.StringWidth(wide) > 6 {
			t.Errorf("expected wide runes to fit 6 cells, got %q", wide)
		}

		if got := Truncate("anything", 0); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestDescribeError(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no device", fmt.Errorf("%w: pause", shared.ErrNoActiveDevice), "No active device"},
		{"expired", fmt.Errorf("%w: 401", shared.ErrTokenExpired), "spotui auth"},
		{"premium", shared.ErrPremiumRequired, "Premium"},
		{"rate limited", shared.ErrRateLimited, "Rate limited"},
		{"timeout", shared.ErrTimeout, "in time"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := DescribeError(tc.err)
			if tc.want == "" {
				if got != "" {
					t.Errorf("expected empty message, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("expected message containing %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testTracks)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Album,Duration,URI") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `"Artist One, Guest"`) {
			t.Errorf("CSV should quote joined artists, got: %s", output)
		}
		if !strings.Contains(output, "spotify:track:track2") {
			t.Errorf("CSV missing track2 URI")
		}
		if !strings.Contains(output, "4:01") {
			t.Errorf("CSV missing formatted duration")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylist, testTracks)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "# Test Playlist") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Description**: A test playlist") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "1. Artist One, Guest - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing first track, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylist, testTracks)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("Text missing playlist name")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two [4:01]") {
			t.Errorf("Text missing second track, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testTracks)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.Track
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].URI != "spotify:track:track1" {
			t.Errorf("unexpected decoded tracks %+v", decoded)
		}

		empty, _ := ExportToJSON(nil)
		if strings.TrimSpace(string(empty)) != "[]" {
			t.Errorf("expected empty array, got %q", empty)
		}
	})

	t.Run("ExportTracks", func(t *testing.T) {
		for _, format := range []string{"text", "csv", "markdown", "json", "MD", ""} {
			if _, err := ExportTracks(format, testPlaylist, testTracks); err != nil {
				t.Errorf("format %q: unexpected error %v", format, err)
			}
		}

		if _, err := ExportTracks("xml", testPlaylist, testTracks); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
