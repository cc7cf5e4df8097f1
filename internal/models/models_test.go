package models

import "testing"

func TestTrack(t *testing.T) {
	t.Run("PrimaryArtist", func(t *testing.T) {
		if got := (Track{}).PrimaryArtist(); got != "" {
			t.Errorf("expected empty artist, got %q", got)
		}
		if got := (Track{Artists: []string{"X", "Y"}}).PrimaryArtist(); got != "X" {
			t.Errorf("expected X, got %q", got)
		}
	})

	t.Run("ArtistNames", func(t *testing.T) {
		if got := (Track{Artists: []string{"X", "Y"}}).ArtistNames(); got != "X, Y" {
			t.Errorf("expected 'X, Y', got %q", got)
		}
	})
}

func TestPlaybackSnapshot(t *testing.T) {
	track := &Track{Title: "A", Artists: []string{"X"}}

	t.Run("Active", func(t *testing.T) {
		tt := []struct {
			name string
			snap PlaybackSnapshot
			want bool
		}{
			{"playing with track", PlaybackSnapshot{Playing: true, Track: track}, true},
			{"paused with track", PlaybackSnapshot{Playing: false, Track: track}, false},
			{"playing without track", PlaybackSnapshot{Playing: true}, false},
			{"empty", PlaybackSnapshot{}, false},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.snap.Active(); got != tc.want {
					t.Errorf("Active() = %v, want %v", got, tc.want)
				}
			})
		}
	})

	t.Run("Clamped", func(t *testing.T) {
		tt := []struct {
			name         string
			progress     int
			duration     int
			wantProgress int
			wantDuration int
		}{
			{"in range", 50000, 200000, 50000, 200000},
			{"overrun", 250000, 200000, 200000, 200000},
			{"negative progress", -5, 100, 0, 100},
			{"negative duration", 10, -1, 0, 0},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				snap := PlaybackSnapshot{ProgressMS: tc.progress, DurationMS: tc.duration}
				p, d := snap.Clamped()
				if p != tc.wantProgress || d != tc.wantDuration {
					t.Errorf("Clamped() = (%d, %d), want (%d, %d)", p, d, tc.wantProgress, tc.wantDuration)
				}
			})
		}
	})

	t.Run("Fraction", func(t *testing.T) {
		if got := (PlaybackSnapshot{ProgressMS: 50000, DurationMS: 200000}).Fraction(); got != 0.25 {
			t.Errorf("expected 0.25, got %v", got)
		}
		if got := (PlaybackSnapshot{ProgressMS: 10}).Fraction(); got != 0 {
			t.Errorf("expected 0 for zero duration, got %v", got)
		}
	})
}
