package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the first page of the user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Library.PlaylistLimit
	}

	r.logger.Debug("listing playlists", "limit", limit)

	playlists, err := svc.Playlists(ctx, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %s\n", formatter.TrackCount(p.TrackCount))
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// Tracks prints or exports the first page of a playlist's tracks.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}

	svc, err := r.requireService()
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Library.TrackLimit
	}

	r.logger.Debug("listing tracks", "playlist", playlistID, "limit", limit)

	tracks, err := svc.PlaylistTracks(ctx, playlistID, limit)
	if err != nil {
		return err
	}

	playlist := r.lookupPlaylist(ctx, playlistID)

	data, err := formatter.ExportTracks(cmd.String("format"), playlist, tracks)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.logger.Info("tracks exported", "path", path, "count", len(tracks))
		return r.writePlain("✓ Exported %s to %s\n", formatter.TrackCount(len(tracks)), path)
	}

	_, err = r.output.Write(data)
	return err
}

// lookupPlaylist finds the playlist's metadata in the first page of playlists.
//
// Exports only need it for their heading, so a failed lookup falls back to the bare ID.
func (r *Runner) lookupPlaylist(ctx context.Context, id string) models.Playlist {
	playlists, err := r.service.Playlists(ctx, 50)
	if err != nil {
		r.logger.Debug("playlist lookup failed", "id", id, "error", err)
		return models.Playlist{ID: id, Name: id}
	}
	for _, p := range playlists {
		if p.ID == id {
			return p
		}
	}
	return models.Playlist{ID: id, Name: id}
}
