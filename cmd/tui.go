package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/desertthunder/spotui/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.LogPath()
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if cmd.Bool("debug") {
		fileLogger.SetLevel(log.DebugLevel)
	} else {
		shared.SetLogLevel(fileLogger, r.config.Log.Level)
	}

	stderr := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(stderr)

	fileLogger.Info("starting TUI", "service", svc.Name())

	playback := r.config.Playback
	model := ui.NewModel(ctx, svc, ui.Options{
		PollInterval:  playback.PollInterval(),
		PollTimeout:   playback.PollTimeout(),
		ShowIdle:      playback.ShowIdle,
		PlaylistLimit: r.config.Library.PlaylistLimit,
		TrackLimit:    r.config.Library.TrackLimit,
		Logger:        fileLogger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
