package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Status prints the current playback. With --watch it polls until interrupted, printing each change.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")

	if !cmd.Bool("watch") {
		snap, err := svc.CurrentPlayback(ctx)
		if err != nil {
			return err
		}
		return r.printStatus(snap, asJSON)
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.Playback.PollInterval()
	}

	syncer := tasks.NewSyncer(svc, r.config.Playback.PollTimeout(), r.logger)
	showIdle := r.config.Playback.ShowIdle

	r.logger.Debug("watching playback", "interval", interval)

	var last string
	syncer.Run(ctx, interval, func(snap *models.PlaybackSnapshot) {
		if !snap.Active() && !showIdle {
			return
		}
		line := formatter.StatusLine(snap)
		if line == last {
			return
		}
		last = line
		r.logger.Debug("playback changed", "seq", syncer.Applied())
		if err := r.printStatus(snap, asJSON); err != nil {
			r.logger.Warn("failed to write status", "error", err)
		}
	})

	return nil
}

func (r *Runner) printStatus(snap *models.PlaybackSnapshot, asJSON bool) error {
	if asJSON {
		return r.writeJSON(snap, false)
	}
	return r.writePlain("%s\n", formatter.StatusLine(snap))
}

// Play resumes playback, or starts the track URI given as an argument.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return r.execute(ctx, tasks.Command{Action: tasks.Resume})
	}
	return r.execute(ctx, tasks.Command{Action: tasks.PlayTrack, Track: models.Track{URI: uri}})
}

// control returns an action sending a single transport command.
func (r *Runner) control(action tasks.Action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return r.execute(ctx, tasks.Command{Action: action})
	}
}

func (r *Runner) execute(ctx context.Context, c tasks.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	outcome, err := tasks.NewControls(svc).Execute(ctx, c)
	if err != nil {
		return err
	}

	r.logger.Debug("command sent", "action", c.Action, "sent", outcome.Sent)

	msg := outcome.Message
	if msg == "" {
		msg = fmt.Sprintf("Sent %s", outcome.Sent)
	}
	return r.writePlain("✓ %s\n", msg)
}

// Devices lists Spotify Connect devices; the active one is starred.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.requireService()
	if err != nil {
		return err
	}

	devices, err := svc.Devices(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, false)
	}

	if len(devices) == 0 {
		return r.writePlain("No devices found. Open Spotify on a device and try again.\n")
	}

	for _, d := range devices {
		if err := r.writePlain("%s\n", formatter.DeviceLine(d)); err != nil {
			return err
		}
	}
	return nil
}
