package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotui/internal/services"
	"github.com/desertthunder/spotui/internal/shared"
)

// Controls issues transport commands. Every method sends at most one command and surfaces its error.
type Controls struct {
	player services.Player
}

func NewControls(player services.Player) *Controls {
	return &Controls{player: player}
}

// Toggle pauses when the remote player is playing and resumes otherwise.
//
// The state is read once; a failed read sends nothing.
func (c *Controls) Toggle(ctx context.Context) (Action, error) {
	snap, err := c.player.CurrentPlayback(ctx)
	if err != nil {
		return Toggle, err
	}

	if snap != nil && snap.Playing {
		return Pause, c.player.Pause(ctx)
	}
	return Resume, c.player.Play(ctx)
}

func (c *Controls) Next(ctx context.Context) error {
	return c.player.Next(ctx)
}

func (c *Controls) Previous(ctx context.Context) error {
	return c.player.Previous(ctx)
}

// PlayTrack starts playback of uri on the active device.
func (c *Controls) PlayTrack(ctx context.Context, uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: track has no uri", shared.ErrInvalidInput)
	}
	return c.player.PlayTrack(ctx, uri)
}

// Execute dispatches cmd.
func (c *Controls) Execute(ctx context.Context, cmd Command) (Outcome, error) {
	switch cmd.Action {
	case Toggle:
		sent, err := c.Toggle(ctx)
		if err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return toggledOutcome(cmd, sent), nil
	case Pause:
		if err := c.player.Pause(ctx); err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return toggledOutcome(cmd, Pause), nil
	case Resume:
		if err := c.player.Play(ctx); err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return toggledOutcome(cmd, Resume), nil
	case Next:
		if err := c.Next(ctx); err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return skipOutcome(cmd), nil
	case Previous:
		if err := c.Previous(ctx); err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return skipOutcome(cmd), nil
	case PlayTrack:
		if err := c.PlayTrack(ctx, cmd.Track.URI); err != nil {
			return Outcome{}, commandFailed(cmd, err)
		}
		return playTrackOutcome(cmd), nil
	default:
		return Outcome{}, fmt.Errorf("%w: unknown action %d", shared.ErrInvalidArgument, cmd.Action)
	}
}
