package tasks

import (
	"fmt"

	"github.com/desertthunder/spotui/internal/models"
)

// Action enumerates the transport controls.
type Action int

const (
	Toggle Action = iota
	Next
	Previous
	PlayTrack
	Pause
	Resume
)

func (a Action) String() string {
	switch a {
	case Toggle:
		return "toggle"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case PlayTrack:
		return "play_track"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	default:
		return ""
	}
}

// Command is one queued transport control. Track is only read for [PlayTrack].
type Command struct {
	Action Action
	Track  models.Track
}

// Outcome reports what a [Command] did once it succeeded.
type Outcome struct {
	Command Command
	Sent    Action // Action actually sent; Toggle resolves to Pause or Resume
	Message string // Human-readable message for display, empty when nothing is worth announcing
}

func toggledOutcome(cmd Command, sent Action) Outcome {
	msg := "Paused"
	if sent == Resume {
		msg = "Resumed"
	}
	return Outcome{Command: cmd, Sent: sent, Message: msg}
}

func playTrackOutcome(cmd Command) Outcome {
	return Outcome{Command: cmd, Sent: PlayTrack, Message: "Playback started!"}
}

func skipOutcome(cmd Command) Outcome {
	return Outcome{Command: cmd, Sent: cmd.Action}
}

func commandFailed(cmd Command, err error) error {
	return fmt.Errorf("%s: %w", cmd.Action, err)
}
