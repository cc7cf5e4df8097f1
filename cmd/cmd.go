// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotui/internal/shared"
	"github.com/desertthunder/spotui/internal/tasks"
	"github.com/urfave/cli/v3"
)

// newApp builds the root command. With no subcommand it launches the TUI.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotui",
		Usage:    "Browse Spotify playlists and control playback from the terminal",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   r.Before,
		Action:   r.TUI,
		Commands: r.register(),
		Writer:   r.output,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   shared.DefaultConfigPath(),
			Sources: cli.EnvVars("SPOTUI_CONFIG"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.StringFlag{
			Name:    "client-id",
			Usage:   "Spotify application client ID",
			Sources: cli.EnvVars("SPOTIFY_CLIENT_ID", "SPOTIPY_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:    "client-secret",
			Usage:   "Spotify application client secret",
			Sources: cli.EnvVars("SPOTIFY_CLIENT_SECRET", "SPOTIPY_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:    "redirect-uri",
			Usage:   "OAuth2 redirect URI registered for the application",
			Sources: cli.EnvVars("SPOTIFY_REDIRECT_URI", "SPOTIPY_REDIRECT_URI"),
		},
	}
}

// authCommand runs the OAuth2 authorization code flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in to Spotify and save the tokens to the config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
		},
		Action: r.Auth,
	}
}

// configCommand manages the config file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration to the config path",
				Action: r.ConfigInit,
			},
			{
				Name:   "path",
				Usage:  "Print the config path in use",
				Action: r.ConfigPath,
			},
		},
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List the first page of your playlists",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return (1-50, default from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List or export the first page of a playlist's tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks to return (1-100, default from config)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, csv, markdown or json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: r.Tracks,
	}
}

// playerCommand groups playback status and transport controls
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Playback status and controls",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show what is playing",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Keep polling and print each change",
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Poll interval for --watch (default from config)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.Status,
			},
			{
				Name:  "play",
				Usage: "Resume playback, or play a track URI",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uri"},
				},
				Action: r.Play,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.control(tasks.Pause),
			},
			{
				Name:   "toggle",
				Usage:  "Pause when playing, resume otherwise",
				Action: r.control(tasks.Toggle),
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Action: r.control(tasks.Next),
			},
			{
				Name:    "previous",
				Aliases: []string{"prev"},
				Usage:   "Go back to the previous track",
				Action:  r.control(tasks.Previous),
			},
			{
				Name:  "devices",
				Usage: "List Spotify Connect devices",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.Devices,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive TUI",
		Action:  r.TUI,
	}
}
