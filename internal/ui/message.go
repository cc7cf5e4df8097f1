package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotui/internal/models"
	"github.com/desertthunder/spotui/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgPollTick
	MsgPlaybackPolled
	MsgCommandDone
	MsgNoticeExpired
)

const noticeTTL = 3 * time.Second

type playlistsFetched struct {
	playlists []models.Playlist
	err       error
}

type tracksFetched struct {
	playlistID string
	tracks     []models.Track
	err        error
}

type commandDone struct {
	outcome tasks.Outcome
	err     error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(playlistID string, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksFetched{playlistID, tracks, err}}
}

// pollTickMsg is the constructor for [MsgPollTick]
func pollTickMsg(t time.Time) Msg {
	return Msg{kind: MsgPollTick, data: t}
}

// playbackPolledMsg is the constructor for [MsgPlaybackPolled]
func playbackPolledMsg(r tasks.Result) Msg {
	return Msg{kind: MsgPlaybackPolled, data: r}
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(outcome tasks.Outcome, err error) Msg {
	return Msg{kind: MsgCommandDone, data: commandDone{outcome, err}}
}

// noticeExpiredMsg is the constructor for [MsgNoticeExpired]
func noticeExpiredMsg(id int) Msg {
	return Msg{kind: MsgNoticeExpired, data: id}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return pollTickMsg(t) })
}

func noticeClearCmd(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg(id) })
}
