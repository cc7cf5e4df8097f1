package ui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/services"
	"github.com/desertthunder/spotui/internal/tasks"
)

// focusArea is the pane receiving navigation keys.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusTracks
)

type notice struct {
	id    int
	text  string
	isErr bool
}

// Options configures a [Model].
type Options struct {
	PollInterval  time.Duration
	PollTimeout   time.Duration
	ShowIdle      bool // Show paused/idle state instead of freezing the last playing track
	PlaylistLimit int
	TrackLimit    int
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	service  services.Service
	syncer   *tasks.Syncer
	controls *tasks.Controls
	opts     Options
	logger   *log.Logger

	selection Selection
	sidebar   list.Model
	tracks    table.Model
	columns   []table.Column
	bar       PlaybackBar
	help      help.Model
	keys      keyMap
	focus     focusArea

	queue   []tasks.Command
	running bool

	notice    notice
	noticeSeq int

	width  int
	height int
}

// NewModel creates a new TUI model backed by service.
func NewModel(ctx context.Context, service services.Service, opts Options) *Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = tasks.DefaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sidebar := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sidebar.Title = "My Playlists"
	sidebar.SetShowHelp(false)
	sidebar.SetStatusBarItemName("playlist", "playlists")
	sidebar.DisableQuitKeybindings()

	columns := trackColumns(80)
	tracks := table.New(table.WithColumns(columns), table.WithHeight(10), table.WithFocused(false))

	return &Model{
		ctx:      ctx,
		service:  service,
		syncer:   tasks.NewSyncer(service, opts.PollTimeout, logger),
		controls: tasks.NewControls(service),
		opts:     opts,
		logger:   logger,
		sidebar:  sidebar,
		tracks:   tracks,
		columns:  columns,
		bar:      NewPlaybackBar(),
		help:     help.New(),
		keys:     newKeyMap(),
		focus:    focusSidebar,
	}
}

// Init fetches playlists, polls playback immediately, and starts the poll ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPlaylists(), m.poll(false), tickCmd(m.opts.PollInterval))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeys(msg)
	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.logger.Error("failed to load playlists", "err", data.err)
			return m, m.notify(formatter.DescribeError(data.err), true)
		}
		m.selection.SetPlaylists(data.playlists)
		return m, m.sidebar.SetItems(playlistItems(data.playlists))

	case MsgTracksFetched:
		data := msg.data.(tracksFetched)
		if data.playlistID != m.selection.Pending() {
			m.logger.Debug("dropping stale track fetch", "playlist", data.playlistID, "pending", m.selection.Pending())
			return m, nil
		}
		if data.err != nil {
			m.logger.Error("failed to load tracks", "playlist", data.playlistID, "err", data.err)
			return m, m.notify(formatter.DescribeError(data.err), true)
		}
		m.selection.SetTracks(data.playlistID, data.tracks)
		m.tracks.SetRows(trackRows(m.selection.Tracks(), m.columns))
		m.tracks.SetCursor(0)
		m.setFocus(focusTracks)
		return m, nil

	case MsgPollTick:
		return m, tea.Batch(m.poll(false), tickCmd(m.opts.PollInterval))

	case MsgPlaybackPolled:
		r := msg.data.(tasks.Result)
		if m.syncer.Accept(r) {
			m.bar.Apply(r.Snapshot, m.opts.ShowIdle)
		}
		return m, nil

	case MsgCommandDone:
		data := msg.data.(commandDone)
		m.running = false
		cmds := []tea.Cmd{m.dequeue()}
		if data.err != nil {
			m.logger.Warn("playback command failed", "err", data.err)
			cmds = append(cmds, m.notify(formatter.DescribeError(data.err), true))
		} else {
			cmds = append(cmds, m.poll(true))
			if data.outcome.Sent == tasks.PlayTrack {
				cmds = append(cmds, m.notify(data.outcome.Message, false))
			}
		}
		return m, tea.Batch(cmds...)

	case MsgNoticeExpired:
		if id, ok := msg.data.(int); ok && id == m.notice.id {
			m.notice = notice{}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Letters belong to the filter input while it is open.
	if m.focus == focusSidebar && m.sidebar.SettingFilter() {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		return m, m.enqueue(tasks.Command{Action: tasks.Toggle})
	case key.Matches(msg, m.keys.next):
		return m, m.enqueue(tasks.Command{Action: tasks.Next})
	case key.Matches(msg, m.keys.previous):
		return m, m.enqueue(tasks.Command{Action: tasks.Previous})
	case key.Matches(msg, m.keys.focus):
		if m.focus == focusSidebar {
			m.setFocus(focusTracks)
		} else {
			m.setFocus(focusSidebar)
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchPlaylists()
	case key.Matches(msg, m.keys.enter):
		return m, m.selectFocused()
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSidebar:
		m.sidebar, cmd = m.sidebar.Update(msg)
	case focusTracks:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

// selectFocused loads the highlighted playlist or plays the highlighted track. Out-of-range rows do nothing.
func (m *Model) selectFocused() tea.Cmd {
	switch m.focus {
	case focusSidebar:
		p, ok := m.selection.Playlist(m.sidebar.GlobalIndex())
		if !ok {
			return nil
		}
		m.selection.Request(p.ID)
		return m.fetchTracks(p.ID)
	case focusTracks:
		t, ok := m.selection.Track(m.tracks.Cursor())
		if !ok {
			return nil
		}
		return m.enqueue(tasks.Command{Action: tasks.PlayTrack, Track: t})
	}
	return nil
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusTracks {
		m.tracks.Focus()
	} else {
		m.tracks.Blur()
	}
}

// enqueue appends c and starts it when no command is running.
func (m *Model) enqueue(c tasks.Command) tea.Cmd {
	m.queue = append(m.queue, c)
	return m.dequeue()
}

func (m *Model) dequeue() tea.Cmd {
	if m.running || len(m.queue) == 0 {
		return nil
	}

	c := m.queue[0]
	m.queue = m.queue[1:]
	m.running = true

	return func() tea.Msg {
		outcome, err := m.controls.Execute(m.ctx, c)
		return commandDoneMsg(outcome, err)
	}
}

func (m *Model) poll(force bool) tea.Cmd {
	t, ok := m.syncer.Start(m.ctx, force)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return playbackPolledMsg(m.syncer.Fetch(t))
	}
}

func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{id: m.noticeSeq, text: text, isErr: isErr}
	return noticeClearCmd(m.noticeSeq)
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.service.Playlists(m.ctx, m.opts.PlaylistLimit)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.service.PlaylistTracks(m.ctx, playlistID, m.opts.TrackLimit)
		return tracksFetchedMsg(playlistID, tracks, err)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	sidebarWidth := max(width/3, 24)
	tableWidth := max(width-sidebarWidth-4, 30)
	paneHeight := max(height-9, 5)

	m.sidebar.SetSize(sidebarWidth, paneHeight)
	m.columns = trackColumns(tableWidth)
	m.tracks.SetColumns(m.columns)
	m.tracks.SetRows(trackRows(m.selection.Tracks(), m.columns))
	m.tracks.SetWidth(tableWidth)
	m.tracks.SetHeight(paneHeight - 3)
	m.bar.SetWidth(width)
	m.help.Width = width
}

func pane(focused bool) lipgloss.Style {
	if focused {
		return styles.focused
	}
	return styles.blurred
}

// View renders the sidebar and track table side by side above the playback bar, notice line, and help.
func (m *Model) View() string {
	tracks := m.tracks.View()
	if p, ok := m.selection.PlaylistFor(); ok {
		tracks = styles.label.Render(formatter.PlaylistLine(p)) + "\n" + tracks
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		pane(m.focus == focusSidebar).Render(m.sidebar.View()),
		pane(m.focus == focusTracks).Render(tracks),
	)

	var line string
	switch {
	case m.notice.text == "":
	case m.notice.isErr:
		line = styles.err.Render(m.notice.text)
	default:
		line = styles.ok.Render(m.notice.text)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.bar.View(), line, m.help.View(m.keys))
}
