package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/desertthunder/spotui/internal/formatter"
	"github.com/desertthunder/spotui/internal/models"
)

// barState is everything the playback bar shows. It is replaced as a unit.
type barState struct {
	label    string
	total    int
	progress int
	playing  bool
	device   string
	fraction float64
}

// PlaybackBar renders the now-playing line and a progress bar.
type PlaybackBar struct {
	state barState
	bar   progress.Model
	width int
}

func NewPlaybackBar() PlaybackBar {
	return PlaybackBar{
		state: barState{label: "Connecting…"},
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Apply replaces the bar with snap and reports whether anything changed.
//
// An active snapshot always applies. An idle one applies only when showIdle is set, otherwise the bar keeps its last state.
func (b *PlaybackBar) Apply(snap *models.PlaybackSnapshot, showIdle bool) bool {
	if snap == nil {
		return false
	}
	if !snap.Active() && !showIdle {
		return false
	}

	pos, total := snap.Clamped()
	next := barState{
		label:    formatter.PlaybackLabel(snap),
		total:    total,
		progress: pos,
		playing:  snap.Playing,
		device:   snap.Device,
		fraction: snap.Fraction(),
	}
	if snap.Track == nil {
		next.total, next.progress, next.fraction = 0, 0, 0
	}

	b.state = next
	return true
}

func (b PlaybackBar) Label() string { return b.state.label }
func (b PlaybackBar) Total() int    { return b.state.total }
func (b PlaybackBar) Progress() int { return b.state.progress }
func (b PlaybackBar) Playing() bool { return b.state.playing }

func (b *PlaybackBar) SetWidth(w int) {
	b.width = w
	b.bar.Width = max(w-16, 10)
}

func (b PlaybackBar) View() string {
	label := b.state.label
	if b.state.device != "" {
		label += " on " + b.state.device
	}
	if b.width > 0 {
		label = formatter.Truncate(label, b.width)
	}

	times := formatter.FormatDuration(b.state.progress) + " / " + formatter.FormatDuration(b.state.total)
	return styles.label.Render(label) + "\n" + b.bar.ViewAs(b.state.fraction) + "  " + times
}
