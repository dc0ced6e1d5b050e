package components

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/tui/styles"
)

// NowPlaying displays the loaded song, progress and modes.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(snap *core.Snapshot, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if snap == nil || !snap.State.HasSong() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing playing"),
			"",
			n.renderModes(snap),
		)
	} else {
		content = n.renderSong(snap, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderSong(snap *core.Snapshot, width int) string {
	state := snap.State
	song := state.Song

	icon := styles.StatusIcon(state.Status.String())
	title := styles.Title.Width(width - 4).Render(truncate(song.Name, width-4))
	artist := styles.Subtitle.Render(truncate(song.Artist, width-2))
	album := styles.Dim.Render(truncate(song.Album, width-2))

	progressWidth := width - 14 // times on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	progressBar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(state.Position),
		progressBar,
		formatDuration(state.Duration))

	lines := []string{
		icon + " " + title,
		"  " + artist,
	}
	if song.Album != "" {
		lines = append(lines, "  "+album)
	}
	lines = append(lines, "", progress, "", n.renderModes(snap))
	if state.Status == core.StatusLoading {
		lines = append(lines, styles.Dim.Render("Loading..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *NowPlaying) renderModes(snap *core.Snapshot) string {
	if snap == nil {
		return ""
	}

	volume := fmt.Sprintf("🔊 %d%%", int(math.Round(snap.State.Volume*100)))
	if snap.State.Muted {
		volume = "🔇 muted"
	}

	repeat := "repeat"
	switch snap.Mode.Repeat {
	case core.RepeatAll:
		repeat = "repeat all"
	case core.RepeatOne:
		repeat = "repeat one"
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Toggle("shuffle", snap.Mode.Shuffle),
		"  ",
		styles.Toggle(repeat, snap.Mode.Repeat != core.RepeatOff),
		"  ",
		styles.Muted.Render(volume),
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
