package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/tui/styles"
)

// History displays recently played songs, most recent first.
type History struct {
	now func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Render renders the history panel
func (h *History) Render(entries []core.HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
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

func (h *History) renderHistory(entries []core.HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	// icon (2) + " — " (3) + gap before the time
	const overhead = 6

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := TimeAgo(entry.PlayedAt, h.now())
		title, artist := fitSong(entry.Song.Name, entry.Song.Artist, width-overhead-len(ago), 8)

		info := fmt.Sprintf("%s — %s", title, artist)
		infoLen := len(title) + 3 + len(artist)

		padding := width - 2 - infoLen - len(ago)
		if padding < 1 {
			padding = 1
		}

		line := fmt.Sprintf("%s %s%s%s",
			styles.Dim.Render("✓"),
			info,
			lipgloss.NewStyle().Width(padding).Render(""),
			styles.Dim.Render(ago))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// TimeAgo renders t relative to now, e.g. "3 minutes ago".
func TimeAgo(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
