package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/tui/styles"
)

// Trending displays one curated list and lets the user pick from it.
type Trending struct {
	selected int
}

// NewTrending creates a new Trending component
func NewTrending() *Trending {
	return &Trending{}
}

// SelectNext moves the selection down, clamped to n entries.
func (t *Trending) SelectNext(n int) {
	if t.selected < n-1 {
		t.selected++
	}
}

// SelectPrev moves the selection up.
func (t *Trending) SelectPrev() {
	if t.selected > 0 {
		t.selected--
	}
}

// Selected returns the selected index
func (t *Trending) Selected() int {
	return t.selected
}

// Reset moves the selection back to the top.
func (t *Trending) Reset() {
	t.selected = 0
}

// Render renders the trending panel for kind.
func (t *Trending) Render(kind string, songs []core.Song, loading bool, width, height int, focused bool) string {
	title := styles.PanelTitle("Trending: "+kind, focused)

	var content string
	switch {
	case loading:
		content = styles.Muted.Render("Loading...")
	case len(songs) == 0:
		content = styles.Muted.Render("Nothing trending")
	default:
		content = t.renderSongs(songs, width-4, height-4, focused)
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

func (t *Trending) renderSongs(songs []core.Song, width, maxLines int, focused bool) string {
	if t.selected >= len(songs) {
		t.selected = len(songs) - 1
	}

	start := 0
	if t.selected >= maxLines {
		start = t.selected - maxLines + 1
	}

	lines := make([]string, 0, maxLines)
	for i := start; i < len(songs) && i < start+maxLines; i++ {
		title, artist := fitSong(songs[i].Name, songs[i].Artist, width-7, 8)
		line := fmt.Sprintf("%s %s — %s",
			styles.Dim.Render(fmt.Sprintf("%2d.", i+1)),
			title,
			styles.Muted.Render(artist))
		if focused && i == t.selected {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
