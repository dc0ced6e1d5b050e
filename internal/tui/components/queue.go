package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/tui/styles"
)

// Queue displays the play queue with a selection cursor.
type Queue struct {
	offset   int
	selected int
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// SelectNext moves the selection down, clamped to n entries.
func (q *Queue) SelectNext(n int) {
	if q.selected < n-1 {
		q.selected++
	}
}

// SelectPrev moves the selection up.
func (q *Queue) SelectPrev() {
	if q.selected > 0 {
		q.selected--
	}
}

// Selected returns the selected index
func (q *Queue) Selected() int {
	return q.selected
}

// Clamp keeps the selection inside a queue of n entries.
func (q *Queue) Clamp(n int) {
	if q.selected >= n {
		q.selected = n - 1
	}
	if q.selected < 0 {
		q.selected = 0
	}
}

// Render renders the queue panel
func (q *Queue) Render(queue *core.Queue, width, height int, focused bool) string {
	label := "Queue"
	if queue != nil && !queue.IsEmpty() {
		label = fmt.Sprintf("Queue (%d)", queue.Len())
	}
	title := styles.PanelTitle(label, focused)

	var content string
	if queue == nil || queue.IsEmpty() {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(queue, width-4, height-4, focused)
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

func (q *Queue) renderQueue(queue *core.Queue, width, maxLines int, focused bool) string {
	songs := queue.Songs
	q.Clamp(len(songs))

	visibleCount := maxLines - 1 // room for the "more" line
	if visibleCount < 1 {
		visibleCount = 1
	}

	// Keep the selection on screen
	if q.selected < q.offset {
		q.offset = q.selected
	}
	if q.selected >= q.offset+visibleCount {
		q.offset = q.selected - visibleCount + 1
	}
	if q.offset >= len(songs) {
		q.offset = 0
	}

	start := q.offset
	end := start + visibleCount
	if end > len(songs) {
		end = len(songs)
	}

	lines := make([]string, 0, end-start+1)

	// "XX. " (4) + "▶ " or "  " (2) + " — " (3)
	const overhead = 9

	for i := start; i < end; i++ {
		song := songs[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fitSong(song.Name, song.Artist, width-overhead, 10)

		var line string
		if i == queue.CurrentIndex {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist))
		} else {
			line = fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(artist))
		}
		if focused && i == q.selected {
			line = styles.Selected.Render(line)
		}

		lines = append(lines, line)
	}

	if end < len(songs) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(songs)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fitSong truncates title and artist to share available columns, giving
// the artist at least a third (and minArtist) of the space.
func fitSong(title, artist string, available, minArtist int) (string, string) {
	if len(title)+len(artist) <= available {
		return title, artist
	}

	artistMin := available / 3
	if artistMin < minArtist {
		artistMin = minArtist
	}
	if artistMin > available-minArtist {
		artistMin = available - minArtist
	}

	artistSpace := artistMin
	if len(artist) < artistSpace {
		artistSpace = len(artist)
	}
	titleSpace := available - artistSpace

	return truncate(title, titleSpace), truncate(artist, artistSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
