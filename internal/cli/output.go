package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tessro/auralyn/internal/core"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v as one JSON document on stdout.
func printJSON(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

// StatusIcon returns an icon for a playback status.
func StatusIcon(status core.PlayStatus) string {
	switch status {
	case core.StatusPlaying:
		return "▶"
	case core.StatusPaused:
		return "⏸"
	case core.StatusLoading:
		return "…"
	default:
		return "⏹"
	}
}

// TruncateString truncates a string to maxLen, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatDuration formats a duration in seconds as mm:ss or hh:mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress formats a progress bar.
func FormatProgress(current, total int, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// FormatVolume renders a 0..1 level as a percentage.
func FormatVolume(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

// nonNil keeps JSON output an array when there are no songs.
func nonNil(songs []core.Song) []core.Song {
	if songs == nil {
		return []core.Song{}
	}
	return songs
}

// songTitle is "Artist - Name", or just the name.
func songTitle(s core.Song) string {
	if s.Artist == "" {
		return s.Name
	}
	return fmt.Sprintf("%s - %s", s.Artist, s.Name)
}

// writeSongs renders songs as a numbered table, marking index current.
func writeSongs(out io.Writer, songs []core.Song, current int) {
	t := NewTableWriter(out, "#", "", "TITLE", "ARTIST", "TIME", "ID")
	for i, s := range songs {
		marker := ""
		if i == current {
			marker = "▶"
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			marker,
			TruncateString(s.Name, 40),
			TruncateString(s.Artist, 30),
			FormatDuration(s.Duration),
			s.ID,
		)
	}
	t.Flush()
}
