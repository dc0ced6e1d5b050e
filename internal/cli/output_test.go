package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tessro/auralyn/internal/core"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{-5, "0:00"},
		{0, "0:00"},
		{65, "1:05"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(5, 10, 4); got != "━━──" {
		t.Errorf("FormatProgress() = %q", got)
	}
	if got := FormatProgress(5, 0, 3); got != "───" {
		t.Errorf("FormatProgress() with no total = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdefgh", 6); got != "abc..." {
		t.Errorf("TruncateString() = %q", got)
	}
	if got := TruncateString("abc", 6); got != "abc" {
		t.Errorf("TruncateString() = %q", got)
	}
}

func TestFormatVolume(t *testing.T) {
	if got := FormatVolume(0.42); got != "42%" {
		t.Errorf("FormatVolume() = %q", got)
	}
	if got := FormatVolume(1); got != "100%" {
		t.Errorf("FormatVolume() = %q", got)
	}
}

func TestWriteSongs(t *testing.T) {
	var buf bytes.Buffer
	writeSongs(&buf, []core.Song{
		{ID: "a1", Name: "First", Artist: "X", Duration: 61},
		{ID: "b2", Name: "Second", Artist: "Y"},
	}, 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "First") || !strings.Contains(lines[1], "1:01") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "▶") || !strings.Contains(lines[2], "b2") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestSongTitle(t *testing.T) {
	if got := songTitle(core.Song{Name: "N"}); got != "N" {
		t.Errorf("songTitle() = %q", got)
	}
	if got := songTitle(core.Song{Name: "N", Artist: "A"}); got != "A - N" {
		t.Errorf("songTitle() = %q", got)
	}
}
