package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/auralyn/internal/core"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{3 * time.Minute, "3 minutes ago"},
		{2 * time.Hour, "2 hours ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := TimeAgo(now.Add(-tt.ago), now); got != tt.want {
				t.Errorf("TimeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFitSong(t *testing.T) {
	title, artist := fitSong("Short", "Band", 40, 10)
	if title != "Short" || artist != "Band" {
		t.Errorf("fitting line was truncated: %q %q", title, artist)
	}

	title, artist = fitSong(strings.Repeat("t", 50), strings.Repeat("a", 50), 30, 10)
	if len(title)+len(artist) > 30 {
		t.Errorf("fitSong() = %d columns, want <= 30", len(title)+len(artist))
	}
	if !strings.HasSuffix(title, "...") || len(artist) < 10 {
		t.Errorf("fitSong() = %q %q", title, artist)
	}
}

func TestQueueRender(t *testing.T) {
	q := core.NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		q.Add(core.Song{ID: id, Name: "Song " + id, Artist: "Artist"})
	}
	q.CurrentIndex = 1

	view := NewQueue().Render(q, 60, 12, true)
	for _, want := range []string{"Queue (3)", "Song a", "▶ Song b", "Song c"} {
		if !strings.Contains(view, want) {
			t.Errorf("queue view missing %q:\n%s", want, view)
		}
	}

	if empty := NewQueue().Render(core.NewQueue(), 60, 12, false); !strings.Contains(empty, "Queue is empty") {
		t.Errorf("empty queue view:\n%s", empty)
	}
}

func TestQueueSelection(t *testing.T) {
	q := NewQueue()
	q.SelectNext(3)
	q.SelectNext(3)
	q.SelectNext(3)
	if q.Selected() != 2 {
		t.Errorf("Selected() = %d, want 2", q.Selected())
	}
	q.Clamp(1)
	if q.Selected() != 0 {
		t.Errorf("Selected() after Clamp(1) = %d, want 0", q.Selected())
	}
	q.SelectPrev()
	if q.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", q.Selected())
	}
}

func TestNowPlayingRender(t *testing.T) {
	song := core.Song{ID: "a", Name: "Tum Hi Ho", Artist: "Arijit Singh", Album: "Aashiqui 2"}
	snap := &core.Snapshot{
		State: core.PlaybackState{
			Song:     &song,
			Status:   core.StatusPlaying,
			Position: 65 * time.Second,
			Duration: 4 * time.Minute,
			Volume:   0.4,
		},
		Queue: core.NewQueue(),
		Mode:  core.PlaybackMode{Shuffle: true, Repeat: core.RepeatOne},
	}

	view := NewNowPlaying().Render(snap, 70, 14, false)
	for _, want := range []string{"Tum Hi Ho", "Arijit Singh", "1:05", "4:00", "repeat one", "40%"} {
		if !strings.Contains(view, want) {
			t.Errorf("now playing view missing %q:\n%s", want, view)
		}
	}

	snap.State.Muted = true
	if view := NewNowPlaying().Render(snap, 70, 14, false); !strings.Contains(view, "muted") {
		t.Errorf("muted view:\n%s", view)
	}
}

func TestHistoryRender(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistory()
	h.now = func() time.Time { return now }

	entries := []core.HistoryEntry{
		{Song: core.Song{ID: "a", Name: "Latest", Artist: "X"}, PlayedAt: now.Add(-5 * time.Minute)},
		{Song: core.Song{ID: "b", Name: "Older", Artist: "Y"}, PlayedAt: now.Add(-3 * time.Hour)},
	}
	view := h.Render(entries, 70, 10, false)
	for _, want := range []string{"Latest", "5 minutes ago", "Older", "3 hours ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("history view missing %q:\n%s", want, view)
		}
	}
}
