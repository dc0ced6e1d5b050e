package tail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/auralyn/internal/core"
)

func snap(songID string, opts ...func(*core.Snapshot)) *core.Snapshot {
	s := &core.Snapshot{
		Queue: core.NewQueue(),
		State: core.PlaybackState{Volume: 0.5},
		Mode:  core.PlaybackMode{Repeat: core.RepeatOff},
	}
	if songID != "" {
		song := core.Song{ID: songID, Name: "Song " + songID, Artist: "Artist"}
		s.State.Song = &song
		s.Queue.Songs = []core.Song{song}
		s.Queue.CurrentIndex = 0
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func eventTypes(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		prev *core.Snapshot
		curr *core.Snapshot
		want []EventType
	}{
		{"first poll with song", nil, snap("a"), []EventType{EventTrackChange}},
		{"first poll empty", nil, snap(""), nil},
		{"no change", snap("a"), snap("a"), nil},
		{"song change", snap("a"), snap("b"), []EventType{EventTrackChange, EventQueueChange}},
		{"stopped", snap("a"), snap("", func(s *core.Snapshot) { s.Queue.Songs = []core.Song{{ID: "a"}} }), []EventType{EventTrackChange}},
		{
			"pause",
			snap("a", func(s *core.Snapshot) { s.State.IsPlaying = true }),
			snap("a"),
			[]EventType{EventPause},
		},
		{
			"resume",
			snap("a"),
			snap("a", func(s *core.Snapshot) { s.State.IsPlaying = true }),
			[]EventType{EventResume},
		},
		{"volume", snap("a"), snap("a", func(s *core.Snapshot) { s.State.Volume = 0.8 }), []EventType{EventVolumeChange}},
		{"mute", snap("a"), snap("a", func(s *core.Snapshot) { s.State.Muted = true }), []EventType{EventMuteChange}},
		{"mode", snap("a"), snap("a", func(s *core.Snapshot) { s.Mode.Repeat = core.RepeatAll }), []EventType{EventModeChange}},
		{
			"queue grows",
			snap("a"),
			snap("a", func(s *core.Snapshot) { s.Queue.Songs = append(s.Queue.Songs, core.Song{ID: "b"}) }),
			[]EventType{EventQueueChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eventTypes(diffSnapshots(tt.prev, tt.curr, now))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("events = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

type scriptedSource struct {
	mu    sync.Mutex
	snaps []*core.Snapshot
	i     int
}

func (s *scriptedSource) Snapshot(context.Context) (*core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.i >= len(s.snaps) {
		return s.snaps[len(s.snaps)-1], nil
	}
	snap := s.snaps[s.i]
	s.i++
	if snap == nil {
		return nil, errors.New("store unavailable")
	}
	return snap, nil
}

func TestWatcherEmitsChanges(t *testing.T) {
	src := &scriptedSource{snaps: []*core.Snapshot{
		snap("a"),
		nil,
		snap("b"),
	}}
	w := NewWatcher(src, 5*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	var got []Event
	for e := range w.Events() {
		got = append(got, e)
		if len(got) == 3 {
			w.Stop()
		}
	}

	types := eventTypes(got)
	want := []EventType{EventTrackChange, EventTrackChange, EventQueueChange}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	if got[1].Current.State.Song.ID != "b" || got[1].Previous.State.Song.ID != "a" {
		t.Errorf("track change = %+v", got[1])
	}
}

type stubPlayer struct {
	core.Player
	snap core.Snapshot
}

func (p stubPlayer) Snapshot() core.Snapshot { return p.snap }

func TestPlayerSource(t *testing.T) {
	src := PlayerSource{Player: stubPlayer{snap: *snap("a")}}
	got, err := src.Snapshot(context.Background())
	if err != nil || got.State.Song.ID != "a" {
		t.Errorf("Snapshot() = %+v, %v", got, err)
	}
}

func TestFormatterLines(t *testing.T) {
	curr := snap("a", func(s *core.Snapshot) {
		s.State.Volume = 0.42
		s.Mode.Shuffle = true
	})
	tests := []struct {
		typ  EventType
		curr *core.Snapshot
		want string
	}{
		{EventTrackChange, curr, "Now playing: Artist - Song a"},
		{EventTrackChange, snap(""), "Stopped"},
		{EventPause, curr, "Paused"},
		{EventVolumeChange, curr, "Volume: 42%"},
		{EventMuteChange, curr, "Unmuted"},
		{EventModeChange, curr, "Shuffle: on, repeat: off"},
		{EventQueueChange, curr, "Queue: 1 songs"},
	}

	f := NewFormatter(WithEmoji(false))
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := f.Format(Event{Type: tt.typ, Current: tt.curr}); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatterTimestampAndEmoji(t *testing.T) {
	ts := time.Date(2026, 1, 2, 13, 4, 5, 0, time.Local)
	f := NewFormatter(WithTimestamp(true))
	got := f.Format(Event{Type: EventPause, Timestamp: ts, Current: snap("a")})
	if !strings.HasPrefix(got, "13:04:05 ⏸️ ") {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatterTemplate(t *testing.T) {
	f := NewFormatter(WithTemplate("{{.Type}}|{{.Title}}|{{.Volume}}|{{.Repeat}}|{{.QueueLen}}"))
	got := f.Format(Event{Type: EventTrackChange, Current: snap("a")})
	if got != "track_change|Song a|50|off|1" {
		t.Errorf("Format() = %q", got)
	}

	if err := ParseTemplate("{{.Title"); err == nil {
		t.Error("ParseTemplate() should reject an unterminated action")
	}
	bad := NewFormatter(WithEmoji(false), WithTemplate("{{.Title"))
	if got := bad.Format(Event{Type: EventPause}); got != "Paused" {
		t.Errorf("bad template should fall back to line format, got %q", got)
	}
}
