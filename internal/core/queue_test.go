package core

import (
	"testing"
	"time"
)

func songs(ids ...string) []Song {
	out := make([]Song, len(ids))
	for i, id := range ids {
		out[i] = Song{ID: id, Name: "Song " + id}
	}
	return out
}

func TestQueueAddDeduplicates(t *testing.T) {
	q := NewQueue()
	for _, s := range songs("a", "b", "a", "c", "b", "a") {
		q.Add(s)
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		if q.Songs[i].ID != want {
			t.Errorf("Songs[%d].ID = %q, want %q", i, q.Songs[i].ID, want)
		}
	}
	if q.CurrentIndex != NoCursor {
		t.Errorf("CurrentIndex = %d, want %d", q.CurrentIndex, NoCursor)
	}
}

func TestQueueRemoveKeepsCursorValid(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		remove     string
		wantCursor int
		wantIndex  int
	}{
		{"before cursor", 2, "a", 1, 0},
		{"after cursor", 0, "c", 0, 2},
		{"active entry", 1, "b", NoCursor, 1},
		{"missing id", 1, "zz", 1, NoCursor},
		{"no cursor", NoCursor, "b", NoCursor, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Queue{Songs: songs("a", "b", "c"), CurrentIndex: tt.cursor}
			if got := q.Remove(tt.remove); got != tt.wantIndex {
				t.Errorf("Remove() = %d, want %d", got, tt.wantIndex)
			}
			if q.CurrentIndex != tt.wantCursor {
				t.Errorf("CurrentIndex = %d, want %d", q.CurrentIndex, tt.wantCursor)
			}
			if q.CurrentIndex != NoCursor && !q.ValidIndex(q.CurrentIndex) {
				t.Errorf("CurrentIndex %d is dangling (len %d)", q.CurrentIndex, q.Len())
			}
		})
	}
}

func TestQueueRemoveDoesNotAliasClone(t *testing.T) {
	q := &Queue{Songs: songs("a", "b", "c"), CurrentIndex: 0}
	snap := q.Clone()
	q.Remove("a")
	if snap.Songs[0].ID != "a" || snap.Len() != 3 {
		t.Errorf("clone changed after Remove: %+v", snap.Songs)
	}
}

func TestQueueCloneCopiesSongSlices(t *testing.T) {
	q := &Queue{Songs: []Song{{
		ID:           "a",
		Artists:      []string{"One", "Two"},
		DownloadURLs: []MediaURL{{Quality: "320kbps", URL: "https://cdn.example/a.mp3"}},
	}}, CurrentIndex: 0}
	snap := q.Clone()

	q.Songs[0].Artists[0] = "Changed"
	q.Songs[0].DownloadURLs[0].URL = "https://cdn.example/changed.mp3"

	if got := snap.Songs[0].Artists[0]; got != "One" {
		t.Errorf("clone artist = %q, want One", got)
	}
	if got := snap.Songs[0].DownloadURLs[0].URL; got != "https://cdn.example/a.mp3" {
		t.Errorf("clone url = %q", got)
	}
}

func TestQueueCurrentAndUpcoming(t *testing.T) {
	q := &Queue{Songs: songs("a", "b", "c"), CurrentIndex: 1}
	if cur := q.Current(); cur == nil || cur.ID != "b" {
		t.Fatalf("Current() = %v, want b", cur)
	}
	up := q.Upcoming()
	if len(up) != 1 || up[0].ID != "c" {
		t.Errorf("Upcoming() = %v, want [c]", up)
	}

	q.CurrentIndex = NoCursor
	if q.Current() != nil {
		t.Error("Current() should be nil without a cursor")
	}
}

func TestQueueReplaceAndClear(t *testing.T) {
	q := &Queue{Songs: songs("x"), CurrentIndex: 0}
	q.Replace(songs("a", "b", "a"))
	if q.Len() != 2 || q.CurrentIndex != NoCursor {
		t.Errorf("after Replace: len=%d cursor=%d", q.Len(), q.CurrentIndex)
	}
	q.Clear()
	if !q.IsEmpty() || q.CurrentIndex != NoCursor {
		t.Errorf("after Clear: len=%d cursor=%d", q.Len(), q.CurrentIndex)
	}
}

func TestPushHistory(t *testing.T) {
	now := time.Now()
	var h []HistoryEntry
	for i, s := range songs("a", "b", "a") {
		h = PushHistory(h, s, now.Add(time.Duration(i)*time.Second), MaxHistory)
	}
	if len(h) != 2 {
		t.Fatalf("len = %d, want 2", len(h))
	}
	if h[0].Song.ID != "a" || h[1].Song.ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", h[0].Song.ID, h[1].Song.ID)
	}

	h = nil
	for i := 0; i < 30; i++ {
		h = PushHistory(h, Song{ID: string(rune('A' + i))}, now, MaxHistory)
	}
	if len(h) != MaxHistory {
		t.Errorf("len = %d, want %d", len(h), MaxHistory)
	}
	if h[0].Song.ID != string(rune('A'+29)) {
		t.Errorf("most recent = %q, want %q", h[0].Song.ID, string(rune('A'+29)))
	}
}

func TestRepeatModeNext(t *testing.T) {
	r := RepeatOff
	want := []RepeatMode{RepeatAll, RepeatOne, RepeatOff}
	for i, w := range want {
		r = r.Next()
		if r != w {
			t.Errorf("step %d: Next() = %q, want %q", i, r, w)
		}
	}
	if _, err := ParseRepeatMode("track"); err == nil {
		t.Error("ParseRepeatMode(track) should fail")
	}
}
