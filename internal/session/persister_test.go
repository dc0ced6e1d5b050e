package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tessro/auralyn/internal/core"
)

type countingStore struct {
	*MemoryStore
	sets    map[string]int
	failSet bool
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore(), sets: map[string]int{}}
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	if c.failSet {
		return errors.New("quota exceeded")
	}
	c.sets[key]++
	return c.MemoryStore.Set(ctx, key, value)
}

func sampleState() State {
	a := core.Song{ID: "a", Name: "Alpha", Duration: 180, URL: "https://cdn.example/a.mp3"}
	b := core.Song{ID: "b", Name: "Beta", DownloadURLs: []core.MediaURL{{Quality: "320kbps", URL: "https://cdn.example/b.mp4"}}}
	played := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return State{
		Queue:      []core.Song{a, b},
		QueueIndex: 1,
		Current:    &b,
		Shuffle:    true,
		Repeat:     core.RepeatAll,
		Volume:     0.35,
		Muted:      true,
		History:    []core.HistoryEntry{{Song: b, PlayedAt: played}, {Song: a, PlayedAt: played.Add(-time.Minute)}},
	}
}

func TestPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(NewMemoryStore(), DefaultDefaults(), nil)

	want := sampleState()
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := NewPersister(p.Store(), DefaultDefaults(), nil).Load(ctx)

	if len(got.Queue) != 2 || got.Queue[0].ID != "a" || got.Queue[1].ID != "b" {
		t.Errorf("Queue = %+v", got.Queue)
	}
	if got.Queue[1].DownloadURLs[0].URL != "https://cdn.example/b.mp4" {
		t.Errorf("DownloadURLs not preserved: %+v", got.Queue[1].DownloadURLs)
	}
	if got.QueueIndex != 1 {
		t.Errorf("QueueIndex = %d, want 1", got.QueueIndex)
	}
	if got.Current == nil || got.Current.ID != "b" {
		t.Errorf("Current = %v, want b", got.Current)
	}
	if !got.Shuffle || got.Repeat != core.RepeatAll {
		t.Errorf("mode = %v/%q, want true/all", got.Shuffle, got.Repeat)
	}
	if got.Volume != 0.35 || !got.Muted {
		t.Errorf("volume = %v muted = %v, want 0.35 true", got.Volume, got.Muted)
	}
	if len(got.History) != 2 || !got.History[0].PlayedAt.Equal(want.History[0].PlayedAt) {
		t.Errorf("History = %+v", got.History)
	}
}

func TestPersisterDefaultsWhenEmpty(t *testing.T) {
	got := NewPersister(NewMemoryStore(), Defaults{Volume: 0.5, Repeat: core.RepeatOne}, nil).Load(context.Background())

	if len(got.Queue) != 0 || got.QueueIndex != core.NoCursor || got.Current != nil {
		t.Errorf("queue state = %+v", got)
	}
	if got.Volume != 0.5 {
		t.Errorf("Volume = %v, want 0.5", got.Volume)
	}
	if got.Repeat != core.RepeatOne {
		t.Errorf("Repeat = %q, want one", got.Repeat)
	}
}

func TestPersisterCorruptKeyFallsBackIndependently(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewPersister(store, DefaultDefaults(), nil)
	if err := p.Save(ctx, sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_ = store.Set(ctx, KeyVolume, []byte(`"loud"`))
	_ = store.Set(ctx, KeyRepeat, []byte(`"sometimes"`))
	_ = store.Set(ctx, KeyQueueIndex, []byte(`42`))

	got := NewPersister(store, DefaultDefaults(), nil).Load(ctx)

	if got.Volume != 0.7 {
		t.Errorf("Volume = %v, want default 0.7", got.Volume)
	}
	if got.Repeat != core.RepeatOff {
		t.Errorf("Repeat = %q, want default off", got.Repeat)
	}
	if !got.Shuffle || !got.Muted {
		t.Error("unrelated keys should survive a corrupt neighbour")
	}
	// Out of range index is recovered from the stored current song.
	if got.QueueIndex != 1 || got.Current == nil || got.Current.ID != "b" {
		t.Errorf("cursor = %d current = %v, want 1/b", got.QueueIndex, got.Current)
	}
}

func TestPersisterDropsCursorForUnknownSong(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, KeyQueue, []byte(`[{"id":"a","name":"A","artist":"","duration":0},{"id":"a","name":"dup","artist":"","duration":0}]`))
	_ = store.Set(ctx, KeyQueueIndex, []byte(`5`))
	_ = store.Set(ctx, KeyCurrentSong, []byte(`{"id":"zz","name":"Gone","artist":"","duration":0}`))

	got := NewPersister(store, DefaultDefaults(), nil).Load(ctx)
	if len(got.Queue) != 1 {
		t.Errorf("Queue len = %d, want 1 after dedupe", len(got.Queue))
	}
	if got.QueueIndex != core.NoCursor || got.Current != nil {
		t.Errorf("cursor = %d current = %v, want none", got.QueueIndex, got.Current)
	}
}

func TestPersisterSkipsUnchangedKeys(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	p := NewPersister(store, DefaultDefaults(), nil)

	st := sampleState()
	if err := p.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	st.Volume = 0.9
	if err := p.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if store.sets[KeyVolume] != 2 {
		t.Errorf("volume writes = %d, want 2", store.sets[KeyVolume])
	}
	if store.sets[KeyQueue] != 1 {
		t.Errorf("queue writes = %d, want 1", store.sets[KeyQueue])
	}
}

func TestPersisterSaveReportsStorageFailure(t *testing.T) {
	store := newCountingStore()
	store.failSet = true
	p := NewPersister(store, DefaultDefaults(), nil)

	if err := p.Save(context.Background(), sampleState()); err == nil {
		t.Error("Save() error = nil, want storage failure")
	}
}

func TestPersisterSnapshot(t *testing.T) {
	ctx := context.Background()
	p := NewPersister(NewMemoryStore(), DefaultDefaults(), nil)
	if err := p.Save(ctx, sampleState()); err != nil {
		t.Fatal(err)
	}

	snap, err := p.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !snap.State.HasSong() || snap.State.Song.ID != "b" {
		t.Errorf("Snapshot song = %v, want b", snap.State.Song)
	}
	if snap.Queue.Len() != 2 || snap.Queue.CurrentIndex != 1 {
		t.Errorf("Snapshot queue = %+v", snap.Queue)
	}
}
