package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

// Storage keys, one per concern so a bad value only resets its own field.
const (
	KeyQueue       = "auralyn_queue"
	KeyQueueIndex  = "auralyn_queue_index"
	KeyCurrentSong = "auralyn_current_song"
	KeyShuffle     = "auralyn_shuffle"
	KeyRepeat      = "auralyn_repeat"
	KeyVolume      = "auralyn_volume"
	KeyMuted       = "auralyn_muted"
	KeyHistory     = "auralyn:recently-played"
)

// State is the durable subset of player state.
type State struct {
	Queue      []core.Song
	QueueIndex int
	Current    *core.Song
	Shuffle    bool
	Repeat     core.RepeatMode
	Volume     float64
	Muted      bool
	History    []core.HistoryEntry
}

// Defaults are used for any key that is absent or unreadable.
type Defaults struct {
	Volume      float64
	Shuffle     bool
	Repeat      core.RepeatMode
	HistorySize int
}

// DefaultDefaults mirrors the shipped config.
func DefaultDefaults() Defaults {
	return Defaults{Volume: 0.7, Repeat: core.RepeatOff, HistorySize: core.MaxHistory}
}

// Persister maps State onto a Store. It remembers the last bytes written per
// key and skips writes that would not change anything.
type Persister struct {
	store    Store
	defaults Defaults
	log      *zap.Logger

	mu   sync.Mutex
	last map[string][]byte
}

// NewPersister creates a persister over store.
func NewPersister(store Store, defaults Defaults, log *zap.Logger) *Persister {
	if log == nil {
		log = zap.NewNop()
	}
	if !defaults.Repeat.Valid() {
		defaults.Repeat = core.RepeatOff
	}
	if defaults.HistorySize <= 0 {
		defaults.HistorySize = core.MaxHistory
	}
	return &Persister{
		store:    store,
		defaults: defaults,
		log:      log.Named("session"),
		last:     make(map[string][]byte),
	}
}

// Store returns the underlying store.
func (p *Persister) Store() Store {
	return p.store
}

// Load reads every key independently and never fails; missing or corrupt
// values fall back to their defaults.
func (p *Persister) Load(ctx context.Context) State {
	st := State{
		QueueIndex: core.NoCursor,
		Shuffle:    p.defaults.Shuffle,
		Repeat:     p.defaults.Repeat,
		Volume:     p.defaults.Volume,
	}

	var queue []core.Song
	if p.read(ctx, KeyQueue, &queue) {
		st.Queue = core.Dedupe(queue)
	}

	var shuffle bool
	if p.read(ctx, KeyShuffle, &shuffle) {
		st.Shuffle = shuffle
	}

	var repeat core.RepeatMode
	if p.read(ctx, KeyRepeat, &repeat) {
		if repeat.Valid() {
			st.Repeat = repeat
		} else {
			p.log.Warn("ignoring stored repeat mode", zap.String("repeat", string(repeat)))
		}
	}

	var volume float64
	if p.read(ctx, KeyVolume, &volume) {
		if volume >= 0 && volume <= 1 && !math.IsNaN(volume) {
			st.Volume = volume
		} else {
			p.log.Warn("ignoring stored volume", zap.Float64("volume", volume))
		}
	}

	var muted bool
	if p.read(ctx, KeyMuted, &muted) {
		st.Muted = muted
	}

	var history []core.HistoryEntry
	if p.read(ctx, KeyHistory, &history) {
		st.History = trimHistory(history, p.defaults.HistorySize)
	}

	// The cursor and current song are only meaningful against the queue.
	var index int
	q := &core.Queue{Songs: st.Queue, CurrentIndex: core.NoCursor}
	if p.read(ctx, KeyQueueIndex, &index) && q.ValidIndex(index) {
		q.CurrentIndex = index
	}
	var current *core.Song
	if p.read(ctx, KeyCurrentSong, &current) && current != nil {
		if cur := q.Current(); cur == nil || cur.ID != current.ID {
			q.CurrentIndex = q.IndexOf(current.ID)
		}
	}
	st.QueueIndex = q.CurrentIndex
	if cur := q.Current(); cur != nil {
		song := *cur
		st.Current = &song
	}

	return st
}

func trimHistory(entries []core.HistoryEntry, limit int) []core.HistoryEntry {
	var out []core.HistoryEntry
	for i := len(entries) - 1; i >= 0; i-- {
		out = core.PushHistory(out, entries[i].Song, entries[i].PlayedAt, limit)
	}
	return out
}

// read decodes key into dst and reports whether a usable value was found.
func (p *Persister) read(ctx context.Context, key string, dst any) bool {
	data, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			p.log.Warn("session read failed, using default", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		p.log.Warn("session value corrupt, using default", zap.String("key", key), zap.Error(err))
		return false
	}

	p.mu.Lock()
	p.last[key] = data
	p.mu.Unlock()
	return true
}

// Save writes every key whose encoding changed since the last Load or Save.
// All keys are attempted even if some fail.
func (p *Persister) Save(ctx context.Context, st State) error {
	values := []struct {
		key string
		v   any
	}{
		{KeyQueue, nonNilSongs(st.Queue)},
		{KeyQueueIndex, st.QueueIndex},
		{KeyCurrentSong, st.Current},
		{KeyShuffle, st.Shuffle},
		{KeyRepeat, st.Repeat},
		{KeyVolume, st.Volume},
		{KeyMuted, st.Muted},
		{KeyHistory, nonNilHistory(st.History)},
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, kv := range values {
		data, err := json.Marshal(kv.v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kv.key, err))
			continue
		}
		if prev, ok := p.last[kv.key]; ok && bytes.Equal(prev, data) {
			continue
		}
		if err := p.store.Set(ctx, kv.key, data); err != nil {
			errs = append(errs, err)
			continue
		}
		p.last[kv.key] = data
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, errors.Join(errs...))
	}
	return nil
}

// Snapshot reads the stored session into the form views render. It lets
// processes that do not own the player (auralyn tail) follow along.
func (p *Persister) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	st := p.Load(ctx)
	return &core.Snapshot{
		State: core.PlaybackState{
			Song:     st.Current,
			Duration: st.Current.Length(),
			Volume:   st.Volume,
			Muted:    st.Muted,
		},
		Queue:   &core.Queue{Songs: st.Queue, CurrentIndex: st.QueueIndex},
		Mode:    core.PlaybackMode{Shuffle: st.Shuffle, Repeat: st.Repeat},
		History: st.History,
	}, nil
}

func nonNilSongs(s []core.Song) []core.Song {
	if s == nil {
		return []core.Song{}
	}
	return s
}

func nonNilHistory(h []core.HistoryEntry) []core.HistoryEntry {
	if h == nil {
		return []core.HistoryEntry{}
	}
	return h
}
