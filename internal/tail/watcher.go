package tail

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
)

// EventType represents the type of session event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventPause
	EventResume
	EventVolumeChange
	EventMuteChange
	EventModeChange
	EventQueueChange
)

// Event represents a session state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// Watcher polls a state source for changes and emits events. The persisted
// session carries no play status, so pause and resume only come from live
// sources (see PlayerSource).
type Watcher struct {
	source   core.StateSource
	interval time.Duration
	log      *zap.Logger
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewWatcher creates a new state watcher.
func NewWatcher(source core.StateSource, interval time.Duration, log *zap.Logger) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		source:   source,
		interval: interval,
		log:      log.Named("tail"),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of session events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev, err := w.source.Snapshot(ctx)
	if err != nil {
		w.log.Debug("initial poll failed", zap.Error(err))
		prev = nil
	}
	w.emit(diffSnapshots(nil, prev, w.now()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr, err := w.source.Snapshot(ctx)
			if err != nil {
				w.log.Debug("poll failed", zap.Error(err))
				continue
			}
			w.emit(diffSnapshots(prev, curr, w.now()))
			prev = curr
		}
	}
}

func (w *Watcher) emit(events []Event) {
	for _, e := range events {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// PlayerSource adapts a live player to a StateSource.
type PlayerSource struct {
	Player core.Player
}

// Snapshot implements core.StateSource.
func (s PlayerSource) Snapshot(context.Context) (*core.Snapshot, error) {
	snap := s.Player.Snapshot()
	return &snap, nil
}

// diffSnapshots compares two snapshots and returns detected events.
func diffSnapshots(prev, curr *core.Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	event := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	// First poll - no previous state
	if prev == nil {
		if curr.State.HasSong() {
			return []Event{event(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if songChanged(prev, curr) {
		events = append(events, event(EventTrackChange))
	}

	if prev.State.IsPlaying && !curr.State.IsPlaying {
		events = append(events, event(EventPause))
	} else if !prev.State.IsPlaying && curr.State.IsPlaying {
		events = append(events, event(EventResume))
	}

	if prev.State.Volume != curr.State.Volume {
		events = append(events, event(EventVolumeChange))
	}
	if prev.State.Muted != curr.State.Muted {
		events = append(events, event(EventMuteChange))
	}
	if prev.Mode != curr.Mode {
		events = append(events, event(EventModeChange))
	}
	if queueChanged(prev.Queue, curr.Queue) {
		events = append(events, event(EventQueueChange))
	}

	return events
}

func songChanged(prev, curr *core.Snapshot) bool {
	p, c := prev.State.Song, curr.State.Song
	if p == nil && c == nil {
		return false
	}
	if p == nil || c == nil {
		return true
	}
	return p.ID != c.ID
}

// queueChanged compares membership and order, not the cursor.
func queueChanged(prev, curr *core.Queue) bool {
	if prev.Len() != curr.Len() {
		return true
	}
	for i := 0; i < prev.Len(); i++ {
		if prev.Songs[i].ID != curr.Songs[i].ID {
			return true
		}
	}
	return false
}
