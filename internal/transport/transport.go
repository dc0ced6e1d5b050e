// Package transport defines the media handle the player drives and the
// events it reports back.
package transport

import (
	"fmt"
	"time"

	apperrors "github.com/tessro/auralyn/internal/errors"
)

var errNothingLoaded = fmt.Errorf("%w: no media loaded", apperrors.ErrPlaybackRejected)

// EventKind identifies what a transport is reporting.
type EventKind int

const (
	// EventPlayStarted confirms a Play call; audio is running.
	EventPlayStarted EventKind = iota
	// EventPlayFailed rejects a Play call before audio started.
	EventPlayFailed
	EventTimeUpdate
	EventLoadedMetadata
	EventEnded
	// EventError reports a decode or network failure after load.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventPlayStarted:
		return "play_started"
	case EventPlayFailed:
		return "play_failed"
	case EventTimeUpdate:
		return "time_update"
	case EventLoadedMetadata:
		return "loaded_metadata"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is tagged with the generation passed to the Load that produced it.
type Event struct {
	Kind       EventKind
	Generation uint64
	Position   time.Duration
	Duration   time.Duration
	Err        error
}

// Transport is an opaque playable-media handle. Commands never block on
// media I/O or on event delivery: the player issues them while holding the
// lock its event loop needs, so a command waiting for Events to be drained
// deadlocks. Outcomes arrive on Events in emission order. Implementations
// must not call back into the player synchronously.
type Transport interface {
	// Load replaces the current media. Every event caused by this media
	// carries gen.
	Load(gen uint64, url string)
	// Play starts or resumes. The result is reported as EventPlayStarted or
	// EventPlayFailed.
	Play()
	Pause()
	Seek(position time.Duration)
	// SetVolume takes an effective level in [0,1]; 0 is silent.
	SetVolume(level float64)
	// Stop unloads the current media.
	Stop()
	// Events is never closed; readers stop on their own context.
	Events() <-chan Event
	Close() error
}
