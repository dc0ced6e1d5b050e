package core

import (
	"context"
	"time"
)

// Player defines the intents a view may issue. Implementations absorb
// expected failures into state; nothing here returns an error.
type Player interface {
	// Playback control
	PlaySong(song Song)
	PlayQueue(songs []Song, start int)
	PlayAt(index int)
	Pause()
	TogglePlay()
	PlayNext()
	PlayPrevious()
	SeekTo(position time.Duration)

	// Volume control
	SetVolume(v float64)
	ToggleMute()

	// Queue manipulation
	AddToQueue(song Song)
	AddManyToQueue(songs []Song) int
	RemoveFromQueue(id string)
	ClearQueue()

	// Modes
	ToggleShuffle()
	ToggleRepeat()

	// State queries
	Snapshot() Snapshot
	Changes() <-chan struct{}
}

// StateSource provides snapshots to pollers that do not own a Player.
type StateSource interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
