package core

import (
	"fmt"
	"time"
)

// PlayStatus is the transport lifecycle as seen by the player.
type PlayStatus int

const (
	StatusIdle PlayStatus = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusStopped
)

func (s PlayStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("PlayStatus(%d)", int(s))
	}
}

// RepeatMode controls what happens at the end of a song or the queue.
type RepeatMode string

const (
	RepeatOff RepeatMode = "off"
	RepeatAll RepeatMode = "all"
	RepeatOne RepeatMode = "one"
)

// Next cycles off → all → one → off.
func (r RepeatMode) Next() RepeatMode {
	switch r {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// Valid reports whether r is a known mode.
func (r RepeatMode) Valid() bool {
	switch r {
	case RepeatOff, RepeatAll, RepeatOne:
		return true
	}
	return false
}

// ParseRepeatMode converts a config or CLI value into a RepeatMode.
func ParseRepeatMode(s string) (RepeatMode, error) {
	r := RepeatMode(s)
	if !r.Valid() {
		return RepeatOff, fmt.Errorf("invalid repeat mode: %q (must be off, all, or one)", s)
	}
	return r, nil
}

// PlaybackMode groups the queue traversal settings.
type PlaybackMode struct {
	Shuffle bool       `json:"shuffle"`
	Repeat  RepeatMode `json:"repeat"`
}

// PlaybackState represents the current transport state.
type PlaybackState struct {
	Song      *Song         `json:"song"`
	Status    PlayStatus    `json:"-"`
	IsPlaying bool          `json:"is_playing"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
	Volume    float64       `json:"volume"`
	Muted     bool          `json:"muted"`
}

// HasSong returns true if there is a loaded song.
func (s *PlaybackState) HasSong() bool {
	return s != nil && s.Song != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Song == nil || s.Duration <= 0 {
		return 0
	}
	return float64(s.Position) / float64(s.Duration) * 100
}

// EffectiveVolume is the level actually applied to the output.
func (s *PlaybackState) EffectiveVolume() float64 {
	if s == nil || s.Muted {
		return 0
	}
	return s.Volume
}

// Snapshot is a read-only copy of everything a view needs to render.
type Snapshot struct {
	State     PlaybackState  `json:"state"`
	Queue     *Queue         `json:"queue"`
	Mode      PlaybackMode   `json:"mode"`
	History   []HistoryEntry `json:"history"`
	LastError error          `json:"-"`
}
