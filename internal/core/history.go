package core

import "time"

// MaxHistory bounds the recently played list.
const MaxHistory = 20

// HistoryEntry represents a recently played song.
type HistoryEntry struct {
	Song     Song      `json:"song"`
	PlayedAt time.Time `json:"played_at"`
}

// PushHistory puts song at the front of entries, dropping any older entry
// with the same id and trimming to limit.
func PushHistory(entries []HistoryEntry, song Song, at time.Time, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = MaxHistory
	}
	out := make([]HistoryEntry, 0, min(len(entries)+1, limit))
	out = append(out, HistoryEntry{Song: song, PlayedAt: at})
	for _, e := range entries {
		if len(out) == limit {
			break
		}
		if e.Song.ID == song.ID {
			continue
		}
		out = append(out, e)
	}
	return out
}
