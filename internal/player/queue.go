package player

import (
	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
)

// AddToQueue appends song unless it is already queued. The cursor is never
// moved.
func (p *Player) AddToQueue(song core.Song) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.queue.Add(song) {
		return
	}
	p.commit()
}

// AddManyToQueue appends every song not already queued and returns how many
// were added.
func (p *Player) AddManyToQueue(songs []core.Song) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := 0
	for _, s := range songs {
		if p.queue.Add(s) {
			added++
		}
	}
	if added > 0 {
		p.commit()
	}
	return added
}

// RemoveFromQueue deletes the song with id. Removing the loaded song stops
// playback and clears the cursor; removing an earlier entry shifts the
// cursor down.
func (p *Player) RemoveFromQueue(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cursor := p.queue.CurrentIndex
	removed := p.queue.Remove(id)
	if removed == core.NoCursor {
		return
	}
	if removed == cursor {
		p.log.Info("removed active song, stopping", zap.String("song_id", id))
		p.stop()
	}
	p.commit()
}

// ClearQueue stops playback and empties the queue.
func (p *Player) ClearQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stop()
	p.queue.Clear()
	p.commit()
}
