package player

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

// PlaySong starts song according to the configured policy. A song without a
// playable URL is refused and the state is left as it was.
func (p *Player) PlaySong(song core.Song) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := song.ResolveURL(); !ok {
		p.refuse(song)
		return
	}

	var index int
	switch p.policy {
	case PlayReplace:
		p.queue.Replace([]core.Song{song})
		index = 0
	default:
		index = p.queue.IndexOf(song.ID)
		if index == core.NoCursor {
			p.queue.Add(song)
			index = p.queue.Len() - 1
		}
	}
	p.load(index)
}

// PlayQueue replaces the queue with songs and starts the entry at start.
// Repeated ids are dropped; an out of range start plays the first song.
func (p *Player) PlayQueue(songs []core.Song, start int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(songs) == 0 {
		return
	}
	if start < 0 || start >= len(songs) {
		start = 0
	}
	first := songs[start]
	if _, ok := first.ResolveURL(); !ok {
		p.refuse(first)
		return
	}

	p.queue.Replace(songs)
	p.load(p.queue.IndexOf(first.ID))
}

// PlayAt loads the queue entry at index.
func (p *Player) PlayAt(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.queue.ValidIndex(index) {
		p.log.Debug("play at ignored", zap.Int("index", index), zap.Int("queue_len", p.queue.Len()))
		return
	}
	p.load(index)
}

// Pause is idempotent.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pause()
}

func (p *Player) pause() {
	p.transport.Pause()
	p.resuming = false
	if p.status == core.StatusPlaying || p.status == core.StatusLoading {
		p.status = core.StatusPaused
		p.notify()
	}
}

// TogglePlay pauses while playing and resumes otherwise. A stopped or idle
// player with a loaded song reloads it; an idle player with a queue but no
// cursor starts from the top.
func (p *Player) TogglePlay() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.status {
	case core.StatusPlaying, core.StatusLoading:
		p.pause()
	case core.StatusPaused:
		// Status stays Paused until the transport confirms.
		p.resuming = true
		p.transport.Play()
	default:
		switch {
		case p.queue.ValidIndex(p.queue.CurrentIndex):
			p.load(p.queue.CurrentIndex)
		case !p.queue.IsEmpty():
			p.load(0)
		}
	}
}

// PlayNext advances through the queue.
func (p *Player) PlayNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next()
}

func (p *Player) next() {
	n := p.queue.Len()
	if n == 0 {
		return
	}

	cursor := p.queue.CurrentIndex
	if p.mode.Repeat == core.RepeatOne && p.queue.ValidIndex(cursor) {
		p.load(cursor)
		return
	}
	if p.mode.Shuffle {
		p.load(p.rng.IntN(n))
		return
	}

	candidate := cursor + 1
	switch {
	case candidate < n:
		p.load(candidate)
	case p.mode.Repeat == core.RepeatAll:
		p.load(0)
	default:
		p.endOfQueue()
	}
}

// endOfQueue stops playback but keeps the last song on display.
func (p *Player) endOfQueue() {
	p.transport.Stop()
	p.generation++
	p.resuming = false
	p.status = core.StatusStopped
	p.log.Debug("end of queue", zap.Uint64("generation", p.generation))
	p.commit()
}

// PlayPrevious restarts the current song once it is past RestartThreshold,
// otherwise moves back one entry. There is no wraparound.
func (p *Player) PlayPrevious() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cursor := p.queue.CurrentIndex
	if p.song != nil && p.position > RestartThreshold {
		switch p.status {
		case core.StatusPlaying, core.StatusPaused, core.StatusLoading:
			p.transport.Seek(0)
			p.position = 0
			p.notify()
		default:
			if p.queue.ValidIndex(cursor) {
				p.load(cursor)
			}
		}
		return
	}
	if cursor > 0 {
		p.load(cursor - 1)
	}
}

// SeekTo moves the playhead, clamped to the song's bounds.
func (p *Player) SeekTo(position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.song == nil {
		return
	}
	if position < 0 {
		position = 0
	}
	if p.duration > 0 && position > p.duration {
		position = p.duration
	}
	p.position = position
	p.transport.Seek(position)
	p.notify()
}

// ToggleShuffle flips shuffle without touching the queue.
func (p *Player) ToggleShuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode.Shuffle = !p.mode.Shuffle
	p.commit()
}

// ToggleRepeat cycles off, all, one.
func (p *Player) ToggleRepeat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode.Repeat = p.mode.Repeat.Next()
	p.commit()
}

// SetRepeat sets the repeat mode directly. Unknown modes are ignored.
func (p *Player) SetRepeat(mode core.RepeatMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !mode.Valid() {
		return
	}
	p.mode.Repeat = mode
	p.commit()
}

// SetShuffle sets shuffle directly.
func (p *Player) SetShuffle(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode.Shuffle = on
	p.commit()
}

// load makes the queue entry at index current and starts it. Caller holds
// p.mu and guarantees index is valid.
func (p *Player) load(index int) {
	song := p.queue.Songs[index]
	url, ok := song.ResolveURL()
	if !ok {
		p.refuse(song)
		return
	}

	p.generation++
	p.queue.CurrentIndex = index
	p.song = &song
	p.status = core.StatusLoading
	p.resuming = false
	p.position = 0
	p.duration = song.Length()
	p.lastErr = nil
	p.history = core.PushHistory(p.history, song, p.now(), p.historySize)

	p.log.Info("loading song",
		zap.String("song_id", song.ID),
		zap.String("name", song.Name),
		zap.Int("index", index),
		zap.Uint64("generation", p.generation))

	p.transport.SetVolume(p.effectiveVolume())
	p.transport.Load(p.generation, url)
	p.transport.Play()
	p.commit()
}

// stop unloads the transport and clears the current song. Any events still
// in flight for the old media become stale.
func (p *Player) stop() {
	p.transport.Stop()
	p.generation++
	p.song = nil
	p.status = core.StatusIdle
	p.resuming = false
	p.position = 0
	p.duration = 0
}

func (p *Player) refuse(song core.Song) {
	p.fail(fmt.Errorf("%w: %q (%s)", apperrors.ErrUnresolvableMedia, song.Name, song.ID),
		"refusing song without playable url", zap.String("song_id", song.ID))
	p.notify()
}
