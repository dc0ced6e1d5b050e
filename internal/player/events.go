package player

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/transport"
)

// HandleEvent applies one transport event. Events from an older generation
// than the current load are dropped. Run calls this for every event; it is
// exported so other event sources can feed the player in order.
func (p *Player) HandleEvent(ev transport.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.Generation != p.generation {
		p.log.Debug("dropping stale event",
			zap.Stringer("kind", ev.Kind),
			zap.Uint64("event_generation", ev.Generation),
			zap.Uint64("generation", p.generation))
		return
	}

	switch ev.Kind {
	case transport.EventPlayStarted:
		p.onPlayStarted()
	case transport.EventPlayFailed:
		p.onPlayFailed(ev.Err)
	case transport.EventTimeUpdate:
		p.onTimeUpdate(ev)
	case transport.EventLoadedMetadata:
		p.onLoadedMetadata(ev)
	case transport.EventEnded:
		p.onEnded()
	case transport.EventError:
		p.onError(ev.Err)
	}
}

func (p *Player) onPlayStarted() {
	switch {
	case p.status == core.StatusLoading, p.status == core.StatusPaused && p.resuming:
		p.status = core.StatusPlaying
		p.notify()
	case p.status == core.StatusPaused:
		// Paused while the load was in flight.
		p.transport.Pause()
	}
	p.resuming = false
}

func (p *Player) onPlayFailed(err error) {
	if err == nil {
		err = apperrors.ErrPlaybackRejected
	} else if !errors.Is(err, apperrors.ErrPlaybackRejected) {
		err = fmt.Errorf("%w: %v", apperrors.ErrPlaybackRejected, err)
	}
	p.resuming = false
	switch p.status {
	case core.StatusLoading:
		p.status = core.StatusIdle
	case core.StatusPlaying:
		p.status = core.StatusPaused
	}
	p.fail(err, "playback rejected", p.songField())
	p.notify()
}

func (p *Player) onTimeUpdate(ev transport.Event) {
	pos := ev.Position
	if pos < 0 {
		pos = 0
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	p.position = pos
	p.notify()
}

func (p *Player) onLoadedMetadata(ev transport.Event) {
	d := ev.Duration
	if d < 0 {
		d = 0
	}
	p.duration = d
	if d > 0 && p.position > d {
		p.position = d
	}
	p.notify()
}

func (p *Player) onEnded() {
	p.log.Debug("song ended", p.songField())
	if p.mode.Repeat == core.RepeatOne && p.queue.ValidIndex(p.queue.CurrentIndex) {
		p.load(p.queue.CurrentIndex)
		return
	}
	p.next()
}

// onError keeps the song on display and does not advance.
func (p *Player) onError(err error) {
	if err == nil {
		err = apperrors.ErrTransport
	} else if !errors.Is(err, apperrors.ErrTransport) {
		err = fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	p.resuming = false
	p.status = core.StatusIdle
	p.fail(err, "playback error", p.songField())
	p.notify()
}

func (p *Player) songField() zap.Field {
	if p.song == nil {
		return zap.Skip()
	}
	return zap.String("song_id", p.song.ID)
}
