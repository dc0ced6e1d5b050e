// Package player is the playback and queue state machine. It is the only
// owner of the queue, cursor, transport state and playback mode, the only
// caller of transport commands and the only consumer of transport events.
package player

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/session"
	"github.com/tessro/auralyn/internal/transport"
)

// RestartThreshold is how far into a song PlayPrevious restarts it instead
// of moving back.
const RestartThreshold = 3 * time.Second

// PlayPolicy decides what PlaySong does to the queue.
type PlayPolicy int

const (
	// PlayWithinQueue moves the cursor to the song, appending it if absent.
	PlayWithinQueue PlayPolicy = iota
	// PlayReplace makes the song the whole queue.
	PlayReplace
)

// ParsePlayPolicy converts the player.play_mode config value.
func ParsePlayPolicy(s string) (PlayPolicy, error) {
	switch s {
	case "", "queue":
		return PlayWithinQueue, nil
	case "replace":
		return PlayReplace, nil
	}
	return PlayWithinQueue, fmt.Errorf("%w: unknown play mode %q", apperrors.ErrInvalidConfig, s)
}

// SessionStore loads and saves durable state. Save errors are logged by the
// player and never returned to callers.
type SessionStore interface {
	Load(ctx context.Context) session.State
	Save(ctx context.Context, st session.State) error
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Player) { p.log = log }
}

// WithPolicy sets the PlaySong policy.
func WithPolicy(policy PlayPolicy) Option {
	return func(p *Player) { p.policy = policy }
}

// WithRand replaces the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) { p.rng = r }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Player) { p.now = now }
}

// WithDefaults sets the volume and modes used before anything is restored.
func WithDefaults(d session.Defaults) Option {
	return func(p *Player) {
		p.volume = clamp01(d.Volume)
		p.restoreVolume = p.volume
		p.mode.Shuffle = d.Shuffle
		if d.Repeat.Valid() {
			p.mode.Repeat = d.Repeat
		}
		if d.HistorySize > 0 {
			p.historySize = d.HistorySize
		}
	}
}

// Player implements core.Player.
type Player struct {
	mu sync.Mutex

	transport transport.Transport
	store     SessionStore
	log       *zap.Logger
	policy    PlayPolicy
	rng       *rand.Rand
	now       func() time.Time

	queue      *core.Queue
	mode       core.PlaybackMode
	history    []core.HistoryEntry
	generation uint64

	song     *core.Song
	status   core.PlayStatus
	resuming bool
	position time.Duration
	duration time.Duration

	volume        float64
	restoreVolume float64
	muted         bool

	historySize int
	lastErr     error

	changes chan struct{}
}

var _ core.Player = (*Player)(nil)

// New creates a player driving t. A nil store disables persistence. Call
// Restore before use to load a stored session, and Run to consume transport
// events.
func New(t transport.Transport, store SessionStore, opts ...Option) *Player {
	p := &Player{
		transport:     t,
		store:         store,
		log:           zap.NewNop(),
		queue:         core.NewQueue(),
		mode:          core.PlaybackMode{Repeat: core.RepeatOff},
		volume:        DefaultVolume,
		restoreVolume: DefaultVolume,
		historySize:   core.MaxHistory,
		now:           time.Now,
		changes:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p.log = p.log.Named("player")
	return p
}

// Restore reads the stored session. Nothing is loaded into the transport;
// the restored song waits in Idle until the user resumes.
func (p *Player) Restore(ctx context.Context) {
	if p.store == nil {
		return
	}
	st := p.store.Load(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = &core.Queue{Songs: st.Queue, CurrentIndex: st.QueueIndex}
	if !p.queue.ValidIndex(p.queue.CurrentIndex) {
		p.queue.CurrentIndex = core.NoCursor
	}
	p.song = nil
	if cur := p.queue.Current(); cur != nil {
		song := *cur
		p.song = &song
		p.duration = song.Length()
	}
	p.mode = core.PlaybackMode{Shuffle: st.Shuffle, Repeat: st.Repeat}
	p.volume = clamp01(st.Volume)
	if p.volume > 0 {
		p.restoreVolume = p.volume
	}
	p.muted = st.Muted || p.volume == 0
	p.history = st.History
	p.status = core.StatusIdle
	p.transport.SetVolume(p.effectiveVolume())

	p.log.Debug("session restored",
		zap.Int("queue_len", p.queue.Len()),
		zap.Int("cursor", p.queue.CurrentIndex),
		zap.String("repeat", string(p.mode.Repeat)),
		zap.Bool("shuffle", p.mode.Shuffle))
	p.notify()
}

// Run consumes transport events until ctx is done.
func (p *Player) Run(ctx context.Context) error {
	events := p.transport.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			p.HandleEvent(ev)
		}
	}
}

// Snapshot returns a copy of the current state.
func (p *Player) Snapshot() core.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Player) snapshotLocked() core.Snapshot {
	var song *core.Song
	if p.song != nil {
		s := p.song.Clone()
		song = &s
	}
	history := make([]core.HistoryEntry, len(p.history))
	for i, e := range p.history {
		history[i] = core.HistoryEntry{Song: e.Song.Clone(), PlayedAt: e.PlayedAt}
	}

	return core.Snapshot{
		State: core.PlaybackState{
			Song:      song,
			Status:    p.status,
			IsPlaying: p.status == core.StatusPlaying,
			Position:  p.position,
			Duration:  p.duration,
			Volume:    p.volume,
			Muted:     p.muted,
		},
		Queue:     p.queue.Clone(),
		Mode:      p.mode,
		History:   history,
		LastError: p.lastErr,
	}
}

// Changes delivers a signal after state changes. Signals coalesce; read
// Snapshot after each one.
func (p *Player) Changes() <-chan struct{} {
	return p.changes
}

func (p *Player) notify() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

// saveTimeout bounds a session write made while holding p.mu.
const saveTimeout = 2 * time.Second

// commit persists durable state and notifies views. Caller holds p.mu.
func (p *Player) commit() {
	if p.store != nil {
		var current *core.Song
		if p.song != nil {
			s := *p.song
			current = &s
		}
		st := session.State{
			Queue:      p.queue.Songs,
			QueueIndex: p.queue.CurrentIndex,
			Current:    current,
			Shuffle:    p.mode.Shuffle,
			Repeat:     p.mode.Repeat,
			Volume:     p.volume,
			Muted:      p.muted,
			History:    p.history,
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := p.store.Save(ctx, st); err != nil {
			p.log.Warn("session write failed", zap.Error(err))
		}
		cancel()
	}
	p.notify()
}

func (p *Player) effectiveVolume() float64 {
	if p.muted {
		return 0
	}
	return p.volume
}

func (p *Player) fail(err error, msg string, fields ...zap.Field) {
	p.lastErr = err
	p.log.Warn(msg, append(fields, zap.Error(err))...)
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
