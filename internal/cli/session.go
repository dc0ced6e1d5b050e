package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/player"
	"github.com/tessro/auralyn/internal/search"
	"github.com/tessro/auralyn/internal/session"
	"github.com/tessro/auralyn/internal/transport"
)

// sessionDefaults maps the [player] config section onto persister defaults.
func sessionDefaults() session.Defaults {
	d := session.DefaultDefaults()
	d.Volume = cfg.Player.Volume
	d.Shuffle = cfg.Player.Shuffle
	if repeat, err := core.ParseRepeatMode(cfg.Player.Repeat); err == nil {
		d.Repeat = repeat
	}
	if cfg.Player.HistorySize > 0 {
		d.HistorySize = cfg.Player.HistorySize
	}
	return d
}

// openPersister opens the configured session store. The caller closes the
// returned store.
func openPersister(ctx context.Context) (*session.Persister, error) {
	store, err := session.Open(ctx, cfg.Session, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return session.NewPersister(store, sessionDefaults(), log), nil
}

// playerSession is a restored player plus what must be released after use.
type playerSession struct {
	*player.Player
	persister *session.Persister
	transport transport.Transport
}

func (s *playerSession) Close() {
	_ = s.transport.Close()
	_ = s.persister.Store().Close()
}

// openPlayer restores the saved session into a player driving t.
func openPlayer(ctx context.Context, t transport.Transport) (*playerSession, error) {
	persister, err := openPersister(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := player.ParsePlayPolicy(cfg.Player.PlayMode)
	if err != nil {
		_ = persister.Store().Close()
		return nil, err
	}

	p := player.New(t, persister,
		player.WithLogger(log),
		player.WithPolicy(policy),
		player.WithDefaults(sessionDefaults()),
	)
	p.Restore(ctx)

	return &playerSession{Player: p, persister: persister, transport: t}, nil
}

// openSilentPlayer is openPlayer for one-shot commands that only edit the
// saved session.
func openSilentPlayer(ctx context.Context) (*playerSession, error) {
	return openPlayer(ctx, transport.NewSilent())
}

// searchClient talks to the configured proxy.
func searchClient() *search.Client {
	return search.NewClient(cfg.Client.APIBase, time.Duration(cfg.Client.Timeout)*time.Second, log)
}

func pagerOptions() search.PagerOptions {
	return search.PagerOptions{
		MaxEmptyPages: cfg.Search.MaxEmptyPages,
		MaxScanPages:  cfg.Search.MaxScanPages,
		CacheSize:     cfg.Search.CacheSize,
	}
}

func newTrending(src search.Searcher) *search.Trending {
	return search.NewTrending(src, time.Duration(cfg.Search.TrendingTTL)*time.Second)
}
