package search

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tessro/auralyn/internal/core"
)

// Default pager bounds.
const (
	DefaultMaxEmptyPages = 6
	DefaultMaxScanPages  = 6
	DefaultCacheSize     = 32
)

// PagerOptions bounds a pager.
type PagerOptions struct {
	MaxEmptyPages int
	MaxScanPages  int
	CacheSize     int
}

func (o PagerOptions) withDefaults() PagerOptions {
	if o.MaxEmptyPages <= 0 {
		o.MaxEmptyPages = DefaultMaxEmptyPages
	}
	if o.MaxScanPages <= 0 {
		o.MaxScanPages = DefaultMaxScanPages
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	return o
}

// Pager accumulates unique songs across pages of one query. The catalog
// repeats songs between pages, so More keeps fetching until it finds
// something new or one of two counters runs out: consecutive duplicate-only
// pages, and pages scanned since the last productive one.
//
// A Pager is not safe for concurrent use.
type Pager struct {
	src   Searcher
	query string
	opts  PagerOptions
	cache *lru.Cache[int, Result]

	songs      []core.Song
	seen       map[string]struct{}
	total      int
	page       int
	emptyPages int
	scanPages  int
	exhausted  bool
	err        error
}

// NewPager creates a pager for query.
func NewPager(src Searcher, query string, opts PagerOptions) *Pager {
	opts = opts.withDefaults()
	cache, err := lru.New[int, Result](opts.CacheSize)
	if err != nil {
		// Only returned for a non-positive size, which withDefaults rules out.
		panic(err)
	}
	return &Pager{
		src:   src,
		query: query,
		opts:  opts,
		cache: cache,
		seen:  make(map[string]struct{}),
	}
}

// Query returns the query being paged.
func (p *Pager) Query() string { return p.query }

// Songs returns everything found so far.
func (p *Pager) Songs() []core.Song { return p.songs }

// Total is the catalog's reported match count.
func (p *Pager) Total() int { return p.total }

// Exhausted reports whether More will return nothing further.
func (p *Pager) Exhausted() bool { return p.exhausted }

// Err is the error of the most recent failed fetch, if any.
func (p *Pager) Err() error { return p.err }

// First loads page 0, replacing any previous results.
func (p *Pager) First(ctx context.Context) []core.Song {
	res := p.fetch(ctx, 0)

	p.songs = nil
	p.seen = make(map[string]struct{})
	for _, s := range res.Songs {
		p.remember(s)
	}
	p.total = res.Total
	p.page = 0
	p.emptyPages = 0
	p.scanPages = 0
	p.exhausted = res.Err != nil && len(p.songs) == 0
	return p.songs
}

// More scans forward for unseen songs and returns only the new ones. It
// returns nil once the pager is exhausted.
func (p *Pager) More(ctx context.Context) []core.Song {
	for !p.exhausted {
		if ctx.Err() != nil {
			return nil
		}

		next := p.page + 1
		res := p.fetch(ctx, next)
		if res.Err != nil {
			// Stay on this page so a later call retries it.
			return nil
		}
		p.page = next
		p.scanPages++

		var fresh []core.Song
		for _, s := range res.Songs {
			if p.remember(s) {
				fresh = append(fresh, s)
			}
		}

		if len(fresh) > 0 {
			p.emptyPages = 0
			p.scanPages = 0
			if res.Total > p.total {
				p.total = res.Total
			}
			return fresh
		}

		p.emptyPages++
		if p.emptyPages >= p.opts.MaxEmptyPages || p.scanPages >= p.opts.MaxScanPages {
			p.exhausted = true
		}
	}
	return nil
}

func (p *Pager) remember(s core.Song) bool {
	if _, ok := p.seen[s.ID]; ok {
		return false
	}
	p.seen[s.ID] = struct{}{}
	p.songs = append(p.songs, s)
	return true
}

// fetch consults the page cache first. Failed fetches are not cached.
func (p *Pager) fetch(ctx context.Context, page int) Result {
	if res, ok := p.cache.Get(page); ok {
		return res
	}
	res := p.src.Search(ctx, p.query, page)
	p.err = res.Err
	if res.Err == nil {
		p.cache.Add(page, res)
	}
	return res
}
