package search

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tessro/auralyn/internal/core"
)

// TrendingLimit is how many songs a trending list holds.
const TrendingLimit = 12

// DefaultTrendingTTL is how long a fetched list is reused.
const DefaultTrendingTTL = 10 * time.Minute

var trendingQueries = map[string]string{
	"punjabi": "punjabi hits",
	"hindi":   "bollywood hits",
	"global":  "top hits",
}

// TrendingKinds lists the supported kinds in display order.
func TrendingKinds() []string {
	kinds := make([]string, 0, len(trendingQueries))
	for k := range trendingQueries {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Trending serves curated lists backed by fixed search terms.
type Trending struct {
	src   Searcher
	cache *expirable.LRU[string, []core.Song]
}

// NewTrending creates a trending source. A zero ttl uses DefaultTrendingTTL.
func NewTrending(src Searcher, ttl time.Duration) *Trending {
	if ttl <= 0 {
		ttl = DefaultTrendingTTL
	}
	return &Trending{
		src:   src,
		cache: expirable.NewLRU[string, []core.Song](len(trendingQueries), nil, ttl),
	}
}

// Get returns up to TrendingLimit songs for kind. Unknown kinds and failed
// fetches return an empty list; failures are not cached.
func (t *Trending) Get(ctx context.Context, kind string) []core.Song {
	if songs, ok := t.cache.Get(kind); ok {
		return songs
	}
	query, ok := trendingQueries[kind]
	if !ok {
		return []core.Song{}
	}

	res := t.src.Search(ctx, query, 0)
	if res.Err != nil {
		return []core.Song{}
	}
	songs := res.Songs
	if len(songs) > TrendingLimit {
		songs = songs[:TrendingLimit]
	}
	t.cache.Add(kind, songs)
	return songs
}
