// Package search is the player side of the search proxy: a client that never
// fails, a duplicate-skipping pager and a cached trending list.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

// DefaultTimeout matches the proxy's own upstream budget.
const DefaultTimeout = 15 * time.Second

const searchPath = "/api/music/search"

// Result is one page of songs. Songs is never nil on success. Err is set
// only when the HTTP call itself failed; an empty result with a nil Err
// means no matches.
type Result struct {
	Songs []core.Song
	Total int
	Err   error
}

// Searcher returns one page of results for a query.
type Searcher interface {
	Search(ctx context.Context, query string, page int) Result
}

// Client queries the search proxy.
type Client struct {
	base       string
	httpClient *http.Client
	log        *zap.Logger
}

var _ Searcher = (*Client)(nil)

// NewClient creates a client for the proxy at base.
func NewClient(base string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("search"),
	}
}

// Search fetches one page. Malformed bodies count as no matches; network
// failures and non-2xx answers set Result.Err.
func (c *Client) Search(ctx context.Context, query string, page int) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Songs: []core.Song{}}
	}

	params := url.Values{}
	params.Set("q", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	fullURL := c.base + searchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return c.failed(query, page, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.failed(query, page, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failed(query, page, fmt.Errorf("%w: search proxy returned %s", apperrors.ErrUpstream, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return c.failed(query, page, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err))
	}

	var songs []core.Song
	if err := json.Unmarshal(body, &songs); err != nil {
		c.log.Warn("malformed search response", zap.String("query", query), zap.Error(err))
		return Result{Songs: []core.Song{}}
	}
	songs = core.Dedupe(songs)
	if songs == nil {
		songs = []core.Song{}
	}

	total := len(songs)
	if h := resp.Header.Get("X-Total-Count"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n >= total {
			total = n
		}
	}

	c.log.Debug("search", zap.String("query", query), zap.Int("page", page), zap.Int("results", len(songs)))
	return Result{Songs: songs, Total: total}
}

func (c *Client) failed(query string, page int, err error) Result {
	c.log.Warn("search failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
	return Result{Songs: []core.Song{}, Err: err}
}
