// Package saavn talks to a JioSaavn-compatible catalog API and normalizes
// its song records into core.Song.
package saavn

import (
	"context"
	"encoding/json"
	"errors"
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

const (
	// DefaultBaseURL is the public catalog mirror.
	DefaultBaseURL = "https://saavn.sumit.co"

	// DefaultTimeout bounds a whole search, retries included.
	DefaultTimeout = 15 * time.Second

	// PageSize is the number of songs requested per page.
	PageSize = 10

	searchPath = "/api/search/songs"

	// Retry configuration for transient errors
	maxRetries    = 2
	baseRetryWait = 250 * time.Millisecond

	maxBodySize = 4 << 20
)

// Page is one page of normalized results.
type Page struct {
	Songs []core.Song
	Total int
}

// Client is a catalog API client.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a client for baseURL. A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log.Named("saavn"),
	}
}

// SearchSongs fetches one page of songs matching query. Any failure,
// including a body that does not match {success:true,data:{results:[...]}},
// is returned as an error wrapping ErrUpstream or ErrTimeout.
func (c *Client) SearchSongs(ctx context.Context, query string, page int) (*Page, error) {
	if page < 0 {
		page = 0
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fullURL := BuildURL(c.baseURL+searchPath, map[string]string{
		"query": query,
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(PageSize),
	})

	body, err := c.get(ctx, fullURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: search %q: %v", apperrors.ErrTimeout, query, err)
		}
		return nil, fmt.Errorf("%w: search %q: %w", apperrors.ErrUpstream, query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", apperrors.ErrUpstream, err)
	}
	if !resp.Success || resp.Data == nil || resp.Data.Results == nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstream, &APIError{Status: http.StatusOK, Message: "unexpected response shape"})
	}

	out := &Page{Songs: make([]core.Song, 0, len(resp.Data.Results)), Total: resp.Data.Total}
	skipped := 0
	for _, item := range resp.Data.Results {
		var raw rawSong
		if err := json.Unmarshal(item, &raw); err != nil {
			skipped++
			continue
		}
		song, ok := raw.toSong()
		if !ok {
			skipped++
			continue
		}
		out.Songs = append(out.Songs, song)
	}
	if out.Total < len(out.Songs) {
		out.Total = len(out.Songs)
	}

	c.log.Debug("search complete",
		zap.String("query", query),
		zap.Int("page", page),
		zap.Int("results", len(out.Songs)),
		zap.Int("skipped", skipped),
		zap.Int("total", out.Total))
	return out, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			c.log.Debug("retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			c.log.Warn("network error", zap.Error(err))
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		c.log.Debug("response", zap.Int("status", resp.StatusCode), zap.String("url", fullURL))

		if resp.StatusCode >= 500 {
			lastErr = apiError(resp.StatusCode, body)
			c.log.Warn("server error, will retry", zap.Error(lastErr))
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, apiError(resp.StatusCode, body)
		}
		return body, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func apiError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{Status: status, Message: payload.Message}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
