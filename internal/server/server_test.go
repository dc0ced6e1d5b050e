package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tessro/auralyn/internal/config"
	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/saavn"
)

type fakeSearcher struct {
	page      *saavn.Page
	err       error
	gotQuery  string
	gotPage   int
	callCount int
}

func (f *fakeSearcher) SearchSongs(_ context.Context, q string, page int) (*saavn.Page, error) {
	f.callCount++
	f.gotQuery, f.gotPage = q, page
	return f.page, f.err
}

func newTestServer(searcher Searcher, origins ...string) *Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return New(config.ServerConfig{Port: 0, CORSOrigins: origins}, searcher, nil)
}

func decodeSongs(t *testing.T, rec *httptest.ResponseRecorder) []core.Song {
	t.Helper()
	var songs []core.Song
	if err := json.Unmarshal(rec.Body.Bytes(), &songs); err != nil {
		t.Fatalf("body %q is not a JSON array: %v", rec.Body.String(), err)
	}
	return songs
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeSearcher{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "Backend is running" {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestSearch(t *testing.T) {
	songs := []core.Song{
		{ID: "a", Name: "Alpha", DownloadURLs: []core.MediaURL{{Quality: "320kbps", URL: "https://x/a.mp4"}}},
		{ID: "b", Name: "Beta"},
	}

	tests := []struct {
		name      string
		target    string
		searcher  *fakeSearcher
		wantIDs   int
		wantCalls int
		wantPage  int
		wantTotal string
	}{
		{"results", "/api/music/search?q=alpha", &fakeSearcher{page: &saavn.Page{Songs: songs, Total: 42}}, 2, 1, 0, "42"},
		{"page forwarded", "/api/music/search?q=alpha&page=3", &fakeSearcher{page: &saavn.Page{Songs: songs, Total: 2}}, 2, 1, 3, "2"},
		{"bad page", "/api/music/search?q=alpha&page=-2", &fakeSearcher{page: &saavn.Page{Songs: songs}}, 2, 1, 0, "0"},
		{"missing q", "/api/music/search", &fakeSearcher{}, 0, 0, 0, ""},
		{"blank q", "/api/music/search?q=%20%20", &fakeSearcher{}, 0, 0, 0, ""},
		{"upstream failure", "/api/music/search?q=x", &fakeSearcher{err: apperrors.ErrUpstream}, 0, 1, 0, ""},
		{"upstream timeout", "/api/music/search?q=x", &fakeSearcher{err: apperrors.ErrTimeout}, 0, 1, 0, ""},
		{"upstream empty", "/api/music/search?q=x", &fakeSearcher{page: &saavn.Page{}}, 0, 1, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.searcher)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			got := decodeSongs(t, rec)
			if len(got) != tt.wantIDs {
				t.Errorf("got %d songs, want %d", len(got), tt.wantIDs)
			}
			if tt.searcher.callCount != tt.wantCalls {
				t.Errorf("upstream calls = %d, want %d", tt.searcher.callCount, tt.wantCalls)
			}
			if tt.wantCalls > 0 && tt.searcher.gotPage != tt.wantPage {
				t.Errorf("page = %d, want %d", tt.searcher.gotPage, tt.wantPage)
			}
			if got := rec.Header().Get(TotalCountHeader); got != tt.wantTotal {
				t.Errorf("%s = %q, want %q", TotalCountHeader, got, tt.wantTotal)
			}
		})
	}
}

func TestSearchPreservesDownloadURLs(t *testing.T) {
	s := newTestServer(&fakeSearcher{page: &saavn.Page{Songs: []core.Song{
		{ID: "a", DownloadURLs: []core.MediaURL{{Quality: "320kbps", URL: "https://x/a.mp4"}}},
	}}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/music/search?q=a", nil))

	got := decodeSongs(t, rec)
	if url, ok := got[0].ResolveURL(); !ok || url != "https://x/a.mp4" {
		t.Errorf("ResolveURL() = %q, %v", url, ok)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "https://app.example", "*"},
		{"listed origin", []string{"https://app.example"}, "https://app.example", "https://app.example"},
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeSearcher{}, tt.origins...)
			req := httptest.NewRequest(http.MethodGet, "/api/music/search", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(&fakeSearcher{})
	req := httptest.NewRequest(http.MethodOptions, "/api/music/search", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("missing Allow-Methods")
	}
}

func TestRequestIDPropagates(t *testing.T) {
	s := newTestServer(&fakeSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(&fakeSearcher{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	_ = resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
