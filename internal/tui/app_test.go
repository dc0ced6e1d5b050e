package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/search"
)

// fakePlayer records intents and serves a fixed snapshot.
type fakePlayer struct {
	calls   []string
	snap    core.Snapshot
	changes chan struct{}
}

func newFakePlayer(songs ...core.Song) *fakePlayer {
	q := core.NewQueue()
	q.Songs = songs
	if len(songs) > 0 {
		q.CurrentIndex = 0
	}
	return &fakePlayer{
		snap:    core.Snapshot{Queue: q, State: core.PlaybackState{Volume: 0.5}},
		changes: make(chan struct{}, 1),
	}
}

func (p *fakePlayer) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePlayer) PlaySong(s core.Song) { p.record("PlaySong(%s)", s.ID) }
func (p *fakePlayer) PlayQueue(s []core.Song, start int) { p.record("PlayQueue(%d,%d)", len(s), start) }
func (p *fakePlayer) PlayAt(i int) { p.record("PlayAt(%d)", i) }
func (p *fakePlayer) Pause() { p.record("Pause") }
func (p *fakePlayer) TogglePlay() { p.record("TogglePlay") }
func (p *fakePlayer) PlayNext() { p.record("PlayNext") }
func (p *fakePlayer) PlayPrevious() { p.record("PlayPrevious") }
func (p *fakePlayer) SeekTo(d time.Duration) { p.record("SeekTo(%s)", d) }
func (p *fakePlayer) SetVolume(v float64) { p.record("SetVolume(%.2f)", v) }
func (p *fakePlayer) ToggleMute() { p.record("ToggleMute") }
func (p *fakePlayer) AddToQueue(s core.Song) { p.record("AddToQueue(%s)", s.ID) }
func (p *fakePlayer) AddManyToQueue(s []core.Song) int {
	p.record("AddManyToQueue(%d)", len(s))
	return len(s)
}
func (p *fakePlayer) RemoveFromQueue(id string) { p.record("RemoveFromQueue(%s)", id) }
func (p *fakePlayer) ClearQueue() { p.record("ClearQueue") }
func (p *fakePlayer) ToggleShuffle() { p.record("ToggleShuffle") }
func (p *fakePlayer) ToggleRepeat() { p.record("ToggleRepeat") }
func (p *fakePlayer) Snapshot() core.Snapshot { return p.snap }
func (p *fakePlayer) Changes() <-chan struct{} { return p.changes }

func (p *fakePlayer) last() string {
	if len(p.calls) == 0 {
		return ""
	}
	return p.calls[len(p.calls)-1]
}

type searcherFunc func(ctx context.Context, query string, page int) search.Result

func (f searcherFunc) Search(ctx context.Context, query string, page int) search.Result {
	return f(ctx, query, page)
}

func songs(ids ...string) []core.Song {
	out := make([]core.Song, len(ids))
	for i, id := range ids {
		out[i] = core.Song{ID: id, Name: "Song " + id, Artist: "Artist"}
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func newTestModel(p *fakePlayer, src search.Searcher) Model {
	if src == nil {
		src = searcherFunc(func(context.Context, string, int) search.Result {
			return search.Result{Songs: []core.Song{}}
		})
	}
	return NewModel(NewApp(p, src, nil, Options{}))
}

func TestPlaybackKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{runes(" "), "TogglePlay"},
		{runes("n"), "PlayNext"},
		{runes("p"), "PlayPrevious"},
		{runes("+"), "SetVolume(0.55)"},
		{runes("-"), "SetVolume(0.45)"},
		{runes("m"), "ToggleMute"},
		{runes("s"), "ToggleShuffle"},
		{runes("r"), "ToggleRepeat"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := newFakePlayer()
			press(t, newTestModel(p, nil), tt.key)
			if p.last() != tt.want {
				t.Errorf("calls = %v, want %s", p.calls, tt.want)
			}
		})
	}
}

func TestSeekKeys(t *testing.T) {
	p := newFakePlayer(songs("a")...)
	song := p.snap.Queue.Songs[0]
	p.snap.State.Song = &song
	p.snap.State.Position = 3 * time.Second

	m := newTestModel(p, nil)
	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if p.last() != "SeekTo(8s)" {
		t.Errorf("right: calls = %v", p.calls)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if p.last() != "SeekTo(0s)" {
		t.Errorf("left: calls = %v", p.calls)
	}
}

func TestSeekWithoutSongIsIgnored(t *testing.T) {
	p := newFakePlayer()
	press(t, newTestModel(p, nil), tea.KeyMsg{Type: tea.KeyRight})
	if len(p.calls) != 0 {
		t.Errorf("calls = %v, want none", p.calls)
	}
}

func TestQueuePanelKeys(t *testing.T) {
	p := newFakePlayer(songs("a", "b", "c")...)
	m := newTestModel(p, nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.focusedPanel != PanelQueue {
		t.Fatalf("focused = %v, want queue", m.focusedPanel)
	}
	if p.last() != "PlayAt(1)" {
		t.Errorf("enter: calls = %v", p.calls)
	}

	press(t, m, runes("d"))
	if p.last() != "RemoveFromQueue(b)" {
		t.Errorf("d: calls = %v", p.calls)
	}

	press(t, m, runes("c"))
	if p.last() != "ClearQueue" {
		t.Errorf("c: calls = %v", p.calls)
	}
}

func TestQueueSelectionStopsAtEnd(t *testing.T) {
	p := newFakePlayer(songs("a", "b")...)
	m := newTestModel(p, nil)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("j"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if p.last() != "PlayAt(1)" {
		t.Errorf("calls = %v", p.calls)
	}
}

func TestPanelCycle(t *testing.T) {
	m := newTestModel(newFakePlayer(), nil)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedPanel != PanelHistory {
		t.Errorf("shift+tab from now playing = %v, want history", m.focusedPanel)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedPanel != PanelNowPlaying {
		t.Errorf("tab from history = %v, want now playing", m.focusedPanel)
	}
}

func runSearch(t *testing.T, m Model, query string) Model {
	t.Helper()
	m = press(t, m, runes("/"))
	m.searchInput.SetValue(query)

	next, cmd := m.Update(searchDebounceMsg{query: query})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("debounce should start a search")
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestSearchPlayAndQueue(t *testing.T) {
	var gotQuery string
	src := searcherFunc(func(_ context.Context, q string, page int) search.Result {
		gotQuery = q
		if page > 0 {
			return search.Result{Songs: []core.Song{}}
		}
		return search.Result{Songs: songs("x", "y"), Total: 2}
	})

	t.Run("enter plays", func(t *testing.T) {
		p := newFakePlayer()
		m := runSearch(t, newTestModel(p, src), "lofi")
		if gotQuery != "lofi" || len(m.searchResults) != 2 {
			t.Fatalf("query=%q results=%v", gotQuery, m.searchResults)
		}
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
		if p.last() != "PlaySong(y)" {
			t.Errorf("calls = %v", p.calls)
		}
		if m.showSearch {
			t.Error("search should close after play")
		}
	})

	t.Run("ctrl+q queues", func(t *testing.T) {
		p := newFakePlayer()
		m := runSearch(t, newTestModel(p, src), "lofi")
		press(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
		if p.last() != "AddToQueue(x)" {
			t.Errorf("calls = %v", p.calls)
		}
	})

	t.Run("ctrl+a plays all", func(t *testing.T) {
		p := newFakePlayer()
		m := runSearch(t, newTestModel(p, src), "lofi")
		press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyCtrlA})
		if p.last() != "PlayQueue(2,1)" {
			t.Errorf("calls = %v", p.calls)
		}
	})
}

func TestSearchLoadsMoreAtBottom(t *testing.T) {
	src := searcherFunc(func(_ context.Context, _ string, page int) search.Result {
		if page == 0 {
			return search.Result{Songs: songs("a"), Total: 2}
		}
		return search.Result{Songs: songs("a", "b"), Total: 2}
	})
	m := runSearch(t, newTestModel(newFakePlayer(), src), "q")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if cmd == nil || !m.searching {
		t.Fatal("down at the last result should fetch more")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if len(m.searchResults) != 2 || m.searchResults[1].ID != "b" {
		t.Errorf("results = %v, want a,b", m.searchResults)
	}
}

func TestSearchIgnoresStaleResults(t *testing.T) {
	src := searcherFunc(func(_ context.Context, q string, _ int) search.Result {
		return search.Result{Songs: songs(q)}
	})
	m := newTestModel(newFakePlayer(), src)
	m = press(t, m, runes("/"))

	m.searchInput.SetValue("old")
	next, oldCmd := m.Update(searchDebounceMsg{query: "old"})
	m = next.(Model)

	m.searchInput.SetValue("new")
	next, newCmd := m.Update(searchDebounceMsg{query: "new"})
	m = next.(Model)

	next, _ = m.Update(newCmd())
	m = next.(Model)
	next, _ = m.Update(oldCmd())
	m = next.(Model)

	if len(m.searchResults) != 1 || m.searchResults[0].ID != "new" {
		t.Errorf("results = %v, want only the latest query", m.searchResults)
	}
}

func TestBlankSearchClearsResults(t *testing.T) {
	m := newTestModel(newFakePlayer(), nil)
	m = press(t, m, runes("/"))
	m.searchInput.SetValue("  ")
	next, cmd := m.Update(searchDebounceMsg{query: "  "})
	m = next.(Model)
	if cmd != nil || m.pager != nil || m.searching {
		t.Errorf("blank query should not search: cmd=%v pager=%v", cmd != nil, m.pager)
	}
}

func TestTrendingPanel(t *testing.T) {
	src := searcherFunc(func(_ context.Context, q string, _ int) search.Result {
		return search.Result{Songs: songs("t1", "t2", "t3")}
	})
	p := newFakePlayer()
	m := NewModel(NewApp(p, src, search.NewTrending(src, time.Minute), Options{}))
	if !m.trendingLoading {
		t.Fatal("trending should start loading")
	}

	next, _ := m.Update(m.fetchTrending(m.currentKind())())
	m = next.(Model)
	if m.trendingLoading || len(m.trendingSongs) != 3 {
		t.Fatalf("loading=%v songs=%v", m.trendingLoading, m.trendingSongs)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if p.last() != "PlayQueue(3,1)" {
		t.Errorf("enter: calls = %v", p.calls)
	}
	m = press(t, m, runes("a"))
	if p.last() != "AddToQueue(t2)" {
		t.Errorf("a: calls = %v", p.calls)
	}

	next, cmd := m.Update(runes("t"))
	m = next.(Model)
	if cmd == nil || m.currentKind() != search.TrendingKinds()[1] || !m.trendingLoading {
		t.Errorf("t should switch lists: kind=%s loading=%v", m.currentKind(), m.trendingLoading)
	}
}

func TestChangesRefreshSnapshot(t *testing.T) {
	p := newFakePlayer()
	m := newTestModel(p, nil)

	p.snap.State.Volume = 0.9
	p.changes <- struct{}{}
	msg := m.waitForChange()()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if m.snap.State.Volume != 0.9 {
		t.Errorf("volume = %v, want 0.9", m.snap.State.Volume)
	}
	if cmd == nil {
		t.Error("change listener should be re-armed")
	}
}

func TestViewShowsLastError(t *testing.T) {
	p := newFakePlayer(songs("a")...)
	p.snap.LastError = fmt.Errorf("cannot play this song")
	m := newTestModel(p, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "cannot play this song") {
		t.Error("view should show the last error")
	}
	if !strings.Contains(view, "Song a") {
		t.Error("view should list the queue")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(newFakePlayer(), nil)
	next, cmd := m.Update(runes("q"))
	if cmd == nil || !next.(Model).quitting {
		t.Error("q should quit")
	}
}
