package tui

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/search"
	"github.com/tessro/auralyn/internal/tui/components"
	"github.com/tessro/auralyn/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
	PanelTrending
	PanelHistory
	panelCount
)

const (
	searchDebounce = 300 * time.Millisecond
	searchTimeout  = 30 * time.Second
	volumeStep     = 0.05
	seekStep       = 5 * time.Second
)

// Options tunes the TUI.
type Options struct {
	RefreshRate time.Duration
	Pager       search.PagerOptions
}

// App holds what the TUI drives: a player and a search source.
type App struct {
	player   core.Player
	searcher search.Searcher
	trending *search.Trending
	opts     Options
}

// NewApp creates a new TUI application
func NewApp(player core.Player, searcher search.Searcher, trending *search.Trending, opts Options) *App {
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = 500 * time.Millisecond
	}
	return &App{
		player:   player,
		searcher: searcher,
		trending: trending,
		opts:     opts,
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	snap core.Snapshot

	// Components
	nowPlaying   *components.NowPlaying
	queueView    *components.Queue
	trendingView *components.Trending
	historyView  *components.History

	// Trending
	trendingKinds   []string
	trendingKind    int
	trendingSongs   []core.Song
	trendingLoading bool

	// Overlays
	showHelp bool

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	pager         *search.Pager
	searchResults []core.Song
	searchTotal   int
	searchCursor  int
	searching     bool
	exhausted     bool
	lastQuery     string
	searchErr     error

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Search songs, artists, albums..."
	ti.CharLimit = 100
	ti.Width = 50

	return Model{
		app:           app,
		focusedPanel:  PanelNowPlaying,
		snap:          app.player.Snapshot(),
		nowPlaying:    components.NewNowPlaying(),
		queueView:     components.NewQueue(),
		trendingView:  components.NewTrending(),
		historyView:   components.NewHistory(),
		trendingKinds: search.TrendingKinds(),
		searchInput:   ti,

		trendingLoading: app.trending != nil,
	}
}

// Messages
type tickMsg time.Time
type changedMsg struct{}
type trendingMsg struct {
	kind  string
	songs []core.Song
}

// Search messages
type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	pager     *search.Pager
	songs     []core.Song
	total     int
	exhausted bool
	err       error
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.opts.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks on the player's change signal. It is re-armed
// after every delivery.
func (m Model) waitForChange() tea.Cmd {
	ch := m.app.player.Changes()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) currentKind() string {
	if len(m.trendingKinds) == 0 {
		return ""
	}
	return m.trendingKinds[m.trendingKind]
}

func (m Model) fetchTrending(kind string) tea.Cmd {
	if m.app.trending == nil || kind == "" {
		return nil
	}
	trending := m.app.trending
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		return trendingMsg{kind: kind, songs: trending.Get(ctx, kind)}
	}
}

// pagerResults snapshots a pager after a fetch. The pager is only touched
// by one command at a time.
func pagerResults(p *search.Pager) searchResultsMsg {
	return searchResultsMsg{
		pager:     p,
		songs:     slices.Clone(p.Songs()),
		total:     p.Total(),
		exhausted: p.Exhausted(),
		err:       p.Err(),
	}
}

func firstPage(p *search.Pager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		p.First(ctx)
		return pagerResults(p)
	}
}

func morePages(p *search.Pager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		p.More(ctx)
		return pagerResults(p)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.waitForChange(),
		m.fetchTrending(m.currentKind()),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.snap = m.app.player.Snapshot()
		return m, m.tick()

	case changedMsg:
		m.snap = m.app.player.Snapshot()
		return m, m.waitForChange()

	case trendingMsg:
		if msg.kind == m.currentKind() {
			m.trendingLoading = false
			m.trendingSongs = msg.songs
		}
		return m, nil

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			return m.startSearch(msg.query)
		}

	case searchResultsMsg:
		if msg.pager != m.pager {
			return m, nil
		}
		m.searching = false
		m.searchResults = msg.songs
		m.searchTotal = msg.total
		m.exhausted = msg.exhausted
		m.searchErr = msg.err
		if m.searchCursor >= len(m.searchResults) {
			m.searchCursor = max(len(m.searchResults)-1, 0)
		}
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m Model) startSearch(query string) (tea.Model, tea.Cmd) {
	m.searchResults = nil
	m.searchCursor = 0
	m.searchErr = nil
	m.exhausted = false

	if strings.TrimSpace(query) == "" {
		m.pager = nil
		m.searching = false
		return m, nil
	}

	m.pager = search.NewPager(m.app.searcher, query, m.app.opts.Pager)
	m.searching = true
	return m, firstPage(m.pager)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	player := m.app.player

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case " ":
		player.TogglePlay()
	case "n":
		player.PlayNext()
	case "p":
		player.PlayPrevious()
	case "+", "=":
		player.SetVolume(math.Min(m.snap.State.Volume+volumeStep, 1))
	case "-":
		player.SetVolume(math.Max(m.snap.State.Volume-volumeStep, 0))
	case "m":
		player.ToggleMute()
	case "s":
		player.ToggleShuffle()
	case "r":
		player.ToggleRepeat()
	case "right", "l":
		if m.snap.State.HasSong() {
			player.SeekTo(m.snap.State.Position + seekStep)
		}
	case "left", "h":
		if m.snap.State.HasSong() {
			player.SeekTo(max(m.snap.State.Position-seekStep, 0))
		}

	default:
		switch m.focusedPanel {
		case PanelQueue:
			return m.handleQueueKey(msg)
		case PanelTrending:
			return m.handleTrendingKey(msg)
		}
		return m, nil
	}

	m.snap = player.Snapshot()
	return m, nil
}

func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	queue := m.snap.Queue
	n := 0
	if queue != nil {
		n = queue.Len()
	}

	switch msg.String() {
	case "j", "down":
		m.queueView.SelectNext(n)
	case "k", "up":
		m.queueView.SelectPrev()
	case "enter":
		if n > 0 {
			m.app.player.PlayAt(m.queueView.Selected())
		}
	case "d", "x":
		if sel := m.queueView.Selected(); sel < n {
			m.app.player.RemoveFromQueue(queue.Songs[sel].ID)
			m.queueView.Clamp(n - 1)
		}
	case "c":
		m.app.player.ClearQueue()
		m.queueView.Clamp(0)
	default:
		return m, nil
	}

	m.snap = m.app.player.Snapshot()
	return m, nil
}

func (m Model) handleTrendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.trendingSongs)

	switch msg.String() {
	case "j", "down":
		m.trendingView.SelectNext(n)
	case "k", "up":
		m.trendingView.SelectPrev()
	case "enter":
		if n > 0 {
			m.app.player.PlayQueue(m.trendingSongs, m.trendingView.Selected())
		}
	case "a":
		if n > 0 {
			m.app.player.AddToQueue(m.trendingSongs[m.trendingView.Selected()])
		}
	case "t":
		if len(m.trendingKinds) == 0 {
			return m, nil
		}
		m.trendingKind = (m.trendingKind + 1) % len(m.trendingKinds)
		m.trendingSongs = nil
		m.trendingLoading = true
		m.trendingView.Reset()
		return m, m.fetchTrending(m.currentKind())
	default:
		return m, nil
	}

	m.snap = m.app.player.Snapshot()
	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if song, ok := m.selectedResult(); ok {
			m.app.player.PlaySong(song)
			m.closeSearch()
		}
		return m, nil

	case "ctrl+a":
		if _, ok := m.selectedResult(); ok {
			m.app.player.PlayQueue(m.searchResults, m.searchCursor)
			m.closeSearch()
		}
		return m, nil

	case "ctrl+q":
		if song, ok := m.selectedResult(); ok {
			m.app.player.AddToQueue(song)
			m.closeSearch()
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
			return m, nil
		}
		// At the bottom: scan further pages
		if m.pager != nil && !m.searching && !m.exhausted {
			m.searching = true
			return m, morePages(m.pager)
		}
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.searchInput.Value() != m.lastQuery {
		query := m.searchInput.Value()
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) selectedResult() (core.Song, bool) {
	if m.searchCursor < 0 || m.searchCursor >= len(m.searchResults) {
		return core.Song{}, false
	}
	return m.searchResults[m.searchCursor], true
}

func (m *Model) closeSearch() {
	m.showSearch = false
	m.searchInput.Blur()
	m.snap = m.app.player.Snapshot()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	// Show overlays if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Left: Now Playing (top), Queue (bottom)
	// Right: Trending (top), History (bottom)
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	nowPlaying := m.nowPlaying.Render(&m.snap, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(m.snap.Queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	trendingView := m.trendingView.Render(m.currentKind(), m.trendingSongs, m.trendingLoading,
		rightWidth-2, topHeight-2, m.focusedPanel == PanelTrending)
	historyView := m.historyView.Render(m.snap.History, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, trendingView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  n:next  p:prev  +/-:volume  m:mute  tab:switch panel")

	if m.snap.LastError != nil {
		status = styles.Failure.Render("Error: " + m.snap.LastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Auralyn - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  Tab          Next panel
  Shift+Tab    Previous panel

  Playback
  ────────
  Space        Play/Pause
  n            Next song
  p            Previous song (restart after 3s)
  ←/→          Seek 5s
  +/=          Volume up
  -            Volume down
  m            Mute
  s            Shuffle
  r            Repeat off/all/one

  Queue Panel
  ───────────
  j/↓  k/↑     Move selection
  Enter        Play selected
  d/x          Remove selected
  c            Clear queue

  Trending Panel
  ──────────────
  j/↓  k/↑     Move selection
  Enter        Play list from selected
  a            Add to queue
  t            Next list

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	maxResults := 10
	if m.height > 16 {
		maxResults = m.height - 14
	}

	switch {
	case m.searchErr != nil && len(m.searchResults) == 0:
		b.WriteString(styles.Failure.Render("Error: " + m.searchErr.Error()))
	case m.searching && len(m.searchResults) == 0:
		b.WriteString(styles.Subtitle.Render("Searching..."))
	case len(m.searchResults) == 0 && m.lastQuery != "" && strings.TrimSpace(m.searchInput.Value()) != "":
		b.WriteString(styles.Subtitle.Render("No results found"))
	default:
		// Window the list around the cursor
		start := 0
		if m.searchCursor >= maxResults {
			start = m.searchCursor - maxResults + 1
		}
		for i := start; i < len(m.searchResults) && i < start+maxResults; i++ {
			song := m.searchResults[i]
			line := song.Name
			if song.Artist != "" {
				line += " " + styles.Subtitle.Render(song.Artist)
			}

			if i == m.searchCursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}

		switch {
		case m.searching:
			b.WriteString(styles.Subtitle.Render("  Loading more..."))
		case len(m.searchResults) > 0 && !m.exhausted:
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %d of ~%d, ↓ at the end for more", len(m.searchResults), max(m.searchTotal, len(m.searchResults)))))
		case len(m.searchResults) > 0:
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("  %d results", len(m.searchResults))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("↑/↓:nav  Enter:play  Ctrl+a:play all  Ctrl+q:queue  Esc:close"))

	content := lipgloss.NewStyle().
		Width(64).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
