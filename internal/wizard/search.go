package wizard

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/search"
)

const searchTimeout = 30 * time.Second

// SearchModel is the bubbletea model for the search wizard.
type SearchModel struct {
	input     textinput.Model
	searcher  search.Searcher
	opts      search.PagerOptions
	pager     *search.Pager
	results   []core.Song
	cursor    int
	selected  *core.Song
	err       error
	debounce  time.Duration
	lastQuery string
	searching bool
	exhausted bool
	width     int
	height    int
}

// Styles
var (
	searchTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	searchResultStyle = lipgloss.NewStyle().
				PaddingLeft(2)

	searchSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	searchSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// NewSearchModel creates a new search wizard model. A non-empty initial
// query is searched right away.
func NewSearchModel(searcher search.Searcher, initial string, opts search.PagerOptions) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search for songs, artists, albums..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50
	ti.SetValue(initial)

	return SearchModel{
		input:    ti,
		searcher: searcher,
		opts:     opts,
		debounce: 300 * time.Millisecond,
		width:    80,
		height:   20,
	}
}

// Init initializes the model.
func (m SearchModel) Init() tea.Cmd {
	if q := m.input.Value(); q != "" {
		return tea.Batch(textinput.Blink, func() tea.Msg { return debounceMsg{query: q} })
	}
	return textinput.Blink
}

// debounceMsg is sent after the debounce period.
type debounceMsg struct {
	query string
}

// searchResultsMsg carries the pager's state after a fetch.
type searchResultsMsg struct {
	pager     *search.Pager
	results   []core.Song
	exhausted bool
	err       error
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				song := m.results[m.cursor]
				m.selected = &song
				return m, tea.Quit
			}

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
				return m, nil
			}
			if m.pager != nil && !m.searching && !m.exhausted {
				m.searching = true
				return m, m.fetch(m.pager, false)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.results = nil
			m.cursor = 0
			m.err = nil
			m.exhausted = false
			if strings.TrimSpace(msg.query) == "" {
				m.pager = nil
				m.searching = false
				return m, nil
			}
			m.pager = search.NewPager(m.searcher, msg.query, m.opts)
			m.searching = true
			return m, m.fetch(m.pager, true)
		}
		return m, nil

	case searchResultsMsg:
		if msg.pager != m.pager {
			return m, nil
		}
		m.searching = false
		m.results = msg.results
		m.exhausted = msg.exhausted
		m.err = msg.err
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.input.Value() != m.lastQuery {
		query := m.input.Value()
		cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// fetch loads the first page, or scans for more.
func (m SearchModel) fetch(p *search.Pager, first bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		if first {
			p.First(ctx)
		} else {
			p.More(ctx)
		}
		return searchResultsMsg{
			pager:     p,
			results:   slices.Clone(p.Songs()),
			exhausted: p.Exhausted(),
			err:       p.Err(),
		}
	}
}

// View renders the model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(searchTitleStyle.Render("🔍 Search"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil && len(m.results) == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + m.err.Error()))
	case m.searching && len(m.results) == 0:
		b.WriteString("Searching...")
	case len(m.results) == 0 && m.lastQuery != "" && strings.TrimSpace(m.input.Value()) != "":
		b.WriteString("No results found")
	default:
		maxResults := m.height - 10
		if maxResults < 5 {
			maxResults = 5
		}
		start := 0
		if m.cursor >= maxResults {
			start = m.cursor - maxResults + 1
		}
		for i := start; i < len(m.results) && i < start+maxResults; i++ {
			song := m.results[i]
			line := song.Name
			if song.Artist != "" {
				line += " " + searchSubtitleStyle.Render(song.Artist)
			}

			if i == m.cursor {
				b.WriteString(searchSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(searchResultStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
		if m.searching {
			b.WriteString(searchSubtitleStyle.Render("  Loading more..."))
		}
	}

	b.WriteString("\n")
	b.WriteString(searchSubtitleStyle.Render("↑/↓ navigate • ↓ at the end loads more • enter select • esc quit"))

	return b.String()
}

// Selected returns the selected song, or nil if none.
func (m SearchModel) Selected() *core.Song {
	return m.selected
}

// RunSearch runs the search wizard and returns the selected song.
func RunSearch(searcher search.Searcher, initial string, opts search.PagerOptions) (*core.Song, error) {
	model := NewSearchModel(searcher, initial, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SearchModel).Selected(), nil
}
