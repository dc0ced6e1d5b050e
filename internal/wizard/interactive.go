package wizard

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tessro/auralyn/internal/core"
	"github.com/tessro/auralyn/internal/search"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled  bool
	searcher search.Searcher
	opts     search.PagerOptions
}

// NewInteractive creates a new interactive handler.
func NewInteractive(searcher search.Searcher, opts search.PagerOptions) *Interactive {
	return &Interactive{
		enabled:  true,
		searcher: searcher,
		opts:     opts,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the selected song, or nil if cancelled or not interactive.
func (i *Interactive) PromptSearch(initial string) (*core.Song, error) {
	if !i.CanInteract() || i.searcher == nil {
		return nil, nil
	}
	return RunSearch(i.searcher, initial, i.opts)
}

// PromptSong shows a picker over songs if interactive mode is available.
// Returns the selected song, or nil if cancelled or not interactive.
func (i *Interactive) PromptSong(title string, songs []core.Song) (*core.Song, error) {
	if !i.CanInteract() || len(songs) == 0 {
		return nil, nil
	}
	return PickSong(title, songs)
}

// NeedsQuery returns true if a query argument is required but missing.
func NeedsQuery(args []string) bool {
	return strings.TrimSpace(strings.Join(args, " ")) == ""
}
