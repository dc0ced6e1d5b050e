package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/search"
	"github.com/tessro/auralyn/internal/wizard"
)

var (
	searchPage  int
	searchPages int
	searchPick  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search for songs through the search proxy.

Without a query on a terminal, opens an interactive search. With --pick the
chosen song is added to the queue.

Examples:
  auralyn search "tum hi ho"
  auralyn search lofi --pages 3     # scan ahead, skipping repeated results
  auralyn search arijit --pick`,
	RunE: runSearch,
}

var trendingPick bool

var trendingCmd = &cobra.Command{
	Use:       "trending [kind]",
	Short:     "Show a trending list",
	Long:      `Show a curated trending list: ` + strings.Join(search.TrendingKinds(), ", ") + ` (default global).`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: search.TrendingKinds(),
	RunE:      runTrending,
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "result page to fetch")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "pages of unique results to collect")
	searchCmd.Flags().BoolVar(&searchPick, "pick", false, "pick a result and add it to the queue")
	trendingCmd.Flags().BoolVar(&trendingPick, "pick", false, "pick a song and add it to the queue")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := searchClient()
	interactive := wizard.NewInteractive(client, pagerOptions())
	interactive.SetEnabled(!JSONOutput())

	if wizard.NeedsQuery(args) {
		song, err := interactive.PromptSearch("")
		if err != nil {
			return err
		}
		if song == nil {
			if !interactive.CanInteract() {
				return fmt.Errorf("search query required")
			}
			return nil
		}
		return enqueue(ctx, *song)
	}

	query := strings.Join(args, " ")
	songs, err := collectSongs(ctx, client, query)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if searchPick {
		song, err := interactive.PromptSong("Add to queue", songs)
		if err != nil {
			return err
		}
		if song != nil {
			return enqueue(ctx, *song)
		}
		return nil
	}

	if JSONOutput() {
		return printJSON(nonNil(songs))
	}
	if len(songs) == 0 {
		fmt.Println("No songs found")
		return nil
	}
	writeSongs(os.Stdout, songs, core.NoCursor)
	return nil
}

// collectSongs fetches --page, or with --pages > 1 scans forward for unique
// results. A failed request is returned alongside whatever was collected.
func collectSongs(ctx context.Context, src search.Searcher, query string) ([]core.Song, error) {
	if searchPages <= 1 {
		res := src.Search(ctx, query, searchPage)
		return res.Songs, res.Err
	}

	pager := search.NewPager(src, query, pagerOptions())
	pager.First(ctx)
	for i := 1; i < searchPages && !pager.Exhausted(); i++ {
		if pager.More(ctx) == nil && pager.Err() != nil {
			break
		}
	}
	return slices.Clone(pager.Songs()), pager.Err()
}

func runTrending(cmd *cobra.Command, args []string) error {
	kind := "global"
	if len(args) == 1 {
		kind = strings.ToLower(args[0])
	}
	if !slices.Contains(search.TrendingKinds(), kind) {
		return apperrors.WithSuggestion(
			fmt.Errorf("unknown trending list %q", kind),
			"Use one of: "+strings.Join(search.TrendingKinds(), ", "))
	}

	client := searchClient()
	songs := newTrending(client).Get(cmd.Context(), kind)

	if trendingPick {
		interactive := wizard.NewInteractive(client, pagerOptions())
		song, err := interactive.PromptSong("Trending: "+kind, songs)
		if err != nil {
			return err
		}
		if song != nil {
			return enqueue(cmd.Context(), *song)
		}
		return nil
	}

	if JSONOutput() {
		return printJSON(nonNil(songs))
	}
	if len(songs) == 0 {
		fmt.Println("Nothing trending right now")
		return nil
	}
	writeSongs(os.Stdout, songs, core.NoCursor)
	return nil
}
