package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

var queueAddAll bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the play queue",
	Long:  `View and manage the saved play queue.`,
	RunE:  runQueueList,
}

var queueAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search and add songs to the queue",
	Long: `Search for a song and add the top result to the queue.

Examples:
  auralyn queue add "tum hi ho"
  auralyn queue add lofi --all     # add the whole first page`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueueAdd,
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <position|id>",
	Short: "Remove a song from the queue",
	Long: `Remove a song by its 1-based queue position or its id. Removing the
current song stops playback.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueRemove,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the queue",
	RunE:  runQueueClear,
}

var queueJumpCmd = &cobra.Command{
	Use:   "jump <position>",
	Short: "Make a queued song current",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueJump,
}

func init() {
	queueAddCmd.Flags().BoolVarP(&queueAddAll, "all", "a", false, "add every result on the first page")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueRemoveCmd)
	queueCmd.AddCommand(queueClearCmd)
	queueCmd.AddCommand(queueJumpCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	queue := p.Snapshot().Queue
	if JSONOutput() {
		return printJSON(queue)
	}
	if queue.IsEmpty() {
		fmt.Println("Queue is empty")
		return nil
	}
	writeSongs(os.Stdout, queue.Songs, queue.CurrentIndex)
	return nil
}

// enqueue adds one song to the saved queue and reports it.
func enqueue(ctx context.Context, song core.Song) error {
	p, err := openSilentPlayer(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	before := p.Snapshot().Queue.Len()
	p.AddToQueue(song)
	added := p.Snapshot().Queue.Len() > before

	if JSONOutput() {
		return printJSON(map[string]any{"added": added, "song": song})
	}
	if added {
		fmt.Printf("Added to queue: %s\n", songTitle(song))
	} else {
		fmt.Printf("Already queued: %s\n", songTitle(song))
	}
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	res := searchClient().Search(ctx, query, 0)
	if res.Err != nil {
		return apperrors.WithSuggestion(res.Err, "Check that 'auralyn serve' is running at "+cfg.Client.APIBase)
	}
	if len(res.Songs) == 0 {
		return fmt.Errorf("%w for %q", apperrors.ErrNoResults, query)
	}

	if !queueAddAll {
		return enqueue(ctx, res.Songs[0])
	}

	batch := playable(res.Songs)

	p, err := openSilentPlayer(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	added := p.AddManyToQueue(batch.Data)

	if JSONOutput() {
		return printJSON(map[string]any{
			"added":   added,
			"skipped": len(batch.Errors),
		})
	}
	fmt.Printf("Added %d of %d songs\n", added, len(res.Songs))
	if batch.HasErrors() {
		fmt.Fprintf(os.Stderr, "Skipped: %s\n", batch.ErrorSummary())
	}
	return nil
}

// playable keeps songs with a resolvable media url and records the rest.
func playable(songs []core.Song) apperrors.PartialResult[[]core.Song] {
	var out apperrors.PartialResult[[]core.Song]
	for _, s := range songs {
		if _, ok := s.ResolveURL(); !ok {
			out.AddError(fmt.Errorf("%s: %w", songTitle(s), apperrors.ErrUnresolvableMedia))
			continue
		}
		out.Data = append(out.Data, s)
	}
	return out
}

// resolveQueueRef maps a 1-based position or an id onto a queued song.
func resolveQueueRef(q *core.Queue, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if !q.ValidIndex(n - 1) {
			return core.NoCursor, fmt.Errorf("position %d out of range (queue has %d songs)", n, q.Len())
		}
		return n - 1, nil
	}
	if i := q.IndexOf(ref); i != core.NoCursor {
		return i, nil
	}
	return core.NoCursor, fmt.Errorf("no queued song with id %q", ref)
}

func runQueueRemove(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	queue := p.Snapshot().Queue
	i, err := resolveQueueRef(queue, args[0])
	if err != nil {
		return err
	}
	song := queue.Songs[i]
	p.RemoveFromQueue(song.ID)

	if JSONOutput() {
		return printJSON(map[string]any{"removed": song})
	}
	fmt.Printf("Removed: %s\n", songTitle(song))
	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	p.ClearQueue()

	if JSONOutput() {
		return printJSON(map[string]string{"status": "cleared"})
	}
	fmt.Println("Queue cleared")
	return nil
}

func runQueueJump(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	i, err := resolveQueueRef(p.Snapshot().Queue, args[0])
	if err != nil {
		return err
	}
	p.PlayAt(i)
	return reportCurrent(p.Snapshot())
}
