package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session",
	Long:  `Shows the current song, queue position, volume and modes of the saved session.`,
	RunE:  runStatus,
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"recent"},
	Short:   "Show recently played songs",
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	persister, err := openPersister(cmd.Context())
	if err != nil {
		return err
	}
	defer persister.Store().Close()

	snap, err := persister.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"song":        snap.State.Song,
			"queue_index": snap.Queue.CurrentIndex,
			"queue_len":   snap.Queue.Len(),
			"volume":      snap.State.Volume,
			"muted":       snap.State.Muted,
			"shuffle":     snap.Mode.Shuffle,
			"repeat":      snap.Mode.Repeat,
		})
	}
	writeStatus(snap)
	return nil
}

func writeStatus(snap *core.Snapshot) {
	if snap.State.Song == nil {
		fmt.Println("No song loaded")
	} else {
		song := snap.State.Song
		fmt.Printf("♪ %s\n", song.Name)
		if song.Album != "" {
			fmt.Printf("    %s — %s\n", song.Artist, song.Album)
		} else if song.Artist != "" {
			fmt.Printf("    %s\n", song.Artist)
		}
		if song.Duration > 0 {
			fmt.Printf("    %s\n", FormatDuration(song.Duration))
		}
	}

	if !snap.Queue.IsEmpty() {
		pos := "-"
		if snap.Queue.ValidIndex(snap.Queue.CurrentIndex) {
			pos = fmt.Sprintf("%d", snap.Queue.CurrentIndex+1)
		}
		fmt.Printf("  Queue:   %s of %d\n", pos, snap.Queue.Len())
	}

	volume := FormatVolume(snap.State.Volume)
	if snap.State.Muted {
		volume += " (muted)"
	}
	fmt.Printf("  Volume:  %s\n", volume)
	fmt.Printf("  Shuffle: %s\n", onOff(snap.Mode.Shuffle))
	fmt.Printf("  Repeat:  %s\n", snap.Mode.Repeat)
}

func runHistory(cmd *cobra.Command, args []string) error {
	persister, err := openPersister(cmd.Context())
	if err != nil {
		return err
	}
	defer persister.Store().Close()

	snap, err := persister.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	entries := snap.History
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}

	if JSONOutput() {
		if entries == nil {
			entries = []core.HistoryEntry{}
		}
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Nothing played yet")
		return nil
	}

	now := time.Now()
	t := NewTableWriter(os.Stdout, "TITLE", "ARTIST", "PLAYED")
	for _, e := range entries {
		t.Row(
			TruncateString(e.Song.Name, 40),
			TruncateString(e.Song.Artist, 30),
			humanize.RelTime(e.PlayedAt, now, "ago", "from now"),
		)
	}
	t.Flush()
	return nil
}
