package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow session changes in real-time",
	Long: `Watch the saved session and print changes as they happen.

Events tracked:
  - Song changes
  - Volume and mute changes
  - Shuffle and repeat changes
  - Queue changes

Pause and resume are reported by 'auralyn play --headless', which owns
the live player.

Template fields: {{.Type}} {{.Title}} {{.Artist}} {{.Album}} {{.Volume}}
{{.Muted}} {{.Shuffle}} {{.Repeat}} {{.QueueLen}} {{.Time}}`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", 0, "poll interval (default from config)")

	rootCmd.AddCommand(tailCmd)
}

func tailFormatter() (*tail.Formatter, error) {
	if tailFormat != "" {
		if err := tail.ParseTemplate(tailFormat); err != nil {
			return nil, apperrors.WithSuggestion(
				fmt.Errorf("invalid --format template: %w", err),
				"Templates use Go syntax, e.g. --format '{{.Type}} {{.Title}}'")
		}
	}
	return tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	), nil
}

func runTail(cmd *cobra.Command, args []string) error {
	formatter, err := tailFormatter()
	if err != nil {
		return err
	}

	interval := tailInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Millisecond
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	persister, err := openPersister(ctx)
	if err != nil {
		return err
	}
	defer persister.Store().Close()

	return followEvents(ctx, persister, interval, formatter)
}

// followEvents prints watcher events from source until ctx ends.
func followEvents(ctx context.Context, source core.StateSource, interval time.Duration, formatter *tail.Formatter) error {
	watcher := tail.NewWatcher(source, interval, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
