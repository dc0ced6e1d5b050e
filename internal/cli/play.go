package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/core"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/tail"
	"github.com/tessro/auralyn/internal/transport"
	"github.com/tessro/auralyn/internal/tui"
)

var (
	playHeadless bool
	playSilent   bool
)

var playCmd = &cobra.Command{
	Use:     "play [query]",
	Aliases: []string{"ui"},
	Short:   "Launch the player",
	Long: `Launch the interactive player, restoring the saved session.
With a query, the search results replace the queue and start playing.

The dashboard provides a live view with:
  • Now Playing - current song, progress, volume and modes
  • Queue - the play queue
  • Trending - trending songs by region
  • History - recently played songs

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  n / p        Next / previous song
  ←/→          Seek 5s
  +/-          Volume up/down
  m            Mute
  s / r        Shuffle / repeat
  Tab          Switch panel

With --headless, no dashboard is drawn. Playback events are printed and
commands are read from stdin, one per line:
  pause | resume | toggle | next | prev | seek <seconds> | volume <0-100>
  mute | shuffle | repeat | quit`,
	RunE: runPlay,
	Annotations: map[string]string{
		annotationFullScreen: "true",
	},
}

func init() {
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "play without the dashboard, reading commands from stdin")
	playCmd.Flags().BoolVar(&playSilent, "silent", false, "simulate playback without audio output")
	rootCmd.AddCommand(playCmd)
}

// openTransport picks the audio backend, falling back to silent playback.
func openTransport() transport.Transport {
	if playSilent {
		return transport.NewSilent()
	}
	t, err := transport.OpenAudio(log)
	if err != nil {
		log.Warn("audio output unavailable, playing silently", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Warning: %v; playing silently\n", err)
		return transport.NewSilent()
	}
	return t
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p, err := openPlayer(ctx, openTransport())
	if err != nil {
		return err
	}
	defer p.Close()

	go func() { _ = p.Run(ctx) }()

	client := searchClient()
	if query := strings.TrimSpace(strings.Join(args, " ")); query != "" {
		res := client.Search(ctx, query, 0)
		if res.Err != nil {
			return apperrors.WithSuggestion(res.Err, "Check that 'auralyn serve' is running at "+cfg.Client.APIBase)
		}
		if len(res.Songs) == 0 {
			return fmt.Errorf("%w for %q", apperrors.ErrNoResults, query)
		}
		p.PlayQueue(res.Songs, 0)
	}

	if playHeadless {
		return runHeadless(ctx, p, os.Stdin)
	}

	app := tui.NewApp(p, client, newTrending(client), tui.Options{
		RefreshRate: time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond,
		Pager:       pagerOptions(),
	})
	return tui.Run(ctx, app)
}

// runHeadless prints live events and applies commands read from in until
// ctx ends or a quit command arrives.
func runHeadless(ctx context.Context, p core.Player, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			quit, err := headlessCommand(p, scanner.Text())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if quit {
				return
			}
		}
	}()

	formatter, err := tailFormatter()
	if err != nil {
		return err
	}
	return followEvents(ctx, tail.PlayerSource{Player: p}, 250*time.Millisecond, formatter)
}

// headlessCommand applies one stdin command. It reports whether the
// player should exit.
func headlessCommand(p core.Player, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	arg := func() (string, error) {
		if len(fields) < 2 {
			return "", fmt.Errorf("%s needs an argument", fields[0])
		}
		return fields[1], nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "pause":
		p.Pause()
	case "resume", "play":
		switch p.Snapshot().State.Status {
		case core.StatusPaused, core.StatusIdle, core.StatusStopped:
			p.TogglePlay()
		}
	case "toggle":
		p.TogglePlay()
	case "next":
		p.PlayNext()
	case "prev":
		p.PlayPrevious()
	case "seek":
		s, err := arg()
		if err != nil {
			return false, err
		}
		secs, err := strconv.Atoi(s)
		if err != nil || secs < 0 {
			return false, fmt.Errorf("invalid seek position: %s", s)
		}
		p.SeekTo(time.Duration(secs) * time.Second)
	case "volume":
		s, err := arg()
		if err != nil {
			return false, err
		}
		v, err := parseVolume(s)
		if err != nil {
			return false, err
		}
		p.SetVolume(v)
	case "mute":
		p.ToggleMute()
	case "shuffle":
		p.ToggleShuffle()
	case "repeat":
		p.ToggleRepeat()
	default:
		return false, fmt.Errorf("unknown command: %s", fields[0])
	}
	return false, nil
}
