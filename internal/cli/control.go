package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/core"
)

const volumeStep = 0.1

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next song",
	Long:  `Move the saved queue to the next song, honoring shuffle and repeat.`,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous song",
	Long:  `Move the saved queue back one song.`,
	RunE:  runPrev,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down.

Examples:
  auralyn volume 50      # Set volume to 50%
  auralyn volume --up    # Increase volume by 10%
  auralyn volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var muteCmd = &cobra.Command{
	Use:   "mute",
	Short: "Toggle mute",
	RunE:  runMute,
}

var shuffleCmd = &cobra.Command{
	Use:       "shuffle [on|off]",
	Short:     "Set or toggle shuffle",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runShuffle,
}

var repeatCmd = &cobra.Command{
	Use:   "repeat [off|all|one]",
	Short: "Set or cycle repeat mode",
	Long: `Set the repeat mode. Without an argument, cycles off → all → one → off.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"off", "all", "one"},
	RunE:      runRepeat,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(repeatCmd)
}

// reportCurrent prints the current song after a queue move.
func reportCurrent(snap core.Snapshot) error {
	if JSONOutput() {
		return printJSON(map[string]any{
			"status": snap.State.Status.String(),
			"song":   snap.State.Song,
			"index":  snap.Queue.CurrentIndex,
		})
	}
	if snap.State.Song == nil {
		fmt.Println("⏹ Stopped")
		return nil
	}
	fmt.Printf("%s %s (%d/%d)\n", StatusIcon(snap.State.Status), songTitle(*snap.State.Song),
		snap.Queue.CurrentIndex+1, snap.Queue.Len())
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	if p.Snapshot().Queue.IsEmpty() {
		return fmt.Errorf("queue is empty")
	}
	p.PlayNext()
	return reportCurrent(p.Snapshot())
}

func runPrev(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	if p.Snapshot().Queue.IsEmpty() {
		return fmt.Errorf("queue is empty")
	}
	p.PlayPrevious()
	return reportCurrent(p.Snapshot())
}

// parseVolume reads a 0-100 percentage into the player's 0-1 range.
func parseVolume(s string) (float64, error) {
	level, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid volume level: %s", s)
	}
	if level < 0 || level > 100 {
		return 0, fmt.Errorf("volume must be between 0 and 100")
	}
	return float64(level) / 100, nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	current := p.Snapshot().State.Volume
	target := current
	switch {
	case volumeUp:
		target = current + volumeStep
	case volumeDown:
		target = current - volumeStep
	case len(args) == 1:
		target, err = parseVolume(args[0])
		if err != nil {
			return err
		}
	}
	if target != current {
		p.SetVolume(target)
	}

	state := p.Snapshot().State
	if JSONOutput() {
		return printJSON(map[string]any{"volume": state.Volume, "muted": state.Muted})
	}
	fmt.Printf("🔊 Volume: %s\n", FormatVolume(state.Volume))
	return nil
}

func runMute(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	p.ToggleMute()

	muted := p.Snapshot().State.Muted
	if JSONOutput() {
		return printJSON(map[string]bool{"muted": muted})
	}
	if muted {
		fmt.Println("🔇 Muted")
	} else {
		fmt.Println("🔊 Unmuted")
	}
	return nil
}

// parseSwitch reads on/off style arguments.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func runShuffle(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	if len(args) == 1 {
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		p.SetShuffle(on)
	} else {
		p.ToggleShuffle()
	}

	shuffle := p.Snapshot().Mode.Shuffle
	if JSONOutput() {
		return printJSON(map[string]bool{"shuffle": shuffle})
	}
	fmt.Printf("🔀 Shuffle: %s\n", onOff(shuffle))
	return nil
}

func runRepeat(cmd *cobra.Command, args []string) error {
	p, err := openSilentPlayer(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	if len(args) == 1 {
		mode, err := core.ParseRepeatMode(args[0])
		if err != nil {
			return err
		}
		p.SetRepeat(mode)
	} else {
		p.ToggleRepeat()
	}

	repeat := p.Snapshot().Mode.Repeat
	if JSONOutput() {
		return printJSON(map[string]string{"repeat": string(repeat)})
	}
	fmt.Printf("🔁 Repeat: %s\n", repeat)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
