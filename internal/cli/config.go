package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/config"
	apperrors "github.com/tessro/auralyn/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing auralyn configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys are written as section.field, for example:
  player.play_mode   What plain "play" does: queue or replace
  player.volume      Startup volume (0-1)
  player.repeat      Startup repeat mode (off/all/one)
  client.api_base    Search proxy the player talks to
  server.port        Port 'auralyn serve' listens on
  session.backend    memory, file, sqlite or redis

Examples:
  auralyn config set player.play_mode replace
  auralyn config set player.volume 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively choose player defaults",
	Long:  `Shows a form for the most common player and session settings.`,
	RunE:  runConfigSetup,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetupCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return apperrors.WithSuggestion(
			fmt.Errorf("%w at %s", apperrors.ErrConfigNotFound, configPath),
			"Run 'auralyn config init' first")
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'auralyn serve' to start the search proxy")
	fmt.Println("  2. Run 'auralyn play' to open the player")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func writeConfigFile(path string, v any) error {
	var buf bytes.Buffer
	buf.WriteString("# Auralyn Configuration\n\n")

	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var (
	floatKeys = map[string]bool{
		"player.volume": true,
	}
	intKeys = map[string]bool{
		"server.port":             true,
		"server.upstream_timeout": true,
		"client.timeout":          true,
		"player.history_size":     true,
		"session.redis_db":        true,
		"search.max_empty_pages":  true,
		"search.max_scan_pages":   true,
		"search.cache_size":       true,
		"search.trending_ttl":     true,
		"tail.interval":           true,
		"tui.refresh_interval":    true,
		"log.max_size":            true,
		"log.max_backups":         true,
		"log.max_age":             true,
	}
	boolKeys = map[string]bool{
		"player.shuffle": true,
		"log.compress":   true,
	}
	listKeys = map[string]bool{
		"server.cors_origins": true,
	}
	stringKeys = map[string]bool{
		"server.upstream_url":  true,
		"client.api_base":      true,
		"player.play_mode":     true,
		"player.repeat":        true,
		"session.backend":      true,
		"session.path":         true,
		"session.redis_addr":   true,
		"session.redis_prefix": true,
		"log.level":            true,
		"log.file":             true,
	}
)

// typedConfigValue converts a command-line value to the type the key's
// config field holds.
func typedConfigValue(key, value string) (any, error) {
	switch {
	case floatKeys[key]:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return i, nil
	case boolKeys[key]:
		b, err := parseSwitch(value)
		if err != nil {
			return nil, fmt.Errorf("value must be true or false for %s", key)
		}
		return b, nil
	case listKeys[key]:
		var items []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	case stringKeys[key]:
		return value, nil
	}
	return nil, apperrors.WithSuggestion(
		fmt.Errorf("%w: unknown key %q", apperrors.ErrInvalidConfig, key),
		"Run 'auralyn config show' to see the available keys")
}

// setConfigValues applies key/value pairs to the raw TOML document,
// rejecting results that would not validate.
func setConfigValues(raw map[string]any, pairs [][2]string) error {
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		section, field, ok := strings.Cut(key, ".")
		if !ok || strings.Contains(field, ".") {
			return fmt.Errorf("invalid key format. Use 'section.key' (e.g., player.volume)")
		}

		typed, err := typedConfigValue(key, value)
		if err != nil {
			return err
		}

		sectionMap, ok := raw[section].(map[string]any)
		if !ok {
			sectionMap = make(map[string]any)
			raw[section] = sectionMap
		}
		sectionMap[field] = typed
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var check config.Config
	if _, err := toml.Decode(buf.String(), &check); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}
	return nil
}

// updateConfigFile rewrites the config file with pairs applied.
func updateConfigFile(pairs [][2]string) error {
	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return apperrors.WithSuggestion(
			fmt.Errorf("%w at %s", apperrors.ErrConfigNotFound, configPath),
			"Run 'auralyn config init' first")
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := setConfigValues(raw, pairs); err != nil {
		return err
	}
	return writeConfigFile(configPath, raw)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := updateConfigFile([][2]string{{key, value}}); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigSetup(cmd *cobra.Command, args []string) error {
	playMode := cfg.Player.PlayMode
	repeat := cfg.Player.Repeat
	shuffle := cfg.Player.Shuffle
	backend := cfg.Session.Backend
	apiBase := cfg.Client.APIBase

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Play mode").
				Description("What picking a song does when something is already playing").
				Options(
					huh.NewOption("Add to queue", "queue"),
					huh.NewOption("Replace current song", "replace"),
				).
				Value(&playMode),
			huh.NewSelect[string]().
				Title("Repeat").
				Options(
					huh.NewOption("Off", "off"),
					huh.NewOption("All", "all"),
					huh.NewOption("One", "one"),
				).
				Value(&repeat),
			huh.NewConfirm().
				Title("Shuffle on startup?").
				Value(&shuffle),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Session storage").
				Options(
					huh.NewOption("File", "file"),
					huh.NewOption("SQLite", "sqlite"),
					huh.NewOption("Redis", "redis"),
					huh.NewOption("Memory (not saved)", "memory"),
				).
				Value(&backend),
			huh.NewInput().
				Title("Search proxy URL").
				Value(&apiBase).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("must be an http or https URL")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("setup cancelled: %w", err)
	}

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := writeConfigFile(configPath, config.Default()); err != nil {
			return err
		}
	}

	return updateConfigFile([][2]string{
		{"player.play_mode", playMode},
		{"player.repeat", repeat},
		{"player.shuffle", strconv.FormatBool(shuffle)},
		{"session.backend", backend},
		{"client.api_base", apiBase},
	})
}
