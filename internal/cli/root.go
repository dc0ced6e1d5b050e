package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/auralyn/internal/config"
	apperrors "github.com/tessro/auralyn/internal/errors"
	"github.com/tessro/auralyn/internal/logger"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "auralyn",
	Short: "Search and play music from the command line",
	Long: `Auralyn is a music player with a small search proxy.

Run 'auralyn serve' to start the proxy, then 'auralyn play' for the
terminal player. Queue, volume and mode commands edit the saved session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.auralynrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}

	log = newLogger(cmd)
	return nil
}

// newLogger logs to the configured file, and to stderr when verbose or for
// long-running services, unless a full-screen view owns the terminal.
func newLogger(cmd *cobra.Command) *zap.Logger {
	lc := logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	if cmd.Annotations[annotationFullScreen] == "true" {
		return logger.Must(lc)
	}
	if verbose || cmd.Annotations[annotationConsoleLog] == "true" {
		lc.Console = os.Stderr
	}
	if verbose && lc.Level == "info" {
		lc.Level = "debug"
	}
	return logger.Must(lc)
}

// Command annotations read by newLogger.
const (
	annotationFullScreen = "fullscreen"
	annotationConsoleLog = "console-log"
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
