package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.auralynrc, $XDG_CONFIG_HOME/auralyn/config.toml, ~/.config/auralyn/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath is where 'config init' writes a new file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auralynrc"
	}
	return filepath.Join(home, ".auralynrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".auralynrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "auralyn", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
// A .env file in the working directory is loaded first; variables already
// set in the environment win over it.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load()

	// Server
	if v := os.Getenv("PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("AURALYN_SERVER_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
	if v := os.Getenv("AURALYN_UPSTREAM_URL"); v != "" {
		cfg.Server.UpstreamURL = v
	}
	if v := os.Getenv("AURALYN_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	// Client
	if v := os.Getenv("AURALYN_API_BASE"); v != "" {
		cfg.Client.APIBase = v
	}

	// Player
	if v := os.Getenv("AURALYN_PLAY_MODE"); v != "" {
		cfg.Player.PlayMode = v
	}
	if v := os.Getenv("AURALYN_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Player.Volume = f
		}
	}

	// Session
	if v := os.Getenv("AURALYN_SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("AURALYN_SESSION_PATH"); v != "" {
		cfg.Session.Path = v
	}
	if v := os.Getenv("AURALYN_REDIS_ADDR"); v != "" {
		cfg.Session.RedisAddr = v
	}

	// Log
	if v := os.Getenv("AURALYN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AURALYN_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
