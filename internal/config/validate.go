package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Client.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("client: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}
	if err := c.Search.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", field)
	}
	return nil
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.UpstreamTimeout < 0 {
		return errors.New("upstream_timeout must be non-negative")
	}
	return validateHTTPURL("upstream_url", c.UpstreamURL)
}

// Validate checks ClientConfig for errors.
func (c *ClientConfig) Validate() error {
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return validateHTTPURL("api_base", c.APIBase)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	switch c.PlayMode {
	case "", "queue", "replace":
		// valid
	default:
		return fmt.Errorf("invalid play_mode: %s (must be queue or replace)", c.PlayMode)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return errors.New("volume must be between 0 and 1")
	}
	switch c.Repeat {
	case "", "off", "all", "one":
		// valid
	default:
		return fmt.Errorf("invalid repeat mode: %s (must be off, all, or one)", c.Repeat)
	}
	if c.HistorySize < 0 {
		return errors.New("history_size must be non-negative")
	}
	return nil
}

// Validate checks SessionConfig for errors.
func (c *SessionConfig) Validate() error {
	switch c.Backend {
	case "", "file", "memory", "redis", "sqlite":
		// valid
	default:
		return fmt.Errorf("invalid backend: %s (must be file, memory, redis, or sqlite)", c.Backend)
	}
	if c.RedisDB < 0 {
		return errors.New("redis_db must be non-negative")
	}
	return nil
}

// Validate checks SearchConfig for errors.
func (c *SearchConfig) Validate() error {
	if c.MaxEmptyPages < 0 || c.MaxScanPages < 0 {
		return errors.New("page limits must be non-negative")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must be non-negative")
	}
	if c.TrendingTTL < 0 {
		return errors.New("trending_ttl must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSize < 0 || c.MaxBackups < 0 || c.MaxAge < 0 {
		return errors.New("rotation limits must be non-negative")
	}
	return nil
}
