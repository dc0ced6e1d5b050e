package config

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Client  ClientConfig  `toml:"client"`
	Player  PlayerConfig  `toml:"player"`
	Session SessionConfig `toml:"session"`
	Search  SearchConfig  `toml:"search"`
	Tail    TailConfig    `toml:"tail"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig holds settings for the search proxy.
type ServerConfig struct {
	Port            int      `toml:"port"`
	UpstreamURL     string   `toml:"upstream_url"`
	UpstreamTimeout int      `toml:"upstream_timeout"` // seconds
	CORSOrigins     []string `toml:"cors_origins"`
}

// ClientConfig tells the player where the proxy lives.
type ClientConfig struct {
	APIBase string `toml:"api_base"`
	Timeout int    `toml:"timeout"` // seconds
}

// PlayerConfig holds default playback settings.
type PlayerConfig struct {
	PlayMode    string  `toml:"play_mode"`
	Volume      float64 `toml:"volume"`
	Shuffle     bool    `toml:"shuffle"`
	Repeat      string  `toml:"repeat"`
	HistorySize int     `toml:"history_size"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	RedisAddr   string `toml:"redis_addr"`
	RedisDB     int    `toml:"redis_db"`
	RedisPrefix string `toml:"redis_prefix"`
}

// SearchConfig tunes the result pager and trending cache.
type SearchConfig struct {
	MaxEmptyPages int `toml:"max_empty_pages"`
	MaxScanPages  int `toml:"max_scan_pages"`
	CacheSize     int `toml:"cache_size"`
	TrendingTTL   int `toml:"trending_ttl"` // seconds
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval int `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}
