package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			UpstreamURL:     "https://saavn.sumit.co",
			UpstreamTimeout: 15,
			CORSOrigins:     []string{"*"},
		},
		Client: ClientConfig{
			APIBase: "http://localhost:5000",
			Timeout: 15,
		},
		Player: PlayerConfig{
			PlayMode:    "queue",
			Volume:      0.7,
			Shuffle:     false,
			Repeat:      "off",
			HistorySize: 20,
		},
		Session: SessionConfig{
			Backend:     "file",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "auralyn",
		},
		Search: SearchConfig{
			MaxEmptyPages: 6,
			MaxScanPages:  6,
			CacheSize:     32,
			TrendingTTL:   600,
		},
		Tail: TailConfig{
			Interval: 1000,
		},
		TUI: TUIConfig{
			RefreshInterval: 500,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.UpstreamURL == "" {
		c.Server.UpstreamURL = d.Server.UpstreamURL
	}
	if c.Server.UpstreamTimeout == 0 {
		c.Server.UpstreamTimeout = d.Server.UpstreamTimeout
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = d.Server.CORSOrigins
	}

	// Client
	if c.Client.APIBase == "" {
		c.Client.APIBase = d.Client.APIBase
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = d.Client.Timeout
	}

	// Player
	if c.Player.PlayMode == "" {
		c.Player.PlayMode = d.Player.PlayMode
	}
	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.Repeat == "" {
		c.Player.Repeat = d.Player.Repeat
	}
	if c.Player.HistorySize == 0 {
		c.Player.HistorySize = d.Player.HistorySize
	}

	// Session
	if c.Session.Backend == "" {
		c.Session.Backend = d.Session.Backend
	}
	if c.Session.RedisAddr == "" {
		c.Session.RedisAddr = d.Session.RedisAddr
	}
	if c.Session.RedisPrefix == "" {
		c.Session.RedisPrefix = d.Session.RedisPrefix
	}

	// Search
	if c.Search.MaxEmptyPages == 0 {
		c.Search.MaxEmptyPages = d.Search.MaxEmptyPages
	}
	if c.Search.MaxScanPages == 0 {
		c.Search.MaxScanPages = d.Search.MaxScanPages
	}
	if c.Search.CacheSize == 0 {
		c.Search.CacheSize = d.Search.CacheSize
	}
	if c.Search.TrendingTTL == 0 {
		c.Search.TrendingTTL = d.Search.TrendingTTL
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = d.Log.MaxAge
	}
}
