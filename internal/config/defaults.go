package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGammaURL   = "https://gamma-api.polymarket.com"
	DefaultClobURL    = "https://clob.polymarket.com"
	DefaultAPITimeout = 30 * time.Second
	DefaultMaxRetries = 3

	DefaultLookback = 14 * 24 * time.Hour
	DefaultFidelity = 1 // Minute bars

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultArchivePath = "data/archive"

	DefaultRefreshInterval    = time.Minute
	DefaultRefreshConcurrency = 4
	DefaultRefreshTimeout     = 10 * time.Second

	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultMinutesPerPoint = 5
	DefaultCacheSize       = 256
	DefaultCacheTTL        = 30 * time.Second
)

func (c *Config) applyDefaults() {
	// Upstream API defaults
	if c.Polymarket.GammaURL == "" {
		c.Polymarket.GammaURL = DefaultGammaURL
	}
	if c.Polymarket.ClobURL == "" {
		c.Polymarket.ClobURL = DefaultClobURL
	}
	if c.Polymarket.Timeout == 0 {
		c.Polymarket.Timeout = DefaultAPITimeout
	}
	if c.Polymarket.MaxRetries == 0 {
		c.Polymarket.MaxRetries = DefaultMaxRetries
	}

	// Event defaults
	if c.Event.Lookback == 0 {
		c.Event.Lookback = DefaultLookback
	}
	if c.Event.Fidelity == 0 {
		c.Event.Fidelity = DefaultFidelity
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Archive defaults
	if c.Archive.Path == "" {
		c.Archive.Path = DefaultArchivePath
	}

	// Refresh defaults
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.Refresh.Concurrency == 0 {
		c.Refresh.Concurrency = DefaultRefreshConcurrency
	}
	if c.Refresh.Timeout == 0 {
		c.Refresh.Timeout = DefaultRefreshTimeout
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.DefaultMinutesPerPoint == 0 {
		c.Server.DefaultMinutesPerPoint = DefaultMinutesPerPoint
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = DefaultCacheSize
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = DefaultCacheTTL
	}
}
