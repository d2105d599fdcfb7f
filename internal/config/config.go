package config

import "time"

// Config is the root configuration for a chartd instance.
type Config struct {
	Instance   InstanceConfig   `yaml:"instance"`
	Polymarket PolymarketConfig `yaml:"polymarket"`
	Event      EventConfig      `yaml:"event"`
	Database   DBConfig         `yaml:"database"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Server     ServerConfig     `yaml:"server"`
}

// InstanceConfig identifies this chartd.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// PolymarketConfig holds upstream API settings.
type PolymarketConfig struct {
	GammaURL   string        `yaml:"gamma_url"`
	ClobURL    string        `yaml:"clob_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// EventConfig selects which event's markets are tracked.
type EventConfig struct {
	Slug string `yaml:"slug"`

	// Lookback bounds the first history fetch for a market with no stored
	// samples. Zero means DefaultLookback.
	Lookback time.Duration `yaml:"lookback"`

	// Fidelity is the upstream bar width in minutes (1 = minute bars).
	Fidelity int `yaml:"fidelity"`
}

// DBConfig holds the Postgres/Timescale connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ArchiveConfig holds the on-disk raw-history archive settings.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RefreshConfig holds history refresher settings.
type RefreshConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"` // Per-market fetch timeout
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// DefaultMinutesPerPoint is the detail level applied when a chart request
	// does not carry one. <= 1 means full fidelity.
	DefaultMinutesPerPoint float64 `yaml:"default_minutes_per_point"`

	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}
