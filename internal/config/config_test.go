package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: chartd-test
event:
  slug: portugal-presidential-election
polymarket:
  gamma_url: https://gamma.example.com
database:
  host: localhost
  port: 5432
  name: polychart
  user: chartd
  password: secret
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "chartd-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "chartd-test")
	}
	if cfg.Event.Slug != "portugal-presidential-election" {
		t.Errorf("Event.Slug = %q, want %q", cfg.Event.Slug, "portugal-presidential-election")
	}
	if cfg.Polymarket.GammaURL != "https://gamma.example.com" {
		t.Errorf("Polymarket.GammaURL = %q", cfg.Polymarket.GammaURL)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: chartd-test
event:
  slug: test-event
database:
  host: localhost
  name: polychart
  user: chartd
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: chartd-test
event:
  slug: test-event
database:
  host: localhost
  name: polychart
  user: chartd
  password: secret
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Polymarket.GammaURL != DefaultGammaURL {
		t.Errorf("GammaURL = %q, want default %q", cfg.Polymarket.GammaURL, DefaultGammaURL)
	}
	if cfg.Polymarket.ClobURL != DefaultClobURL {
		t.Errorf("ClobURL = %q, want default %q", cfg.Polymarket.ClobURL, DefaultClobURL)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.SSLMode != DefaultDBSSLMode {
		t.Errorf("Database.SSLMode = %q, want %q", cfg.Database.SSLMode, DefaultDBSSLMode)
	}
	if cfg.Event.Lookback != DefaultLookback {
		t.Errorf("Event.Lookback = %v, want %v", cfg.Event.Lookback, DefaultLookback)
	}
	if cfg.Event.Fidelity != DefaultFidelity {
		t.Errorf("Event.Fidelity = %d, want %d", cfg.Event.Fidelity, DefaultFidelity)
	}
	if cfg.Refresh.Interval != DefaultRefreshInterval {
		t.Errorf("Refresh.Interval = %v, want %v", cfg.Refresh.Interval, DefaultRefreshInterval)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultServerPort)
	}
	if cfg.Server.DefaultMinutesPerPoint != DefaultMinutesPerPoint {
		t.Errorf("Server.DefaultMinutesPerPoint = %v, want %v",
			cfg.Server.DefaultMinutesPerPoint, float64(DefaultMinutesPerPoint))
	}
	if cfg.Server.CacheTTL != DefaultCacheTTL {
		t.Errorf("Server.CacheTTL = %v, want %v", cfg.Server.CacheTTL, DefaultCacheTTL)
	}
}

func TestLoadExplicitValuesNotOverridden(t *testing.T) {
	yaml := `
instance:
  id: chartd-test
event:
  slug: test-event
  lookback: 48h
  fidelity: 5
database:
  host: localhost
  name: polychart
  user: chartd
  password: secret
refresh:
  interval: 30s
server:
  port: 9999
  default_minutes_per_point: 2
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Event.Lookback != 48*time.Hour {
		t.Errorf("Event.Lookback = %v, want 48h", cfg.Event.Lookback)
	}
	if cfg.Event.Fidelity != 5 {
		t.Errorf("Event.Fidelity = %d, want 5", cfg.Event.Fidelity)
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Errorf("Refresh.Interval = %v, want 30s", cfg.Refresh.Interval)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.DefaultMinutesPerPoint != 2 {
		t.Errorf("Server.DefaultMinutesPerPoint = %v, want 2", cfg.Server.DefaultMinutesPerPoint)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Instance.ID = "chartd-test"
		cfg.Event.Slug = "test-event"
		cfg.Database.Host = "localhost"
		cfg.Database.Name = "polychart"
		cfg.Database.User = "chartd"
		cfg.applyDefaults()
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "missing instance id",
			mutate:  func(c *Config) { c.Instance.ID = "" },
			wantSub: "instance.id",
		},
		{
			name:    "missing event slug",
			mutate:  func(c *Config) { c.Event.Slug = "" },
			wantSub: "event.slug",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantSub: "database.host",
		},
		{
			name:    "database port out of range",
			mutate:  func(c *Config) { c.Database.Port = 70000 },
			wantSub: "database.port",
		},
		{
			name:    "min conns above max",
			mutate:  func(c *Config) { c.Database.MinConns = 20; c.Database.MaxConns = 10 },
			wantSub: "min_conns",
		},
		{
			name:    "zero refresh concurrency",
			mutate:  func(c *Config) { c.Refresh.Concurrency = 0 },
			wantSub: "refresh.concurrency",
		},
		{
			name:    "server port out of range",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantSub: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file should fail")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempFile(t, "instance: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load of invalid yaml should fail")
	}
}
