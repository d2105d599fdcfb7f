package config

import (
	"errors"
	"fmt"
)

// Validate checks that required fields are set and values are in range.
// Call after applyDefaults (via LoadAndValidate).
func (c *Config) Validate() error {
	var errs []error

	if c.Instance.ID == "" {
		errs = append(errs, errors.New("instance.id is required"))
	}

	if c.Event.Slug == "" {
		errs = append(errs, errors.New("event.slug is required"))
	}
	if c.Event.Fidelity < 0 {
		errs = append(errs, errors.New("event.fidelity must not be negative"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port %d out of range", c.Database.Port))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns %d exceeds max_conns %d",
			c.Database.MinConns, c.Database.MaxConns))
	}

	if c.Refresh.Concurrency <= 0 {
		errs = append(errs, errors.New("refresh.concurrency must be positive"))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.CacheSize < 0 {
		errs = append(errs, errors.New("server.cache_size must not be negative"))
	}

	return errors.Join(errs...)
}
