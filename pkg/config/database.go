package config

import (
	"net/url"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig selects the catalog store. The memory driver needs no other field.
type DatabaseConfig struct {
	Driver  string        `koanf:"driver"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Migrate bool          `koanf:"migrate"`
}

func (c *DatabaseConfig) String() string {
	return section("Database",
		field{"driver", c.Driver},
		field{"url", maskCredentials(c.URL)},
		field{"timeout", c.Timeout},
		field{"migrate", c.Migrate},
	)
}

// Validate defaults the driver to postgres.
func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
	default:
		return invalid("database.driver %q is not supported", c.Driver)
	}
	if c.URL == "" {
		return invalid("database.url is required for the postgres driver")
	}
	if u, err := url.Parse(c.URL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return invalid("database.url must be a postgres:// URL: %s", maskCredentials(c.URL))
	}
	return positive("database.timeout", c.Timeout)
}

// maskCredentials hides everything before the host part of a connection URL.
func maskCredentials(raw string) string {
	if raw == "" {
		return "<not configured>"
	}
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		return "****" + raw[at:]
	}
	return "****"
}
