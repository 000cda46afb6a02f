package config

import "time"

const defaultShutdownTimeout = 10 * time.Second

// ShutdownConfig bounds how long servers get to drain once a stop signal arrives.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return section("Shutdown", field{"timeout", c.Timeout})
}

// Validate falls back to a default timeout when none is configured.
func (c *ShutdownConfig) Validate() error {
	switch {
	case c.Timeout < 0:
		return invalid("shutdown.timeout must not be negative, got %s", c.Timeout)
	case c.Timeout == 0:
		c.Timeout = defaultShutdownTimeout
	}
	return nil
}
