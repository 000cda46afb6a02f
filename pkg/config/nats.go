package config

import "time"

// NATSConfig configures the JetStream publisher for catalog events.
// When disabled, events are dropped by a no-op publisher.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Stream  string        `koanf:"stream"`
}

func (c *NATSConfig) String() string {
	return section("NATS",
		field{"enabled", c.Enabled},
		field{"url", c.Url},
		field{"timeout", c.Timeout},
		field{"stream", c.Stream},
	)
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Url == "" {
		return invalid("nats.url is required when nats is enabled")
	}
	if c.Stream == "" {
		return invalid("nats.stream is required when nats is enabled")
	}
	return positive("nats.timeout", c.Timeout)
}
