package config

import "time"

// CacheConfig configures the Redis read-through cache for featured products and suggestions.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

func (c *CacheConfig) String() string {
	return section("Cache",
		field{"enabled", c.Enabled},
		field{"addr", c.Addr},
		field{"db", c.DB},
		field{"ttl", c.TTL},
	)
}

func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return invalid("cache.addr is required when the cache is enabled")
	}
	return positive("cache.ttl", c.TTL)
}
