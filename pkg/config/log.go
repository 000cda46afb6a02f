package config

import "strings"

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *LogConfig) String() string {
	return section("Log", field{"level", c.Level})
}

// Validate accepts the slog level names. An empty level means info.
func (c *LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return invalid("log.level %q is not one of debug, info, warn, error", c.Level)
}
