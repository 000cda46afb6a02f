package config

import "time"

type HTTPConfig struct {
	Port           int          `koanf:"port"`
	MaxHeaderBytes int          `koanf:"maxHeaderBytes"`
	Timeout        HTTPTimeouts `koanf:"timeout"`
}

// HTTPTimeouts map one to one onto the http.Server timeout fields.
type HTTPTimeouts struct {
	Read       time.Duration `koanf:"read"`
	Write      time.Duration `koanf:"write"`
	Idle       time.Duration `koanf:"idle"`
	ReadHeader time.Duration `koanf:"readHeader"`
}

func (c *HTTPConfig) String() string {
	return section("HTTP Server",
		field{"port", c.Port},
		field{"maxHeaderBytes", c.MaxHeaderBytes},
		field{"timeout.read", c.Timeout.Read},
		field{"timeout.write", c.Timeout.Write},
		field{"timeout.idle", c.Timeout.Idle},
		field{"timeout.readHeader", c.Timeout.ReadHeader},
	)
}

func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return invalid("server.port %d is out of range", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"read":       c.Timeout.Read,
		"write":      c.Timeout.Write,
		"idle":       c.Timeout.Idle,
		"readHeader": c.Timeout.ReadHeader,
	} {
		if d <= 0 {
			return invalid("server.timeout.%s must be greater than 0, got %v", name, d)
		}
	}
	return nil
}
