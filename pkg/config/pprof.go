package config

// PProfConfig controls the side server exposing net/http/pprof.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	return section("PProf", field{"enabled", c.Enabled}, field{"addr", c.Addr})
}

func (c *PProfConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return invalid("pprof.addr is required when pprof is enabled")
	}
	return nil
}
