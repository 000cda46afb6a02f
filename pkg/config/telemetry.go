package config

import "time"

// TelemetryConfig switches trace export on and points it at an OTLP/HTTP collector.
// Metrics are always served on /metrics and need no configuration.
type TelemetryConfig struct {
	Enabled bool         `koanf:"enabled"`
	Traces  TracesConfig `koanf:"traces"`
}

type TracesConfig struct {
	OtlpHttp OtlpHttpConfig `koanf:"otlphttp"`
}

type OtlpHttpConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

func (c *TelemetryConfig) String() string {
	exp := c.Traces.OtlpHttp
	return section("Telemetry",
		field{"enabled", c.Enabled},
		field{"traces.otlphttp.endpoint", exp.Endpoint},
		field{"traces.otlphttp.insecure", exp.Insecure},
		field{"traces.otlphttp.timeout", exp.Timeout},
	)
}

func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Traces.OtlpHttp.Endpoint == "" {
		return invalid("telemetry.traces.otlphttp.endpoint is required when telemetry is enabled")
	}
	return positive("telemetry.traces.otlphttp.timeout", c.Traces.OtlpHttp.Timeout)
}
