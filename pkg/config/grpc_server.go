package config

import "strconv"

// GrpcServerConfig configures the gRPC listener that serves the health service.
type GrpcServerConfig struct {
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflection"`
}

func (c *GrpcServerConfig) String() string {
	return section("gRPC Server", field{"port", c.Port}, field{"reflection", c.ReflectionEnabled})
}

func (c *GrpcServerConfig) Validate() error {
	if c.Port == "" {
		return invalid("grpc.port is required")
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return invalid("grpc.port %q is not a valid port", c.Port)
	}
	return nil
}
