package config

import (
	"errors"
	"time"
)

// ResilienceConfig guards calls to the file store.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// RetryConfig is handed to the AWS SDK standard retryer.
type RetryConfig struct {
	MaxAttempts uint          `koanf:"maxattempts"`
	MaxBackoff  time.Duration `koanf:"maxbackoff"`
}

// CircuitBreakerConfig trips after ConsecutiveFailures failures in a row,
// or once the failure ratio reaches ErrorRatePercent. Zero disables the ratio check.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

func (c *ResilienceConfig) String() string {
	return section("Resilience",
		field{"retry.maxattempts", c.Retry.MaxAttempts},
		field{"retry.maxbackoff", c.Retry.MaxBackoff},
		field{"circuitbreaker.consecutivefailures", c.CircuitBreaker.ConsecutiveFailures},
		field{"circuitbreaker.errorratepercent", c.CircuitBreaker.ErrorRatePercent},
		field{"circuitbreaker.opentimeout", c.CircuitBreaker.OpenTimeout},
	)
}

func (c *ResilienceConfig) Validate() error {
	cb := c.CircuitBreaker
	if cb.ErrorRatePercent < 0 || cb.ErrorRatePercent > 100 {
		return invalid("resilience.circuitbreaker.errorratepercent %d is outside 0..100", cb.ErrorRatePercent)
	}
	return errors.Join(
		positive("resilience.retry.maxattempts", c.Retry.MaxAttempts),
		positive("resilience.retry.maxbackoff", c.Retry.MaxBackoff),
		positive("resilience.circuitbreaker.consecutivefailures", cb.ConsecutiveFailures),
		positive("resilience.circuitbreaker.opentimeout", cb.OpenTimeout),
	)
}
