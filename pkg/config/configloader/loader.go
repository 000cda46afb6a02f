// Package configloader assembles a service configuration from a YAML file, a .env file and the environment.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultConfigFile = "config.yaml"

type Validator interface {
	Validate() error
}

// Load reads the configuration for serviceName. The YAML file defaults to config.yaml and can be
// overridden with <SERVICE>_CONFIG_FILE.
func Load[T Validator](serviceName string) (T, error) {
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	configFile := os.Getenv(envPrefix + "CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	return LoadFrom[T](serviceName, configFile, ".env")
}

// LoadFrom layers configFile, envFile and <SERVICE>_* environment variables (highest priority),
// unmarshals the result into T and validates it. Missing files are skipped.
func LoadFrom[T Validator](serviceName, configFile, envFile string) (T, error) {
	var cfg T
	prefix := strings.ToUpper(serviceName) + "_"
	k := koanf.New(".")

	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN: skipping config file %s: %v", configFile, err)
	}
	if err := loadDotEnv(k, envFile, prefix); err != nil {
		log.Printf("WARN: skipping env file %s: %v", envFile, err)
	}
	if err := k.Load(env.Provider(prefix, ".", envKey(prefix)), nil); err != nil {
		log.Printf("WARN: skipping environment: %v", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps CATALOG_CACHE_TTL to cache.ttl.
func envKey(prefix string) func(string) string {
	return func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(strings.ToUpper(key), prefix))
		return strings.ReplaceAll(key, "_", ".")
	}
}

// loadDotEnv loads the prefixed entries of a dotenv file. A missing file is not an error.
func loadDotEnv(k *koanf.Koanf, envFile, prefix string) error {
	entries, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	toKey := envKey(prefix)
	values := make(map[string]any, len(entries))
	for key, value := range entries {
		if strings.HasPrefix(strings.ToUpper(key), prefix) {
			values[toKey(key)] = value
		}
	}
	return k.Load(confmap.Provider(values, "."), nil)
}
