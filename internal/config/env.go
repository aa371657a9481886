package config

import (
	"os"
	"strings"

	"NewsRiskScanner/internal/domain"
)

// ConfigError reports every required environment variable that is missing or empty.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}

func (e *ConfigError) Unwrap() error {
	return domain.ErrConfig
}

// LoadEnv reads the named variables. All missing names are collected before failing.
func LoadEnv(keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		value, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = value
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}
	return values, nil
}
