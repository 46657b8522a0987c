package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants that cannot be repaired by
// normalization. Storage credentials are required as a set: a partially
// configured object store is a deployment mistake, not a choice.
func (c *Config) Validate() error {
	var problems []string

	storageFields := map[string]string{
		"storage.endpoint":   c.Storage.Endpoint,
		"storage.access_key": c.Storage.AccessKey,
		"storage.secret_key": c.Storage.SecretKey,
		"storage.bucket":     c.Storage.Bucket,
	}
	configured := 0
	for _, value := range storageFields {
		if value != "" {
			configured++
		}
	}
	if configured > 0 && configured < len(storageFields) {
		for name, value := range storageFields {
			if value == "" {
				problems = append(problems, fmt.Sprintf("%s is required when storage is configured", name))
			}
		}
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

// StorageConfigured reports whether object store credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.Storage.Endpoint != "" && c.Storage.AccessKey != "" &&
		c.Storage.SecretKey != "" && c.Storage.Bucket != ""
}
