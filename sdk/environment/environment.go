// Package environment provides support for env vars and configuration
// loading with namespacing and defaults.
package environment

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file. With an empty
// path it falls back to .env in the working directory. A missing file is
// not fatal at startup; callers log and continue.
func LoadEnv(p string) error {
	if p != "" {
		return godotenv.Load(p)
	}
	return godotenv.Load()
}

// GetEnvKeyPrefix constructs a namespaced environment variable key by
// combining a prefix with the key name using an underscore. With no
// prefix the key is returned unchanged.
//
// Example:
//
//	key := GetEnvKeyPrefix("TASKDECK", "DATABASE_URL")
//	// Returns: "TASKDECK_DATABASE_URL"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}
