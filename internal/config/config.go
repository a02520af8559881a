package config

import "os"

// Get reads an environment variable, falling back to a default when unset
// or empty. Pair with godotenv.Load in the composition roots.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
