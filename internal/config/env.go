package config

import (
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; earlier files win because existing variables
// are never overwritten, so .env.local overrides .env.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads every env file that exists and reports which were loaded.
// Process environment variables take precedence.
func loadEnvFiles() []string {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded
}
