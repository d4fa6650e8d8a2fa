package main

import (
	"os"
)

// migrationsDir is where create writes new migration files. The API and the
// up/down/status commands use the copies embedded at build time.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "internal/platform/postgres/migrations"
}
