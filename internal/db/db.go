// Package db opens the sqlite connection backing internal/history's edit
// audit trail.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open opens (creating parent directories and the file as needed) a
// gorm.DB backed by the pure-Go sqlite driver at path.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: creating %s: %w", dir, err)
		}
	}
	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db: opening %s: %w", path, err)
	}
	return database, nil
}
