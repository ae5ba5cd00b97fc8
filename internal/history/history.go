// Package history implements an optional local audit trail of task edits
// made through the Writer, persisted with gorm and a pure-Go SQLite driver
// so the CLI/daemon can offer "what changed and when" without depending on
// the vault's own git history (if any).
package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Edit is one recorded core.WriteTask call.
type Edit struct {
	ID         string `gorm:"primaryKey"`
	Path       string `gorm:"index"`
	LineNumber int
	Before     string
	After      string
	At         time.Time `gorm:"index"`
}

// Store persists Edits and answers history queries. The gorm-backed
// implementation is the only one shipped; callers that don't want history
// simply never construct a Store, and core.WriteTask accepts a nil
// EditRecorder.
type Store struct {
	db *gorm.DB
}

// Open migrates the Edit table into db and returns a Store. Callers own the
// *gorm.DB's underlying connection (see internal/db.Open's wiring of
// glebarez/sqlite for the concrete driver).
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Edit{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// RecordEdit implements core.EditRecorder.
func (s *Store) RecordEdit(path string, lineNumber int, before, after string) {
	s.db.Create(&Edit{
		ID:         uuid.NewString(),
		Path:       path,
		LineNumber: lineNumber,
		Before:     before,
		After:      after,
		At:         time.Now(),
	})
}

// ForPath returns every recorded edit to path, oldest first.
func (s *Store) ForPath(path string) ([]Edit, error) {
	var out []Edit
	err := s.db.Where("path = ?", path).Order("at asc").Find(&out).Error
	return out, err
}

// Since returns every recorded edit at or after t, newest first, for a
// "what changed recently" summary view.
func (s *Store) Since(t time.Time) ([]Edit, error) {
	var out []Edit
	err := s.db.Where("at >= ?", t).Order("at desc").Find(&out).Error
	return out, err
}
