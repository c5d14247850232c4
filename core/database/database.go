package database

import (
	"fmt"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StoreName returns the store file name for an athlete.
// One store exists per athlete, named deterministically.
func StoreName(athleteID int64) string {
	return fmt.Sprintf("athlete_%d.db", athleteID)
}

// Open opens (creating if necessary) the SQLite store for the given athlete.
func Open(cfg Config, athleteID int64) (*gorm.DB, error) {
	path := filepath.Join(cfg.Dir, StoreName(athleteID))

	// Suppress GORM logging; the application logger reports outcomes.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	return db, nil
}
