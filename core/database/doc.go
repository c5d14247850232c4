// Package database handles the embedded per-athlete store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) configured
// for SQLite. Each athlete gets exactly one store file, named
// athlete_<id>.db under the configured directory, so independent athletes
// never share state.
//
// # Usage
//
//	db, err := database.Open(cfg.Database, athlete.ID)
//	if err != nil {
//	    log.Fatal("store open failed", err)
//	}
//
// Schema migration lives with the models (feature/gear/models.Migrate) and is
// applied idempotently at the start of every run.
package database
