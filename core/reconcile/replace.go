package reconcile

import (
	"fmt"

	"gorm.io/gorm"
)

// replaceBatchSize bounds the bulk insert statement size.
const replaceBatchSize = 200

// ReplaceAll wipes the whole table for T and bulk-inserts records. It is the
// write path for tables that carry no identity independent of their
// generating source (interval assignments, hashtag rules, resolved
// attributions): no per-row diffing, no key concept.
//
// Callers must run it inside the same transaction as the computation that
// produced records, so readers never observe the empty intermediate state.
func ReplaceAll[T any](db *gorm.DB, records []T) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	if err := db.CreateInBatches(records, replaceBatchSize).Error; err != nil {
		return fmt.Errorf("reinsert failed: %w", err)
	}
	return nil
}
