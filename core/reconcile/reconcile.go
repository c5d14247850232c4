package reconcile

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrInvariant is returned when an overwrite keyed by a unique column does not
// apply to exactly one row. It signals corrupted store state (the key matched
// during lookup, so anything but a single-row update is a data race or a
// broken unique constraint) and must abort the whole run.
var ErrInvariant = errors.New("unique overwrite invariant violated")

// Op classifies the effect the engine had on a single record.
type Op string

const (
	// OpAdded means the record was inserted; no row carried its key before.
	OpAdded Op = "added"
	// OpUpdated means an existing row was overwritten in place.
	OpUpdated Op = "updated"
	// OpNoop means the persisted row was already value-identical.
	OpNoop Op = "noop"
	// OpDeleted means a persisted row's key was absent from the target.
	OpDeleted Op = "deleted"
)

// Outcome reports what happened to one record during a Sync run.
type Outcome[T any, K comparable] struct {
	Op  Op
	Key K

	// Record is the inserted record for Added, the previous row for Updated
	// and the untouched row for Noop. For Deleted only the key survives and
	// Record is the zero value.
	Record T
}

// Adapter supplies the record-kind-specific pieces the engine needs.
// One adapter exists per persisted kind (bikes, activities, components, roles).
type Adapter[T any, K comparable] struct {
	// KeyColumn is the column carrying the semantic unique key.
	KeyColumn string

	// Key extracts the semantic key from a record.
	Key func(rec T) K

	// Equal reports whether two records are value-identical, ignoring
	// surrogate identity.
	Equal func(a, b T) bool

	// Keep carries the surrogate identity of prev into dst so that an
	// overwrite preserves the row's primary key.
	Keep func(dst *T, prev T)

	// StaleKeys lists every persisted semantic key. It is a replaceable
	// strategy: the default performs a full key scan, acceptable at
	// personal-log scale, but callers can swap in an indexed differential
	// approach without touching the engine.
	StaleKeys func(db *gorm.DB, keyColumn string) ([]K, error)
}

// Sync upserts every target record keyed by the adapter's semantic key, then
// deletes every persisted row whose key is absent from the target. After it
// returns without error the persisted set is in 1:1 correspondence with the
// target by key. Running it twice with the same target yields only Noop
// outcomes on the second run.
func Sync[T any, K comparable](db *gorm.DB, a Adapter[T, K], target []T) ([]Outcome[T, K], error) {
	outcomes := make([]Outcome[T, K], 0, len(target))
	seen := make(map[K]struct{}, len(target))

	for _, rec := range target {
		key := a.Key(rec)
		seen[key] = struct{}{}

		var existing []T
		if err := db.Where(a.KeyColumn+" = ?", key).Limit(1).Find(&existing).Error; err != nil {
			return nil, fmt.Errorf("lookup of %s %v failed: %w", a.KeyColumn, key, err)
		}

		if len(existing) == 0 {
			ins := rec
			if err := db.Create(&ins).Error; err != nil {
				return nil, fmt.Errorf("insert of %s %v failed: %w", a.KeyColumn, key, err)
			}
			outcomes = append(outcomes, Outcome[T, K]{Op: OpAdded, Key: key, Record: ins})
			continue
		}

		prev := existing[0]
		if a.Equal(prev, rec) {
			outcomes = append(outcomes, Outcome[T, K]{Op: OpNoop, Key: key, Record: prev})
			continue
		}

		next := rec
		a.Keep(&next, prev)
		res := db.Save(&next)
		if res.Error != nil {
			return nil, fmt.Errorf("overwrite of %s %v failed: %w", a.KeyColumn, key, res.Error)
		}
		if res.RowsAffected != 1 {
			return nil, fmt.Errorf("%w: overwrite of %s %v touched %d rows",
				ErrInvariant, a.KeyColumn, key, res.RowsAffected)
		}
		outcomes = append(outcomes, Outcome[T, K]{Op: OpUpdated, Key: key, Record: prev})
	}

	staleKeys := a.StaleKeys
	if staleKeys == nil {
		staleKeys = scanKeys[T, K]
	}

	keys, err := staleKeys(db, a.KeyColumn)
	if err != nil {
		return nil, fmt.Errorf("listing persisted %s keys failed: %w", a.KeyColumn, err)
	}

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		if err := db.Where(a.KeyColumn+" = ?", key).Delete(new(T)).Error; err != nil {
			return nil, fmt.Errorf("delete of stale %s %v failed: %w", a.KeyColumn, key, err)
		}
		outcomes = append(outcomes, Outcome[T, K]{Op: OpDeleted, Key: key})
	}

	return outcomes, nil
}

// scanKeys is the default StaleKeys strategy: a full scan of the key column.
func scanKeys[T any, K comparable](db *gorm.DB, keyColumn string) ([]K, error) {
	var keys []K
	if err := db.Model(new(T)).Pluck(keyColumn, &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Summary aggregates outcome counts for reporting.
type Summary struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Noop    int `json:"noop"`
	Deleted int `json:"deleted"`
}

// Summarize counts outcomes by operation.
func Summarize[T any, K comparable](outcomes []Outcome[T, K]) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Op {
		case OpAdded:
			s.Added++
		case OpUpdated:
			s.Updated++
		case OpNoop:
			s.Noop++
		case OpDeleted:
			s.Deleted++
		}
	}
	return s
}
