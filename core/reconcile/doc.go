// Package reconcile provides a generic set-synchronization engine that keeps
// a persisted table in 1:1 correspondence with a freshly computed target
// collection.
//
// # Architecture
//
// The engine works against two kinds of tables:
//
// 1. Keyed tables (Sync): every record carries a semantic unique key. The
// engine upserts each target record by key, overwrites value-diverged rows in
// place (preserving surrogate identity), and deletes rows whose key is absent
// from the target. Each record yields an Outcome (Added, Updated, Noop or
// Deleted), so a second run over unchanged input produces only Noop.
//
// 2. Identity-free tables (ReplaceAll): rule and derived rows that are a pure
// function of their generating source. The whole table is wiped and
// reinserted; diffing them would be meaningless.
//
// # Adapters
//
// Record-kind-specific behavior (key column, key extraction, value equality,
// surrogate-identity carry-over) is supplied through a small Adapter value.
// The stale-key listing is a replaceable strategy on the adapter; the default
// full key scan is fine for personal-log scale.
//
// # Failure
//
// An overwrite that does not apply to exactly one row violates the unique-key
// invariant and returns ErrInvariant; callers treat this as fatal and abort
// the run rather than continue on corrupted state.
package reconcile
