// Package attribution resolves which components were in use during each
// activity, per functional role.
//
// The resolver is a pure function over in-memory inputs so it can be tested
// without a store; the sync orchestrator loads the tables, calls Resolve and
// replaces the whole attribution table in one transaction.
package attribution
