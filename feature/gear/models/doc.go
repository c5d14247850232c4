// Package models defines the persisted entities of the gear store and their
// reconcile adapters.
//
// Bike, Component, ComponentRole and Activity each carry a process-assigned
// surrogate ID plus a semantic unique key and are kept in sync with their
// source of truth by the reconcile engine. LongtermBikeComponent,
// HashTagBikeComponent and ActivityComponent carry no identity of their own:
// their tables are wiped and reinserted whenever their generating source is
// reinterpreted.
package models
