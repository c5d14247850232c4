// Package sync orchestrates one full reconciliation run against the remote
// source and the gear rules file.
//
// The fixed order is: reconcile bikes, fetch and reconcile activities,
// reconcile components and roles from the rules file, replace the rule
// tables, resolve and replace the attribution table. Every sub-step commits
// in its own transaction and any failure aborts the run; reruns are safe
// because every table is a deterministic function of its sources.
package sync
