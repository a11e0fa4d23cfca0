// Package reconciler keeps the set of live environments in line with the
// configs most recently fetched from a data source.
//
// # Overview
//
// Cache owns the id to *environment.Environment mapping. Reconcile takes a
// freshly fetched config list and:
//
//   - creates an environment for every id seen for the first time
//   - updates in place every environment whose config changed
//   - evicts every environment whose id is no longer listed
//
// An id that stays listed keeps the same *Environment across passes, so
// subscriptions held by consumers survive refreshes.
//
// # Duplicate ids
//
// When a batch lists the same id more than once the last occurrence wins:
// the environment appears once, at the position of that occurrence, with
// its config. A warning is logged for every dropped occurrence.
//
// # Concurrency
//
// The map is guarded by its own lock, independent of the per-environment
// locks. Passes must not run concurrently; the repository serializes them.
// Config updates and deletion notifications are applied after the map lock
// is released, so environment subscribers may safely read the cache.
//
// # Metrics
//
// Metrics exports Prometheus counters for refreshes, reconciliation changes
// and manual state updates.
package reconciler
