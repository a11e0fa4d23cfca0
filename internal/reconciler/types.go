package reconciler

import (
	"envrepo/internal/environment"
)

// ChangeOperation represents the type of change applied to the cache.
type ChangeOperation string

const (
	// OperationCreate indicates a new environment was created.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates an existing environment received a new config.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates an environment was evicted.
	OperationDelete ChangeOperation = "Delete"
)

// Change records one operation applied during a pass.
type Change struct {
	Operation ChangeOperation
	ID        string
}

// Result is the outcome of one Reconcile call.
type Result struct {
	// Environments lists the live environments in fetch order.
	Environments []*environment.Environment

	// Changes lists creations and updates in fetch order, followed by
	// evictions sorted by id.
	Changes []Change

	// Skipped counts records dropped as invalid or as earlier duplicates.
	Skipped int
}

// Count returns the number of changes with the given operation.
func (r Result) Count(op ChangeOperation) int {
	n := 0
	for _, c := range r.Changes {
		if c.Operation == op {
			n++
		}
	}
	return n
}

// IDs returns the ids of Environments in order.
func (r Result) IDs() []string {
	ids := make([]string, len(r.Environments))
	for i, env := range r.Environments {
		ids[i] = env.ID()
	}
	return ids
}

// CacheConfig holds the collaborators injected into every environment the
// cache creates.
type CacheConfig struct {
	// ViewFactory builds contents views. Defaults to environment.ManualViewFactory.
	ViewFactory environment.ViewFactory

	// Localizer renders descriptions. Defaults to environment.PassthroughLocalizer.
	Localizer environment.Localizer

	// Metrics is optional.
	Metrics *Metrics
}
