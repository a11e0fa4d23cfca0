package reconciler

import (
	"fmt"
	"sort"
	"sync"

	"envrepo/internal/environment"
	"envrepo/pkg/logging"
)

// Cache is the reconciling store of environments keyed by id.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*environment.Environment

	config CacheConfig
}

// NewCache creates an empty cache.
func NewCache(config CacheConfig) *Cache {
	if config.ViewFactory == nil {
		config.ViewFactory = environment.ManualViewFactory{}
	}
	if config.Localizer == nil {
		config.Localizer = environment.PassthroughLocalizer{}
	}
	return &Cache{
		entries: make(map[string]*environment.Environment),
		config:  config,
	}
}

type pendingUpdate struct {
	env *environment.Environment
	cfg environment.Config
}

// Reconcile applies configs to the cache and returns the live environments
// in input order.
func (c *Cache) Reconcile(configs []environment.Config) Result {
	var result Result

	// Last occurrence of each valid id.
	last := make(map[string]int, len(configs))
	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			logging.Warn("Cache", "Skipping invalid environment config #%d: %v", i+1, err)
			result.Skipped++
			continue
		}
		if prev, dup := last[cfg.ID]; dup {
			logging.Warn("Cache", "Duplicate environment id %s at #%d and #%d, keeping the last", cfg.ID, prev+1, i+1)
			result.Skipped++
		}
		last[cfg.ID] = i
	}

	var updates []pendingUpdate
	var evicted []*environment.Environment

	c.mu.Lock()
	for i, cfg := range configs {
		if idx, ok := last[cfg.ID]; !ok || idx != i {
			continue
		}

		env, exists := c.entries[cfg.ID]
		if !exists {
			created, err := environment.New(cfg, c.config.ViewFactory, c.config.Localizer)
			if err != nil {
				// Validated above.
				panic(fmt.Sprintf("reconciler: creating environment %s: %v", cfg.ID, err))
			}
			logging.Debug("Cache", "Creating new environment: %s", cfg.ID)
			c.entries[cfg.ID] = created
			env = created
			result.Changes = append(result.Changes, Change{Operation: OperationCreate, ID: cfg.ID})
		} else if !env.Config().Equal(cfg) {
			logging.Debug("Cache", "Updating environment config: %s", cfg.ID)
			updates = append(updates, pendingUpdate{env: env, cfg: cfg})
			result.Changes = append(result.Changes, Change{Operation: OperationUpdate, ID: cfg.ID})
		}

		result.Environments = append(result.Environments, env)
	}

	var evictedIDs []string
	for id, env := range c.entries {
		if _, keep := last[id]; keep {
			continue
		}
		delete(c.entries, id)
		evicted = append(evicted, env)
		evictedIDs = append(evictedIDs, id)
	}
	c.mu.Unlock()

	sort.Strings(evictedIDs)
	for _, id := range evictedIDs {
		logging.Debug("Cache", "Evicting environment: %s", id)
		result.Changes = append(result.Changes, Change{Operation: OperationDelete, ID: id})
	}

	// Entity callbacks run without the map lock held.
	for _, u := range updates {
		if err := u.env.UpdateConfig(u.cfg); err != nil {
			// The entry was looked up by the same id.
			panic(fmt.Sprintf("reconciler: %v", err))
		}
	}
	for _, env := range evicted {
		env.MarkDeleted()
	}

	c.config.Metrics.RecordChanges(result.Changes)
	return result
}

// Get returns the environment for id, if present.
func (c *Cache) Get(id string) (*environment.Environment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	env, ok := c.entries[id]
	return env, ok
}

// Len returns the number of cached environments.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IDs returns the cached ids in sorted order.
func (c *Cache) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
