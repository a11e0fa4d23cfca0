package environment

import (
	"context"
	"fmt"
	"sync"

	"envrepo/pkg/logging"
)

// Snapshot is a consistent copy of an environment's fields, handed to
// subscribers and available through Environment.Snapshot.
type Snapshot struct {
	ID          string
	Config      Config
	State       RuntimeState
	Description Description
	Visible     bool

	// Deleted is set once, in the final notification after eviction.
	Deleted bool
}

// SubscriberFunc receives a snapshot after every mutation.
type SubscriberFunc func(Snapshot)

// Environment is the identity-stable runtime object for one environment id.
type Environment struct {
	id        string
	views     ViewFactory
	localizer Localizer

	mu          sync.RWMutex
	config      Config
	state       RuntimeState
	description Description
	visible     bool
	deleted     bool
	subscribers map[uint64]SubscriberFunc
	nextSubID   uint64

	// pending holds notifications in mutation order. At most one goroutine
	// drains it at a time, with mu released while subscribers run.
	pending     []notification
	dispatching bool
}

type notification struct {
	snap Snapshot
	subs []SubscriberFunc
}

// New creates an environment from its initial config. A nil views defaults
// to ManualViewFactory, a nil localizer to PassthroughLocalizer.
func New(cfg Config, views ViewFactory, localizer Localizer) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if views == nil {
		views = ManualViewFactory{}
	}
	if localizer == nil {
		localizer = PassthroughLocalizer{}
	}

	e := &Environment{
		id:          cfg.ID,
		views:       views,
		localizer:   localizer,
		config:      cfg.Clone(),
		state:       StateActive,
		subscribers: make(map[uint64]SubscriberFunc),
	}
	e.description = e.describe(cfg)
	return e, nil
}

// ID returns the environment id. It never changes.
func (e *Environment) ID() string {
	return e.id
}

// Config returns a copy of the current config.
func (e *Environment) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Clone()
}

// Name returns the current display name.
func (e *Environment) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Name
}

// State returns the current runtime state.
func (e *Environment) State() RuntimeState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Description returns the current description.
func (e *Environment) Description() Description {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.description
}

// Visible reports whether the consumer has marked the environment visible.
func (e *Environment) Visible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.visible
}

// Deleted reports whether the environment has been evicted.
func (e *Environment) Deleted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deleted
}

// Snapshot returns a consistent copy of all fields.
func (e *Environment) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Environment) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          e.id,
		Config:      e.config.Clone(),
		State:       e.state,
		Description: e.description,
		Visible:     e.visible,
		Deleted:     e.deleted,
	}
}

// UpdateConfig replaces the stored config and recomputes the description
// from it, dropping any error override. A config with a different id is
// rejected with an IdentityError and leaves the environment untouched.
func (e *Environment) UpdateConfig(cfg Config) error {
	if cfg.ID != e.id {
		err := &IdentityError{ID: e.id, Attempted: cfg.ID}
		logging.Error("Environment", err, "Rejected config update")
		return err
	}

	e.mutate(func() {
		e.config = cfg.Clone()
		e.description = e.describe(cfg)
	})
	return nil
}

// UpdateState sets the runtime state. A non-empty message replaces the
// description until the next config update or message-less state update,
// which restore the config description.
func (e *Environment) UpdateState(state RuntimeState, message string) {
	e.mutate(func() {
		e.state = state
		switch {
		case message != "":
			e.description = Description{Text: e.localizer.Localize(message), Override: true}
		case e.description.Override:
			e.description = e.describe(e.config)
		}
	})
}

// SetVisible records whether the consumer currently shows the environment.
func (e *Environment) SetVisible(visible bool) {
	e.mutate(func() {
		e.visible = visible
	})
}

// ContentsView builds the contents view from the config current at call time.
func (e *Environment) ContentsView(ctx context.Context) (ContentsView, error) {
	cfg := e.Config()

	view, err := e.views.Create(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create contents view for %s: %w", e.id, err)
	}

	logging.Debug("Environment", "Created view for %s with %d IDEs, %d projects",
		e.id, len(cfg.ProductCodes), len(cfg.ProjectPaths))
	return view, nil
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Subscribing to a deleted environment delivers its final
// snapshot once and registers nothing.
func (e *Environment) Subscribe(fn SubscriberFunc) (unsubscribe func()) {
	e.mu.Lock()
	if e.deleted {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		fn(snap)
		return func() {}
	}
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subscribers, id)
			e.mu.Unlock()
		})
	}
}

// MarkDeleted flags the environment as evicted, sends a final notification
// and drops all subscribers. Only the owning cache calls this.
func (e *Environment) MarkDeleted() {
	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return
	}
	e.deleted = true
	e.enqueueLocked()
	e.subscribers = make(map[uint64]SubscriberFunc)
	e.mu.Unlock()

	e.dispatch()
}

// mutate applies change under the field lock and queues a notification,
// then delivers queued notifications outside of it. Subscribers may mutate
// the environment from their callback; that notification is delivered
// after the current one returns.
func (e *Environment) mutate(change func()) {
	e.mu.Lock()
	change()
	e.enqueueLocked()
	e.mu.Unlock()

	e.dispatch()
}

func (e *Environment) enqueueLocked() {
	if len(e.subscribers) == 0 {
		return
	}
	e.pending = append(e.pending, notification{
		snap: e.snapshotLocked(),
		subs: e.subscribersLocked(),
	})
}

// dispatch drains pending unless another call is already draining it, in
// which case that call delivers what was queued here before it returns.
func (e *Environment) dispatch() {
	e.mu.Lock()
	if e.dispatching {
		e.mu.Unlock()
		return
	}
	e.dispatching = true
	drained := false
	defer func() {
		// A subscriber panicked; let the next mutation drain again.
		if !drained {
			e.mu.Lock()
			e.dispatching = false
			e.mu.Unlock()
		}
	}()

	for len(e.pending) > 0 {
		n := e.pending[0]
		e.pending[0] = notification{}
		e.pending = e.pending[1:]
		e.mu.Unlock()

		for _, fn := range n.subs {
			fn(n.snap)
		}

		e.mu.Lock()
	}
	// Cleared under the same lock as the empty check so nothing queued
	// concurrently is left behind.
	e.dispatching = false
	drained = true
	e.mu.Unlock()
}

func (e *Environment) subscribersLocked() []SubscriberFunc {
	subs := make([]SubscriberFunc, 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (e *Environment) describe(cfg Config) Description {
	if cfg.Description == "" {
		return Description{}
	}
	return Description{Text: e.localizer.Localize(cfg.Description)}
}
