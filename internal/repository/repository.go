package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"envrepo/internal/datasource"
	"envrepo/internal/environment"
	"envrepo/internal/reconciler"
	"envrepo/internal/state"
	"envrepo/pkg/logging"
)

const refreshKey = "refresh"

// Repository manages the lifecycle of remote environments: it fetches
// configs, reconciles them into the cache and publishes the result.
type Repository struct {
	config    Config
	cache     *reconciler.Cache
	publisher *state.Publisher[State]

	// passes coalesces concurrent refresh requests into one pass.
	passes singleflight.Group

	// lastReady is only touched from within a pass.
	lastReady []*environment.Environment
	readyOnce sync.Once

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a repository. It does not fetch until Start or Refresh is called.
func New(config Config) (*Repository, error) {
	if config.DataSource == nil {
		return nil, fmt.Errorf("repository requires a data source")
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	if config.FetchTimeout == 0 {
		config.FetchTimeout = DefaultFetchTimeout
	}

	return &Repository{
		config: config,
		cache: reconciler.NewCache(reconciler.CacheConfig{
			ViewFactory: config.ViewFactory,
			Localizer:   config.Localizer,
			Metrics:     config.Metrics,
		}),
		publisher: state.NewPublisher(State{Kind: KindLoading, At: time.Now()}),
	}, nil
}

// Start launches the polling loop in the background. Calling Start on a
// running repository does nothing.
func (r *Repository) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.running = true

	go func() {
		defer close(done)
		defer func() {
			r.mu.Lock()
			if r.done == done {
				r.running = false
			}
			r.mu.Unlock()
		}()
		err := r.Run(runCtx)
		logging.Info("Repository", "Polling stopped: %v", err)
	}()

	logging.Info("Repository", "Started polling every %s", r.config.RefreshInterval)
}

// Stop cancels the polling loop and waits for it to exit. It is safe to
// call concurrently with a pass and more than once.
func (r *Repository) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// IsRunning reports whether the polling loop is active.
func (r *Repository) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run performs one pass immediately and then one per refresh interval until
// ctx is done. It always returns ctx's cancellation error.
func (r *Repository) Run(ctx context.Context) error {
	r.tick(ctx)

	ticker := time.NewTicker(r.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// maxJoinedRetries bounds how often a scheduled pass is retried after
// joining passes that were cancelled by their callers.
const maxJoinedRetries = 3

// tick runs one scheduled pass. Fetch failures are already published. When
// the tick joined a pass that its caller cancelled, the pass is run again
// under ctx.
func (r *Repository) tick(ctx context.Context) {
	for attempt := 0; attempt <= maxJoinedRetries; attempt++ {
		_, err := r.Refresh(ctx)
		if err == nil || ctx.Err() != nil || datasource.IsFetchError(err) {
			return
		}
		logging.Info("Repository", "Scheduled refresh joined a cancelled pass, running it again: %v", err)
	}
	logging.Warn("Repository", "Scheduled refresh skipped, joined passes kept being cancelled")
}

// Refresh runs a pass now and returns the state it published. A request
// arriving while a pass is in flight waits for that pass and shares its
// result. The returned error is the pass's FetchError, or a cancellation
// error in which case nothing was published.
func (r *Repository) Refresh(ctx context.Context) (State, error) {
	ch := r.passes.DoChan(refreshKey, func() (interface{}, error) {
		return r.pass(ctx)
	})

	select {
	case res := <-ch:
		st, _ := res.Val.(State)
		return st, res.Err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// pass fetches, reconciles and publishes once.
func (r *Repository) pass(ctx context.Context) (State, error) {
	cycleID := uuid.NewString()
	started := time.Now()
	logging.Debug("Repository", "Refreshing environments (cycle %s)", cycleID)

	fetchCtx := ctx
	if r.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.config.FetchTimeout)
		defer cancel()
	}

	configs, err := r.config.DataSource.Fetch(fetchCtx)
	if err != nil {
		// Only the pass's own context makes this a cancellation. A
		// context error the source produced on its own is a failure.
		if ctx.Err() != nil {
			logging.Debug("Repository", "Refresh cancelled (cycle %s): %v", cycleID, err)
			return State{}, ctx.Err()
		}

		fetchErr := asFetchError(err)
		logging.Error("Repository", fetchErr, "Data source error (cycle %s)", cycleID)

		st := State{
			Kind:         KindFailed,
			Environments: r.lastReady,
			Err:          fetchErr,
			CycleID:      cycleID,
			At:           time.Now(),
		}
		r.publisher.Publish(st)
		r.config.Metrics.RecordRefresh(reconciler.RefreshFailure, time.Since(started))
		return st, fetchErr
	}

	result := r.cache.Reconcile(configs)
	r.lastReady = result.Environments

	st := State{
		Kind:         KindReady,
		Environments: result.Environments,
		CycleID:      cycleID,
		At:           time.Now(),
	}
	r.publisher.Publish(st)
	r.config.Metrics.RecordRefresh(reconciler.RefreshSuccess, time.Since(started))
	r.config.Metrics.SetEnvironments(len(result.Environments))

	logging.Info("Repository", "Setting environments to %d items: %v (created %d, updated %d, evicted %d)",
		len(result.Environments), result.IDs(),
		result.Count(reconciler.OperationCreate),
		result.Count(reconciler.OperationUpdate),
		result.Count(reconciler.OperationDelete))

	if r.config.OnReady != nil {
		r.readyOnce.Do(r.config.OnReady)
	}
	return st, nil
}

// UpdateEnvironmentState sets the runtime state of the environment with the
// given id, for example from a health check. An unknown id is logged and
// reported as a NotFoundError; the cache is not changed.
func (r *Repository) UpdateEnvironmentState(id string, st environment.RuntimeState, message string) error {
	env, ok := r.cache.Get(id)
	if !ok {
		logging.Warn("Repository", "Cannot update unknown environment: %s", id)
		r.config.Metrics.RecordStateUpdate(false)
		return &NotFoundError{ID: id}
	}

	env.UpdateState(st, message)
	r.config.Metrics.RecordStateUpdate(true)
	return nil
}

// GetEnvironment returns the cached environment for id.
func (r *Repository) GetEnvironment(id string) (*environment.Environment, bool) {
	return r.cache.Get(id)
}

// Len returns the number of cached environments.
func (r *Repository) Len() int {
	return r.cache.Len()
}

// Environments returns the last published state.
func (r *Repository) Environments() state.Snapshot[State] {
	return r.publisher.Current()
}

// Subscribe returns a subscription that yields the current state and every
// state published afterwards.
func (r *Repository) Subscribe() *state.Subscription[State] {
	return r.publisher.Subscribe()
}

// Close stops polling and ends all subscriptions.
func (r *Repository) Close() {
	r.Stop()
	r.publisher.Close()
}

func asFetchError(err error) *datasource.FetchError {
	var fetchErr *datasource.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return datasource.NewFetchError("fetch timed out", err)
	}
	return datasource.NewFetchError("fetch failed", err)
}
