// Package repository drives the fetch, reconcile and publish cycle for
// remote environments and exposes the result to consumers.
//
// # Lifecycle
//
//	repo, err := repository.New(repository.Config{
//	    DataSource:      datasource.NewStatic(nil),
//	    RefreshInterval: 10 * time.Minute,
//	})
//	if err != nil {
//	    return err
//	}
//	repo.Start(ctx)
//	defer repo.Stop()
//
//	sub := repo.Subscribe()
//	defer sub.Close()
//	for snap := range sub.C() {
//	    render(snap.Value)
//	}
//
// Start performs one pass immediately and then one per RefreshInterval.
// Refresh runs a pass on demand; concurrent requests share a single pass,
// so passes never overlap.
//
// # Published state
//
// Consumers observe a State that is Loading until the first successful
// fetch, Ready after each successful pass and Failed after a failed fetch.
// A Failed state keeps the environments of the last Ready state, and the
// cache itself is left untouched, so stale data stays visible.
//
// # Cancellation
//
// Cancelling the context given to Start (or calling Stop) ends the loop. A
// fetch interrupted by cancellation publishes nothing. A fetch that exceeds
// FetchTimeout is an ordinary failure and is published as Failed.
package repository
