package reconciler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envrepo/internal/environment"
)

func cfg(id, name string) environment.Config {
	return environment.Config{ID: id, Name: name}
}

func TestReconcile_CreatesEnvironments(t *testing.T) {
	cache := NewCache(CacheConfig{})

	result := cache.Reconcile([]environment.Config{cfg("a", "A")})

	require.Len(t, result.Environments, 1)
	env := result.Environments[0]
	assert.Equal(t, "a", env.ID())
	assert.Equal(t, environment.StateActive, env.State())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, []Change{{Operation: OperationCreate, ID: "a"}}, result.Changes)
}

func TestReconcile_EmptyFetchEvictsEverything(t *testing.T) {
	cache := NewCache(CacheConfig{})
	first := cache.Reconcile([]environment.Config{cfg("a", "A")})

	result := cache.Reconcile(nil)

	assert.Empty(t, result.Environments)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, []Change{{Operation: OperationDelete, ID: "a"}}, result.Changes)
	assert.True(t, first.Environments[0].Deleted())
}

func TestReconcile_PreservesIdentity(t *testing.T) {
	cache := NewCache(CacheConfig{})
	configs := []environment.Config{cfg("a", "A"), cfg("b", "B")}

	first := cache.Reconcile(configs)
	second := cache.Reconcile(configs)

	require.Len(t, second.Environments, 2)
	for i := range first.Environments {
		assert.Same(t, first.Environments[i], second.Environments[i])
	}
	assert.Empty(t, second.Changes, "unchanged configs produce no changes")
}

func TestReconcile_UpdatesInPlace(t *testing.T) {
	cache := NewCache(CacheConfig{})
	first := cache.Reconcile([]environment.Config{{ID: "a", Name: "A", Description: "old"}})

	var notified []environment.Snapshot
	first.Environments[0].Subscribe(func(s environment.Snapshot) { notified = append(notified, s) })

	second := cache.Reconcile([]environment.Config{{ID: "a", Name: "A2", Description: "new"}})

	env := second.Environments[0]
	assert.Same(t, first.Environments[0], env)
	assert.Equal(t, "A2", env.Config().Name)
	assert.Equal(t, "new", env.Description().String())
	assert.Equal(t, []Change{{Operation: OperationUpdate, ID: "a"}}, second.Changes)

	require.Len(t, notified, 1, "subscription held on the instance survives the refresh")
	assert.Equal(t, "A2", notified[0].Config.Name)
}

func TestReconcile_MixedChangesAndOrder(t *testing.T) {
	cache := NewCache(CacheConfig{})
	cache.Reconcile([]environment.Config{cfg("a", "A"), cfg("b", "B"), cfg("c", "C")})

	result := cache.Reconcile([]environment.Config{cfg("d", "D"), cfg("b", "B2"), cfg("a", "A")})

	assert.Equal(t, []string{"d", "b", "a"}, result.IDs())
	assert.Equal(t, []Change{
		{Operation: OperationCreate, ID: "d"},
		{Operation: OperationUpdate, ID: "b"},
		{Operation: OperationDelete, ID: "c"},
	}, result.Changes)
	assert.Equal(t, 1, result.Count(OperationCreate))
	assert.Equal(t, 1, result.Count(OperationDelete))
	assert.Equal(t, []string{"a", "b", "d"}, cache.IDs())

	_, ok := cache.Get("c")
	assert.False(t, ok)
}

func TestReconcile_EvictedEnvironmentGetsNoFurtherUpdates(t *testing.T) {
	cache := NewCache(CacheConfig{})
	first := cache.Reconcile([]environment.Config{cfg("a", "A")})
	old := first.Environments[0]

	cache.Reconcile(nil)
	again := cache.Reconcile([]environment.Config{cfg("a", "A-new")})

	assert.NotSame(t, old, again.Environments[0], "an id that disappeared is recreated")
	assert.Equal(t, "A", old.Name())
	assert.True(t, old.Deleted())
	assert.False(t, again.Environments[0].Deleted())
}

func TestReconcile_DuplicateIDsLastWins(t *testing.T) {
	cache := NewCache(CacheConfig{})

	result := cache.Reconcile([]environment.Config{
		cfg("a", "first"),
		cfg("b", "B"),
		cfg("a", "last"),
	})

	assert.Equal(t, []string{"b", "a"}, result.IDs())
	assert.Equal(t, "last", result.Environments[1].Name())
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, cache.Len())
}

func TestReconcile_SkipsInvalidConfigs(t *testing.T) {
	cache := NewCache(CacheConfig{})

	result := cache.Reconcile([]environment.Config{
		{Name: "nameless"},
		cfg("a", "A"),
		{ID: "b", Port: -3},
	})

	assert.Equal(t, []string{"a"}, result.IDs())
	assert.Equal(t, 2, result.Skipped)
}

func TestReconcile_InjectsCollaborators(t *testing.T) {
	localizer := environment.LocalizerFunc(func(text string) environment.Text {
		return environment.PlainText("L:" + text)
	})
	cache := NewCache(CacheConfig{Localizer: localizer})

	result := cache.Reconcile([]environment.Config{{ID: "a", Description: "d"}})

	assert.Equal(t, "L:d", result.Environments[0].Description().String())
}

func TestCache_SubscriberCanReadCacheDuringReconcile(t *testing.T) {
	cache := NewCache(CacheConfig{})
	first := cache.Reconcile([]environment.Config{cfg("a", "A"), cfg("b", "B")})

	lens := make(chan int, 4)
	for _, env := range first.Environments {
		env.Subscribe(func(environment.Snapshot) { lens <- cache.Len() })
	}

	cache.Reconcile([]environment.Config{cfg("a", "A2")})

	assert.Len(t, lens, 2)
	close(lens)
	for n := range lens {
		assert.Equal(t, 1, n)
	}
}

func TestCache_ConcurrentStateUpdatesDuringReconcile(t *testing.T) {
	cache := NewCache(CacheConfig{})
	cache.Reconcile([]environment.Config{cfg("a", "A")})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			name := "A"
			if i%2 == 0 {
				name = "A2"
			}
			cache.Reconcile([]environment.Config{cfg("a", name)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if env, ok := cache.Get("a"); ok {
				env.UpdateState(environment.StateConnecting, "probing")
			}
		}
	}()
	wg.Wait()

	env, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, environment.StateConnecting, env.State())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_SubscriberMutatesOwnEnvironmentDuringReconcile(t *testing.T) {
	cache := NewCache(CacheConfig{})
	first := cache.Reconcile([]environment.Config{cfg("a", "A"), cfg("b", "B")})

	a := first.Environments[0]
	a.Subscribe(func(s environment.Snapshot) {
		if s.Config.Name == "A2" && s.State != environment.StateConnecting {
			a.UpdateState(environment.StateConnecting, "reconnecting after rename")
		}
	})
	b := first.Environments[1]
	b.Subscribe(func(s environment.Snapshot) {
		if s.Deleted {
			b.SetVisible(false)
		}
	})

	done := make(chan Result, 1)
	go func() {
		done <- cache.Reconcile([]environment.Config{cfg("a", "A2")})
	}()

	select {
	case res := <-done:
		require.Len(t, res.Environments, 1)
		assert.Same(t, a, res.Environments[0])
	case <-time.After(2 * time.Second):
		t.Fatal("Reconcile did not return")
	}

	assert.Equal(t, environment.StateConnecting, a.State())
	assert.Equal(t, "reconnecting after rename", a.Description().String())
	assert.True(t, b.Deleted())
}
