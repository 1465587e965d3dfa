package task

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	domain "github.com/example/task-board/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// memoryCache is a TaskCache that stores JSON like the Redis cache does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("connection refused")
	}
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func countCalls(store *fakeStore, name string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	n := 0
	for _, c := range store.calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestCachedStore_FindByIDCachesHits(t *testing.T) {
	store := newFakeStore(aliceTask())
	cache := newMemoryCache()
	cached := NewCachedStore(store, cache, &mockLogger{})
	ctx := context.Background()

	first, err := cached.FindByID(ctx, "t1")
	require.NoError(t, err)
	second, err := cached.FindByID(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, countCalls(store, "FindByID"))
	assert.True(t, cache.has("task:t1"))
}

func TestCachedStore_NotFoundIsNotCached(t *testing.T) {
	store := newFakeStore()
	cache := newMemoryCache()
	cached := NewCachedStore(store, cache, &mockLogger{})

	_, err := cached.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, cache.has("task:missing"))
}

func TestCachedStore_CacheFailureFallsThrough(t *testing.T) {
	store := newFakeStore(aliceTask())
	cache := newMemoryCache()
	cache.failGet = true
	cached := NewCachedStore(store, cache, &mockLogger{})

	task, err := cached.FindByID(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
}

func TestCachedStore_WritesInvalidate(t *testing.T) {
	title := "Renamed"

	writes := map[string]func(s *CachedStore) error{
		"update": func(s *CachedStore) error {
			_, err := s.Update(context.Background(), "t1", domain.Patch{Title: &title})
			return err
		},
		"update status": func(s *CachedStore) error {
			_, err := s.UpdateStatus(context.Background(), "t1", domain.StatusCompleted, nil)
			return err
		},
		"update order": func(s *CachedStore) error {
			_, err := s.UpdateOrder(context.Background(), "t1", 4)
			return err
		},
		"delete": func(s *CachedStore) error {
			return s.Delete(context.Background(), "t1")
		},
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore(aliceTask())
			cache := newMemoryCache()
			cached := NewCachedStore(store, cache, &mockLogger{})

			_, err := cached.FindByID(context.Background(), "t1")
			require.NoError(t, err)
			require.True(t, cache.has("task:t1"))

			require.NoError(t, write(cached))
			assert.False(t, cache.has("task:t1"))
		})
	}
}

func TestCachedStore_ReadAfterUpdateSeesNewValue(t *testing.T) {
	store := newFakeStore(aliceTask())
	cached := NewCachedStore(store, newMemoryCache(), &mockLogger{})
	ctx := context.Background()
	title := "Renamed"

	_, err := cached.FindByID(ctx, "t1")
	require.NoError(t, err)
	_, err = cached.Update(ctx, "t1", domain.Patch{Title: &title})
	require.NoError(t, err)

	task, err := cached.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", task.Title)
}

// pausingStore snapshots the task on FindByID, then waits for release before
// returning the snapshot.
type pausingStore struct {
	*fakeStore
	loaded  chan struct{}
	release chan struct{}
}

func newPausingStore(store *fakeStore) *pausingStore {
	return &pausingStore{
		fakeStore: store,
		loaded:    make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (s *pausingStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.fakeStore.FindByID(ctx, id)
	close(s.loaded)
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t, err
}

func TestCachedStore_WriteDuringLoadIsNotOverwritten(t *testing.T) {
	title := "Renamed"

	writes := map[string]func(s *CachedStore) error{
		"update": func(s *CachedStore) error {
			_, err := s.Update(context.Background(), "t1", domain.Patch{Title: &title})
			return err
		},
		"delete": func(s *CachedStore) error {
			return s.Delete(context.Background(), "t1")
		},
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore(aliceTask())
			paused := newPausingStore(store)
			cache := newMemoryCache()
			cached := NewCachedStore(paused, cache, &mockLogger{})

			done := make(chan error, 1)
			go func() {
				_, err := cached.FindByID(context.Background(), "t1")
				done <- err
			}()

			<-paused.loaded
			require.NoError(t, write(cached))
			close(paused.release)
			require.NoError(t, <-done)

			assert.False(t, cache.has("task:t1"), "value read before the write stayed cached")
		})
	}
}

func TestCachedStore_ReadAfterConcurrentDeleteIsNotFound(t *testing.T) {
	store := newFakeStore(aliceTask())
	paused := newPausingStore(store)
	cached := NewCachedStore(paused, newMemoryCache(), &mockLogger{})

	done := make(chan error, 1)
	go func() {
		_, err := cached.FindByID(context.Background(), "t1")
		done <- err
	}()

	<-paused.loaded
	require.NoError(t, cached.Delete(context.Background(), "t1"))
	close(paused.release)
	require.NoError(t, <-done)

	// The next miss reads the store again, so swap in one that does not block.
	cached.TaskStore = store
	_, err := cached.FindByID(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStore_LoadSurvivesCallerCancellation(t *testing.T) {
	store := newFakeStore(aliceTask())
	paused := newPausingStore(store)
	cache := newMemoryCache()
	cached := NewCachedStore(paused, cache, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cached.FindByID(ctx, "t1")
		done <- err
	}()

	<-paused.loaded
	cancel()
	close(paused.release)

	require.NoError(t, <-done)
	assert.True(t, cache.has("task:t1"))
}
