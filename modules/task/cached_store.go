package task

import (
	"context"
	"sync"

	domain "github.com/example/task-board/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// TaskCache is the subset of the Redis cache used for task lookups.
type TaskCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// CachedStore decorates a TaskStore with cache-aside lookups by id.
// Concurrent misses for the same id share one database read. Cache failures
// are logged and fall through to the store.
//
// A write that lands while a miss is loading marks that load stale. The
// loader then drops the entry it just cached, so a value read before the
// write never outlives it in the cache.
type CachedStore struct {
	TaskStore
	cache  TaskCache
	group  singleflight.Group
	logger types.Logger

	mu      sync.Mutex
	loading map[string]bool // id -> invalidated while loading
}

var _ TaskStore = (*CachedStore)(nil)

// NewCachedStore wraps store with cache.
func NewCachedStore(store TaskStore, cache TaskCache, logger types.Logger) *CachedStore {
	return &CachedStore{
		TaskStore: store,
		cache:     cache,
		logger:    logger,
		loading:   make(map[string]bool),
	}
}

func cacheKey(id string) string {
	return "task:" + id
}

// FindByID returns the cached task or loads and caches it.
func (s *CachedStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var cached domain.Task
	hit, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.logger.Warn("Cache read failed", "task_id", id, "error", err)
	}
	if hit {
		return &cached, nil
	}

	// Waiters share this load, so it ignores the first caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(id, func() (any, error) {
		s.beginLoad(id)
		t, err := s.TaskStore.FindByID(loadCtx, id)
		if err != nil {
			s.endLoad(id)
			return nil, err
		}
		if err := s.cache.Set(loadCtx, cacheKey(id), t); err != nil {
			s.logger.Warn("Cache write failed", "task_id", id, "error", err)
		}
		if s.endLoad(id) {
			s.deleteKey(loadCtx, id)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	t := *v.(*domain.Task)
	return &t, nil
}

// Update invalidates the cached task after a successful write.
func (s *CachedStore) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	t, err := s.TaskStore.Update(ctx, id, patch)
	s.invalidate(ctx, id)
	return t, err
}

// UpdateStatus invalidates the cached task after a successful write.
func (s *CachedStore) UpdateStatus(ctx context.Context, id string, status domain.Status, order *int) (*domain.Task, error) {
	t, err := s.TaskStore.UpdateStatus(ctx, id, status, order)
	s.invalidate(ctx, id)
	return t, err
}

// UpdateOrder invalidates the cached task after a successful write.
func (s *CachedStore) UpdateOrder(ctx context.Context, id string, order int) (*domain.Task, error) {
	t, err := s.TaskStore.UpdateOrder(ctx, id, order)
	s.invalidate(ctx, id)
	return t, err
}

// Delete removes the task and its cache entry.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	err := s.TaskStore.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CachedStore) invalidate(ctx context.Context, id string) {
	s.mu.Lock()
	if _, ok := s.loading[id]; ok {
		s.loading[id] = true
	}
	s.mu.Unlock()
	s.deleteKey(ctx, id)
}

func (s *CachedStore) deleteKey(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("Cache invalidation failed", "task_id", id, "error", err)
	}
}

func (s *CachedStore) beginLoad(id string) {
	s.mu.Lock()
	s.loading[id] = false
	s.mu.Unlock()
}

// endLoad reports whether a write invalidated id since beginLoad.
func (s *CachedStore) endLoad(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stale := s.loading[id]
	delete(s.loading, id)
	return stale
}
