package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard is an in-process SyncGuard used when Redis is not configured.
type MemoryGuard struct {
	mu       sync.Mutex
	locked   bool
	deadline time.Time
	lastSync time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{}
}

func (m *MemoryGuard) TryLock(ctx context.Context, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked && time.Now().Before(m.deadline) {
		return false, nil
	}
	m.locked = true
	m.deadline = time.Now().Add(ttl)
	return true, nil
}

func (m *MemoryGuard) Unlock(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = false
	return nil
}

func (m *MemoryGuard) SetLastSync(ctx context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSync = t
	return nil
}

func (m *MemoryGuard) LastSync(ctx context.Context) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSync, nil
}

func (m *MemoryGuard) Close() error {
	return nil
}
