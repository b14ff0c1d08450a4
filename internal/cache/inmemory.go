package cache

import (
	"context"
	"sync"
	"time"

	"github.com/spender-app/spender/internal/calculator"
)

// InMemoryCache implements the Cache interface with a process-local entry.
type InMemoryCache struct {
	mu      sync.Mutex
	matrix  calculator.Matrix
	expires time.Time
}

// NewInMemoryCache creates an instance of InMemoryCache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{}
}

// GetMatrix returns the cached matrix if present and not expired.
func (c *InMemoryCache) GetMatrix(ctx context.Context) (calculator.Matrix, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.matrix == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.matrix, true
}

// SetMatrix stores the matrix with the cache TTL.
func (c *InMemoryCache) SetMatrix(ctx context.Context, m calculator.Matrix) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.matrix = m
	c.expires = time.Now().Add(entryTTL)
}

// Invalidate drops the cached matrix.
func (c *InMemoryCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.matrix = nil
}
