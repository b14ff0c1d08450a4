// Package cache provides caching for the computed balance matrix.
//
// Recomputing balances walks the full expense collection, so the result is
// cached with a short TTL and invalidated on every ledger mutation.
package cache

import (
	"context"
	"time"

	"github.com/spender-app/spender/internal/calculator"
)

// entryTTL bounds staleness in case of races between writers and the cache.
const entryTTL = 5 * time.Second

// Cache is an interface used for caching the ledger's balance matrix.
type Cache interface {
	// GetMatrix returns the cached matrix, or ok=false on a miss. Cache
	// failures are reported as misses; the caller recomputes.
	GetMatrix(ctx context.Context) (calculator.Matrix, bool)

	// SetMatrix stores the matrix with the cache TTL.
	SetMatrix(ctx context.Context, m calculator.Matrix)

	// Invalidate drops the cached matrix. Called after every mutation that
	// can change balances.
	Invalidate(ctx context.Context)
}
