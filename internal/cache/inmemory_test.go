package cache

import (
	"context"
	"testing"

	"github.com/spender-app/spender/internal/calculator"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	if _, ok := c.GetMatrix(ctx); ok {
		t.Error("expected miss on empty cache")
	}

	m := calculator.Matrix{1: {2: 10.0}, 2: {1: 0}}
	c.SetMatrix(ctx, m)

	got, ok := c.GetMatrix(ctx)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got[1][2] != 10.0 {
		t.Errorf("cached owed[1][2] = %v, want 10.0", got[1][2])
	}

	c.Invalidate(ctx)
	if _, ok := c.GetMatrix(ctx); ok {
		t.Error("expected miss after invalidate")
	}
}
