package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	tnt := id.NewTenantID()
	grant := custos.NewGrant("u1", tnt, true, nil, []string{"content.read"})

	// Miss
	_, ok := c.Get(ctx, "u1", tnt)
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, "u1", tnt, grant)
	got, ok := c.Get(ctx, "u1", tnt)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !got.Has("content.read") {
		t.Fatal("expected cached grant to include content.read")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	tnt := id.NewTenantID()
	c.Set(ctx, "u1", tnt, custos.NewGrant("u1", tnt, true, nil, nil))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "u1", tnt)
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	tnt1 := id.NewTenantID()
	tnt2 := id.NewTenantID()

	c.Set(ctx, "u1", tnt1, custos.NewGrant("u1", tnt1, true, nil, nil))
	c.Set(ctx, "u1", tnt2, custos.NewGrant("u1", tnt2, true, nil, nil))
	c.Set(ctx, "u2", tnt1, custos.NewGrant("u2", tnt1, true, nil, nil))

	c.InvalidateUser(ctx, "u1")

	if _, ok := c.Get(ctx, "u1", tnt1); ok {
		t.Fatal("u1/tnt1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "u1", tnt2); ok {
		t.Fatal("u1/tnt2 should be invalidated")
	}
	if _, ok := c.Get(ctx, "u2", tnt1); !ok {
		t.Fatal("u2/tnt1 should still be cached")
	}
}

func TestMemoryCacheInvalidateTenant(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	tnt1 := id.NewTenantID()
	tnt2 := id.NewTenantID()

	c.Set(ctx, "u1", tnt1, custos.NewGrant("u1", tnt1, true, nil, nil))
	c.Set(ctx, "u2", tnt1, custos.NewGrant("u2", tnt1, true, nil, nil))
	c.Set(ctx, "u1", tnt2, custos.NewGrant("u1", tnt2, true, nil, nil))

	c.InvalidateTenant(ctx, tnt1)

	if _, ok := c.Get(ctx, "u1", tnt1); ok {
		t.Fatal("u1/tnt1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "u2", tnt1); ok {
		t.Fatal("u2/tnt1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "u1", tnt2); !ok {
		t.Fatal("u1/tnt2 should still be cached")
	}
}

func TestMemoryCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	tnt := id.NewTenantID()
	c.Set(ctx, "u1", tnt, custos.NewGrant("u1", tnt, true, nil, nil))
	c.Set(ctx, "u2", tnt, custos.NewGrant("u2", tnt, true, nil, nil))

	c.InvalidateAll(ctx)

	if _, ok := c.Get(ctx, "u1", tnt); ok {
		t.Fatal("u1 should be invalidated")
	}
	if _, ok := c.Get(ctx, "u2", tnt); ok {
		t.Fatal("u2 should be invalidated")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	tnt := id.NewTenantID()
	for i := 0; i < 5; i++ {
		user := fmt.Sprintf("u%d", i)
		c.Set(ctx, user, tnt, custos.NewGrant(user, tnt, true, nil, nil))
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
