// Package cache provides caching implementations for Custos grants.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
)

// Compile-time interface check.
var _ custos.Cache = (*Memory)(nil)

// Memory is an in-memory grant cache with TTL-based expiration.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	grant     *custos.Grant
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a cached grant.
func (m *Memory) Get(_ context.Context, userID string, tenantID id.TenantID) (*custos.Grant, bool) {
	key := cacheKey(userID, tenantID)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.grant, true
}

// Set stores a grant in the cache.
func (m *Memory) Set(_ context.Context, userID string, tenantID id.TenantID, grant *custos.Grant) {
	key := cacheKey(userID, tenantID)
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			// Evict one arbitrary entry.
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		grant:     grant,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// InvalidateUser removes all cached grants for a user.
func (m *Memory) InvalidateUser(_ context.Context, userID string) {
	suffix := ":" + userID
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasSuffix(k, suffix) {
			delete(m.entries, k)
		}
	}
}

// InvalidateTenant removes all cached grants for a tenant.
func (m *Memory) InvalidateTenant(_ context.Context, tenantID id.TenantID) {
	prefix := tenantID.String() + ":"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

// InvalidateAll removes every cached grant.
func (m *Memory) InvalidateAll(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*entry)
}

func cacheKey(userID string, tenantID id.TenantID) string {
	return fmt.Sprintf("%s:%s", tenantID, userID)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
