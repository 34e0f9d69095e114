// Package tokencache provides ports.TokenCache implementations: a
// process-local in-memory cache and a Redis-backed one for sharing tokens
// across instances.
package tokencache

import (
	"context"
	"sync"
	"time"

	"shipping/internal/core/ports"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// Memory is an in-memory token cache. Expired entries are dropped lazily on
// read. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-memory token cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ ports.TokenCache = (*Memory)(nil)

// Get returns the cached token, or ok=false when absent or expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.token, true, nil
}

// Set stores the token for ttl.
func (m *Memory) Set(_ context.Context, key, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		token:     token,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}
