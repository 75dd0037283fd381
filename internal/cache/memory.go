package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache. One instance is created per analysis run
// so entries never leak across inputs.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache with the given entry TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Memory{store: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached value for key, if present.
func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Set stores value under key.
func (m *Memory) Set(key string, value []byte) {
	m.store.Set(key, value, gocache.DefaultExpiration)
}
