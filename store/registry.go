package store

import (
	"sync"
	"time"
)

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per key (a session id) and forgets stores
// that were not touched for longer than ttl.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*registryEntry
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, now: time.Now, entries: map[string]*registryEntry{}}
}

func (r *Registry) Get(key string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.expire(now)
	entry, ok := r.entries[key]
	if !ok {
		entry = &registryEntry{store: New()}
		r.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.store
}

func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) expire(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for key, entry := range r.entries {
		if now.Sub(entry.lastSeen) > r.ttl {
			delete(r.entries, key)
		}
	}
}
