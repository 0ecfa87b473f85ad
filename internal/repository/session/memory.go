package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[string][]byte
	updatedAt time.Time
}

type memoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory returns a process-local Repository.
func NewMemory(ttl time.Duration) Repository {
	return &memoryRepo{
		sessions: make(map[string]memoryEntry),
		ttl:      ttlOrDefault(ttl),
		now:      time.Now,
	}
}

func (r *memoryRepo) Load(_ context.Context, id string) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok || r.expired(entry) {
		return map[string][]byte{}, nil
	}
	entry.updatedAt = r.now()
	r.sessions[id] = entry
	return copyValues(entry.values), nil
}

func (r *memoryRepo) Save(_ context.Context, id string, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(values) == 0 {
		delete(r.sessions, id)
		return nil
	}
	r.sessions[id] = memoryEntry{values: copyValues(values), updatedAt: r.now()}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}

func (r *memoryRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) expired(entry memoryEntry) bool {
	return r.now().Sub(entry.updatedAt) > r.ttl
}

func copyValues(in map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(in))
	for k, v := range in {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
