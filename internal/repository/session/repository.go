package session

import (
	"context"
	"time"
)

// Repository persists session slots. Save replaces every slot of a session;
// saving no slots deletes the session. Load of a live session restarts its
// TTL, so a session expires after TTL without any request.
type Repository interface {
	Load(ctx context.Context, id string) (map[string][]byte, error)
	Save(ctx context.Context, id string, values map[string][]byte) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Expirer is implemented by repositories that need an explicit sweep of
// sessions idle for longer than their TTL.
type Expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// DefaultTTL is used when a repository is built with a non-positive TTL.
const DefaultTTL = 24 * time.Hour

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
