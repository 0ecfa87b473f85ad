package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "storefront:session:"

var _ Repository = (*Redis)(nil)

// Redis stores each session as a hash that expires after ttl without
// requests.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedis returns a Redis repository. addr may be a redis:// URL or a
// host:port pair.
func NewRedis(addr string, ttl time.Duration, logger *log.Logger) *Redis {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	return &Redis{client: redis.NewClient(opts), ttl: ttlOrDefault(ttl), logger: logger}
}

// Initialize waits for redis to answer PING, backing off between attempts.
func (r *Redis) Initialize(ctx context.Context, attempts int) error {
	var err error
	backoff := 250 * time.Millisecond
	for i := 1; i <= attempts; i++ {
		if err = r.Ping(ctx); err == nil {
			return nil
		}
		if r.logger != nil {
			r.logger.Printf("redis ping attempt %d/%d failed: %v", i, attempts, err)
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
	return fmt.Errorf("redis unreachable: %w", err)
}

func (r *Redis) Load(ctx context.Context, id string) (map[string][]byte, error) {
	key := redisKeyPrefix + id
	var slots *redis.StringStringMapCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		slots = pipe.HGetAll(ctx, key)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	raw := slots.Val()
	values := make(map[string][]byte, len(raw))
	for k, v := range raw {
		values[k] = []byte(v)
	}
	return values, nil
}

func (r *Redis) Save(ctx context.Context, id string, values map[string][]byte) error {
	key := redisKeyPrefix + id
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) == 0 {
			return nil
		}
		fields := make([]interface{}, 0, len(values)*2)
		for k, v := range values {
			fields = append(fields, k, v)
		}
		pipe.HSet(ctx, key, fields...)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	return err
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKeyPrefix+id).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
