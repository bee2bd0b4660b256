// Package kv holds the shared key/value stores used by lookups that should
// survive restarts (Redis) and the in-process fallback used without it.
package kv

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-solar/internal/cache"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

type RedisStore struct {
	client redisClient
	prefix string
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func NewRedisStore(client redisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get trata chave ausente e erro de conexão da mesma forma: miss.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Redis: erro ao ler %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *RedisStore) PingContext(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// MemoryStore é o fallback sem REDIS_ADDR.
type MemoryStore struct {
	c *cache.Cache[string]
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{c: cache.New(cache.Options[string]{MaxEntries: maxEntries})}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	return m.c.Get(key)
}

func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.SetWithTTL(key, value, ttl)
	return nil
}
