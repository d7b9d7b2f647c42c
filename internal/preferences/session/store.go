// Package session persists per-session values keyed by an opaque session id.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session has no stored value.
var ErrNotFound = errors.New("session value not found")

// Store persists one string value per session id.
type Store interface {
	Get(ctx context.Context, sid string) (string, error)
	Set(ctx context.Context, sid, value string) error
}

const keyPrefix = "session:layout:"

// RedisStore keeps session values in Redis with a TTL, so preferences
// survive restarts and are shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sid string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, value string) error {
	return s.client.Set(ctx, keyPrefix+sid, value, s.ttl).Err()
}

// MemoryStore is the fallback when no Redis is configured. Values live for
// the process lifetime only.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[sid]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[sid] = value
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
