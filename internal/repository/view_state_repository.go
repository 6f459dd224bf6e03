package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStateNotFound is returned for unknown or expired view state.
var ErrStateNotFound = errors.New("view state not found")

// StateStore holds serialized page state between requests.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisStateStore keeps view state in Redis with a sliding TTL.
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStateStore creates a new RedisStateStore.
func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

// Get returns the state stored under key and refreshes its TTL.
func (s *RedisStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.rdb.GetEx(ctx, key, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get view state: %w", err)
	}
	return raw, nil
}

// Set stores value under key.
func (s *RedisStateStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("set view state: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStateStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStateStore is a process-local StateStore for tests and the CLI.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStateStore creates a store whose entries expire after ttl.
// A zero ttl never expires.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.entries, key)
		return nil, ErrStateNotFound
	}
	e.expires = s.now().Add(s.ttl)
	s.entries[key] = e
	return append([]byte(nil), e.value...), nil
}

func (s *MemoryStateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: append([]byte(nil), value...), expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
