package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/repository"
)

// memoryQueueSize bounds the in-process e-mail queue used without Redis.
const memoryQueueSize = 256

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Dur("view_state_ttl", cfg.ViewStateTTL).
		Msg("Redis connected")

	return rdb, nil
}

// Stores is the view-state store and e-mail queue the console runs on.
type Stores struct {
	State repository.StateStore
	Queue repository.EmailQueue
	// Backend is "redis" or "memory".
	Backend string

	rdb *redis.Client
}

// Ping checks the backing store. The in-process stores are always up.
func (s *Stores) Ping(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection, if any.
func (s *Stores) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

// OpenStores uses Redis when it is reachable. Otherwise view state and the
// e-mail queue stay in process, which only suits a single instance.
func OpenStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) *Stores {
	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, keeping view state in memory")
		return &Stores{
			State:   repository.NewMemoryStateStore(cfg.ViewStateTTL),
			Queue:   repository.NewMemoryEmailQueue(memoryQueueSize),
			Backend: "memory",
		}
	}
	return &Stores{
		State:   repository.NewRedisStateStore(rdb, cfg.ViewStateTTL),
		Queue:   repository.NewRedisEmailQueue(rdb, config.WorkerKey.TranscriptEmailQueue),
		Backend: "redis",
		rdb:     rdb,
	}
}
