package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/stemsi/records-admin/internal/model"
)

// ErrQueueEmpty is returned when no job arrived before the wait elapsed.
var ErrQueueEmpty = errors.New("queue empty")

// EmailQueue carries transcript e-mail jobs from the handlers to the worker.
type EmailQueue interface {
	Enqueue(ctx context.Context, job model.TranscriptEmailJob) error
	// Dequeue waits up to wait for a job.
	Dequeue(ctx context.Context, wait time.Duration) (*model.TranscriptEmailJob, error)
	// TryDequeue returns a queued job without waiting.
	TryDequeue(ctx context.Context) (*model.TranscriptEmailJob, error)
	// Len reports how many jobs are waiting.
	Len(ctx context.Context) (int64, error)
}

// RedisEmailQueue is a Redis list used FIFO (RPUSH / BLPOP).
type RedisEmailQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisEmailQueue creates a queue on the list named key.
func NewRedisEmailQueue(rdb *redis.Client, key string) *RedisEmailQueue {
	return &RedisEmailQueue{rdb: rdb, key: key}
}

func (q *RedisEmailQueue) Enqueue(ctx context.Context, job model.TranscriptEmailJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("enqueue email job: %w", err)
	}
	return nil
}

func (q *RedisEmailQueue) Dequeue(ctx context.Context, wait time.Duration) (*model.TranscriptEmailJob, error) {
	result, err := q.rdb.BLPop(ctx, wait, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, ErrQueueEmpty
	}
	return decodeJob(result[1])
}

func (q *RedisEmailQueue) TryDequeue(ctx context.Context) (*model.TranscriptEmailJob, error) {
	raw, err := q.rdb.LPop(ctx, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	return decodeJob(raw)
}

func (q *RedisEmailQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}

func decodeJob(raw string) (*model.TranscriptEmailJob, error) {
	var job model.TranscriptEmailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode email job: %w", err)
	}
	return &job, nil
}

// MemoryEmailQueue is a buffered in-process queue for tests and the CLI.
type MemoryEmailQueue struct {
	jobs chan model.TranscriptEmailJob
}

// NewMemoryEmailQueue creates a queue holding up to size jobs.
func NewMemoryEmailQueue(size int) *MemoryEmailQueue {
	return &MemoryEmailQueue{jobs: make(chan model.TranscriptEmailJob, size)}
}

func (q *MemoryEmailQueue) Enqueue(ctx context.Context, job model.TranscriptEmailJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("email queue full")
	}
}

func (q *MemoryEmailQueue) Dequeue(ctx context.Context, wait time.Duration) (*model.TranscriptEmailJob, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case job := <-q.jobs:
		return &job, nil
	case <-timer.C:
		return nil, ErrQueueEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryEmailQueue) TryDequeue(_ context.Context) (*model.TranscriptEmailJob, error) {
	select {
	case job := <-q.jobs:
		return &job, nil
	default:
		return nil, ErrQueueEmpty
	}
}

func (q *MemoryEmailQueue) Len(_ context.Context) (int64, error) {
	return int64(len(q.jobs)), nil
}
