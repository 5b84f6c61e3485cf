package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ingestQueueKey       = "ingest:queue"
	ingestLockPrefix     = "ingest:lock:"
	ingestLockExpiration = 30 * time.Minute // safety net against leaked locks
)

// RedisJobRepository implements JobRepository using a Redis list as a FIFO
// queue and SETNX locks for per-document dispatch dedup.
type RedisJobRepository struct {
	client *redis.Client
}

// NewRedisJobRepository creates a new Redis-based job repository
func NewRedisJobRepository(client *redis.Client) *RedisJobRepository {
	return &RedisJobRepository{
		client: client,
	}
}

// Enqueue submits a document for ingestion, at most once in flight
func (r *RedisJobRepository) Enqueue(ctx context.Context, documentID string) error {
	if documentID == "" {
		return NewRepositoryError("enqueue", "", nil, "document ID is required")
	}

	ok, err := r.client.SetNX(ctx, ingestLockPrefix+documentID, 1, ingestLockExpiration).Result()
	if err != nil {
		return NewRepositoryError("enqueue", documentID, err, "")
	}
	if !ok {
		return ErrIngestInFlight
	}

	if err := r.client.RPush(ctx, ingestQueueKey, documentID).Err(); err != nil {
		// Roll the lock back so the document is not stranded
		r.client.Del(ctx, ingestLockPrefix+documentID)
		return NewRepositoryError("enqueue", documentID, err, "")
	}

	return nil
}

// Dequeue pops the oldest queued document ID; "" means the queue is empty
func (r *RedisJobRepository) Dequeue(ctx context.Context) (string, error) {
	documentID, err := r.client.LPop(ctx, ingestQueueKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", NewRepositoryError("dequeue", "", err, "")
	}
	return documentID, nil
}

// Release clears the per-document in-flight lock
func (r *RedisJobRepository) Release(ctx context.Context, documentID string) error {
	if err := r.client.Del(ctx, ingestLockPrefix+documentID).Err(); err != nil {
		return NewRepositoryError("release", documentID, err, "")
	}
	return nil
}

// QueueLength returns the number of queued jobs
func (r *RedisJobRepository) QueueLength(ctx context.Context) (int64, error) {
	n, err := r.client.LLen(ctx, ingestQueueKey).Result()
	if err != nil {
		return 0, NewRepositoryError("queue_length", "", err, "")
	}
	return n, nil
}

// Ping checks Redis connectivity
func (r *RedisJobRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
