package repositories

import (
	"context"
)

// JobRepository is the ingestion task queue. One unit of work is one
// document ID; the HTTP layer enqueues and returns immediately, workers
// dequeue and run the pipeline.
//
// At-most-once dispatch: Enqueue takes a per-document in-flight lock, so a
// second enqueue for the same document fails with ErrIngestInFlight until
// the worker releases the lock on a terminal status.
type JobRepository interface {
	// Enqueue submits a document for ingestion.
	Enqueue(ctx context.Context, documentID string) error

	// Dequeue pops the oldest queued document ID, or returns "" when the
	// queue is empty.
	Dequeue(ctx context.Context) (string, error)

	// Release clears the in-flight lock after the document reached a
	// terminal status.
	Release(ctx context.Context, documentID string) error

	// QueueLength returns the number of queued jobs.
	QueueLength(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}
