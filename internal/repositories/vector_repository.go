package repositories

import (
	"context"
)

// VectorRepository defines the interface for vector index operations.
// Implementations must enforce project scoping: every query carries a
// project_id filter, and omitting it is a caller programming error.
type VectorRepository interface {
	// Upsert writes (id, vector, metadata) triples; the three slices are
	// parallel and must have equal length. Each item is overwritten
	// atomically per-item, there is no cross-item transaction.
	Upsert(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}) error

	// Query returns the topK nearest matches for the query vector within
	// one project, ordered by descending score.
	Query(ctx context.Context, projectID string, vector []float32, topK int) ([]*VectorMatch, error)

	// DeleteByDocument removes all vectors belonging to a document.
	DeleteByDocument(ctx context.Context, projectID, documentID string) error

	// Ping checks connectivity to the index.
	Ping(ctx context.Context) error

	Close() error
}

// VectorMatch is one similarity match from the index
type VectorMatch struct {
	VectorID string                 `json:"vector_id"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}
