package repositories

import (
	"context"
	"fmt"

	"autorag/internal/db"
)

// PineconeVectorRepository implements VectorRepository on a Pinecone-style
// index. Chunk metadata carries document_id, chunk_index, project_id and the
// chunk text so retrieval can rebuild context without touching the store.
type PineconeVectorRepository struct {
	client *db.PineconeClient
}

// NewPineconeVectorRepository creates a new Pinecone-backed vector repository
func NewPineconeVectorRepository(client *db.PineconeClient) VectorRepository {
	return &PineconeVectorRepository{
		client: client,
	}
}

// Upsert writes (id, vector, metadata) triples into the index
func (r *PineconeVectorRepository) Upsert(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}) error {
	if len(ids) != len(vectors) || len(ids) != len(metadatas) {
		return NewVectorRepositoryError("upsert", nil,
			fmt.Sprintf("parallel slice length mismatch: ids=%d vectors=%d metadatas=%d", len(ids), len(vectors), len(metadatas)))
	}
	if len(ids) == 0 {
		return nil
	}

	items := make([]db.Vector, len(ids))
	for i := range ids {
		items[i] = db.Vector{
			ID:       ids[i],
			Values:   vectors[i],
			Metadata: metadatas[i],
		}
	}

	if _, err := r.client.Upsert(ctx, items); err != nil {
		return NewVectorRepositoryError("upsert", err, fmt.Sprintf("failed to upsert %d vectors", len(ids)))
	}

	return nil
}

// Query performs a project-scoped top-k similarity search. The project filter
// is mandatory; an empty project ID is rejected before any remote call.
func (r *PineconeVectorRepository) Query(ctx context.Context, projectID string, vector []float32, topK int) ([]*VectorMatch, error) {
	if projectID == "" {
		return nil, NewVectorRepositoryError("query", nil, "project ID filter is required")
	}

	filter := map[string]interface{}{
		"project_id": projectID,
	}

	resp, err := r.client.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, NewVectorRepositoryError("query", err, "")
	}

	// The index returns matches ordered by descending score; preserve that
	// order, no local re-ranking.
	matches := make([]*VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, &VectorMatch{
			VectorID: m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		})
	}

	return matches, nil
}

// DeleteByDocument removes all vectors belonging to a document
func (r *PineconeVectorRepository) DeleteByDocument(ctx context.Context, projectID, documentID string) error {
	if projectID == "" {
		return NewVectorRepositoryError("delete_by_document", nil, "project ID filter is required")
	}

	filter := map[string]interface{}{
		"project_id":  projectID,
		"document_id": documentID,
	}

	if err := r.client.DeleteByFilter(ctx, filter); err != nil {
		return NewVectorRepositoryError("delete_by_document", err, "failed to delete vectors for document: "+documentID)
	}

	return nil
}

// Ping checks if the index is reachable
func (r *PineconeVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Heartbeat(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "vector index heartbeat failed")
	}
	return nil
}

// Close closes the underlying client
func (r *PineconeVectorRepository) Close() error {
	r.client.Close()
	return nil
}
