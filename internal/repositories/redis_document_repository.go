package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"autorag/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	documentKeyPrefix = "document:"
	documentIndexKey  = "documents:index"
	chunksKeyPrefix   = "document:chunks:"
)

// RedisDocumentRepository implements DocumentRepository using Redis
type RedisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository creates a new Redis-based document repository
func NewRedisDocumentRepository(client *redis.Client) *RedisDocumentRepository {
	return &RedisDocumentRepository{
		client: client,
	}
}

// Register stores a new document record
func (r *RedisDocumentRepository) Register(ctx context.Context, doc *models.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	exists, err := r.Exists(ctx, doc.ID)
	if err != nil {
		return NewRepositoryError("register_document", doc.ID, err, "")
	}
	if exists {
		return DocumentAlreadyExistsError(doc.ID)
	}

	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	data, err := json.Marshal(doc)
	if err != nil {
		return NewRepositoryError("register_document", doc.ID, err, "failed to marshal document")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, documentKeyPrefix+doc.ID, data, 0)
	pipe.SAdd(ctx, documentIndexKey, doc.ID)
	pipe.SAdd(ctx, projectDocsPrefix+doc.ProjectID, doc.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewRepositoryError("register_document", doc.ID, err, "failed to execute transaction")
	}

	return nil
}

// Get retrieves a document by ID
func (r *RedisDocumentRepository) Get(ctx context.Context, documentID string) (*models.Document, error) {
	data, err := r.client.Get(ctx, documentKeyPrefix+documentID).Result()
	if err == redis.Nil {
		return nil, DocumentNotFoundError(documentID)
	}
	if err != nil {
		return nil, NewRepositoryError("get_document", documentID, err, "")
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, NewRepositoryError("get_document", documentID, err, "failed to unmarshal document")
	}

	return &doc, nil
}

// ListByProject returns all documents of a project, newest first
func (r *RedisDocumentRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Document, error) {
	ids, err := r.client.SMembers(ctx, projectDocsPrefix+projectID).Result()
	if err != nil {
		return nil, NewRepositoryError("list_documents", projectID, err, "")
	}

	docs := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	return docs, nil
}

// Exists checks if a document exists
func (r *RedisDocumentRepository) Exists(ctx context.Context, documentID string) (bool, error) {
	n, err := r.client.Exists(ctx, documentKeyPrefix+documentID).Result()
	if err != nil {
		return false, NewRepositoryError("exists_document", documentID, err, "")
	}
	return n > 0, nil
}

// UpdateStatus persists a document lifecycle transition
func (r *RedisDocumentRepository) UpdateStatus(ctx context.Context, documentID string, status models.DocumentStatus) error {
	if !status.IsValid() {
		return &models.ValidationError{Field: "status", Message: "invalid status: " + string(status)}
	}
	return r.mutate(ctx, "update_status", documentID, func(doc *models.Document) {
		doc.Status = status
	})
}

// SetStorageURI records the durable object-storage locator of the original file
func (r *RedisDocumentRepository) SetStorageURI(ctx context.Context, documentID, uri string) error {
	return r.mutate(ctx, "set_storage_uri", documentID, func(doc *models.Document) {
		doc.StorageURI = uri
	})
}

// SetEntities records named entities extracted from the document text
func (r *RedisDocumentRepository) SetEntities(ctx context.Context, documentID string, entities []models.Entity) error {
	return r.mutate(ctx, "set_entities", documentID, func(doc *models.Document) {
		doc.Entities = entities
	})
}

// SetChunkCount records how many chunks the document produced
func (r *RedisDocumentRepository) SetChunkCount(ctx context.Context, documentID string, count int) error {
	return r.mutate(ctx, "set_chunk_count", documentID, func(doc *models.Document) {
		doc.ChunkCount = count
	})
}

// mutate applies fn to the stored document and writes it back
func (r *RedisDocumentRepository) mutate(ctx context.Context, op, documentID string, fn func(*models.Document)) error {
	doc, err := r.Get(ctx, documentID)
	if err != nil {
		return err
	}

	fn(doc)
	doc.UpdatedAt = time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		return NewRepositoryError(op, documentID, err, "failed to marshal document")
	}

	if err := r.client.Set(ctx, documentKeyPrefix+documentID, data, 0).Err(); err != nil {
		return NewRepositoryError(op, documentID, err, "")
	}

	return nil
}

// CreateChunks persists all chunk rows of one document as a single batch.
// The chunks are appended to the document's chunk list in one RPUSH so a
// reader never observes a partial set.
func (r *RedisDocumentRepository) CreateChunks(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	documentID := chunks[0].DocumentID
	now := time.Now()

	values := make([]interface{}, 0, len(chunks))
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return err
		}
		if chunk.DocumentID != documentID {
			return NewRepositoryError("create_chunks", documentID, nil, "chunk batch spans multiple documents")
		}
		chunk.CreatedAt = now

		data, err := json.Marshal(chunk)
		if err != nil {
			return NewRepositoryError("create_chunks", chunk.ID, err, "failed to marshal chunk")
		}
		values = append(values, data)
	}

	if err := r.client.RPush(ctx, chunksKeyPrefix+documentID, values...).Err(); err != nil {
		return NewRepositoryError("create_chunks", documentID, err, "failed to store chunk batch")
	}

	return nil
}

// ListChunks returns a document's chunk rows in chunk-index order
func (r *RedisDocumentRepository) ListChunks(ctx context.Context, documentID string) ([]*models.Chunk, error) {
	items, err := r.client.LRange(ctx, chunksKeyPrefix+documentID, 0, -1).Result()
	if err != nil {
		return nil, NewRepositoryError("list_chunks", documentID, err, "")
	}

	chunks := make([]*models.Chunk, 0, len(items))
	for _, item := range items {
		var chunk models.Chunk
		if err := json.Unmarshal([]byte(item), &chunk); err != nil {
			return nil, NewRepositoryError("list_chunks", documentID, err, "failed to unmarshal chunk")
		}
		chunks = append(chunks, &chunk)
	}

	return chunks, nil
}

// Delete removes the document record and cascades to its chunk rows
func (r *RedisDocumentRepository) Delete(ctx context.Context, documentID string) error {
	doc, err := r.Get(ctx, documentID)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, documentKeyPrefix+documentID)
	pipe.Del(ctx, chunksKeyPrefix+documentID)
	pipe.SRem(ctx, documentIndexKey, documentID)
	pipe.SRem(ctx, projectDocsPrefix+doc.ProjectID, documentID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewRepositoryError("delete_document", documentID, err, "")
	}

	return nil
}
