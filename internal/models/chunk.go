package models

import (
	"time"
)

// Chunk is a contiguous slice of a document's extracted text. Chunks are
// created in one batch after embedding succeeds and are never mutated;
// VectorID links the row to the vector upserted into the index.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	ChunkIndex int       `json:"chunk_index"`
	VectorID   string    `json:"vector_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks if the chunk is valid
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Message: "chunk ID is required"}
	}
	if c.DocumentID == "" {
		return &ValidationError{Field: "document_id", Message: "document ID is required"}
	}
	if c.ChunkIndex < 0 {
		return &ValidationError{Field: "chunk_index", Message: "chunk index cannot be negative"}
	}
	return nil
}

// RetrievedChunk is a per-query retrieval result. It is built from vector
// index metadata and consumed immediately for prompt assembly; never persisted.
type RetrievedChunk struct {
	Text       string  `json:"text"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
}

// Answer is the aggregate returned by the answer engine for one question.
// Prompt carries the fully assembled prompt for auditability; History echoes
// the trailing window the caller should persist.
type Answer struct {
	Answer    string           `json:"answer"`
	Sources   []int            `json:"sources"`
	Prompt    string           `json:"prompt"`
	Chunks    []RetrievedChunk `json:"chunks"`
	Followups []string         `json:"followups"`
	History   []ChatMessage    `json:"history"`
}
