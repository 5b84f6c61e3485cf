package models

import (
	"time"
)

// Document represents an uploaded document and its ingestion lifecycle
type Document struct {
	ID         string         `json:"document_id"`
	ProjectID  string         `json:"project_id"`
	Filename   string         `json:"filename"`
	Filetype   string         `json:"filetype"`
	Status     DocumentStatus `json:"status"`
	StorageURI string         `json:"storage_uri,omitempty"`
	ChunkCount int            `json:"chunk_count"`
	Entities   []Entity       `json:"entities,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DocumentStatus represents the ingestion status of a document.
// Transitions are one-directional: processing -> ready or processing -> error.
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusError      DocumentStatus = "error"
)

// Entity is a named entity recognized in the document's extracted text
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// DocumentDTO - API request/response view of a document
type DocumentDTO struct {
	ID         string   `json:"document_id"`
	ProjectID  string   `json:"project_id"`
	Filename   string   `json:"filename"`
	Filetype   string   `json:"filetype"`
	Status     string   `json:"status"`
	StorageURI string   `json:"storage_uri,omitempty"`
	ChunkCount int      `json:"chunk_count"`
	Entities   []Entity `json:"entities,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// ToDTO converts Document domain model to DTO
func (d *Document) ToDTO() DocumentDTO {
	return DocumentDTO{
		ID:         d.ID,
		ProjectID:  d.ProjectID,
		Filename:   d.Filename,
		Filetype:   d.Filetype,
		Status:     string(d.Status),
		StorageURI: d.StorageURI,
		ChunkCount: d.ChunkCount,
		Entities:   d.Entities,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

// Validate checks if the document is valid
func (d *Document) Validate() error {
	if d.ID == "" {
		return &ValidationError{Field: "document_id", Message: "document ID is required"}
	}
	if d.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "project ID is required"}
	}
	if d.Filename == "" {
		return &ValidationError{Field: "filename", Message: "filename is required"}
	}
	if !d.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "invalid status: " + string(d.Status)}
	}
	return nil
}

// IsValid checks if document status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusProcessing, DocumentStatusReady, DocumentStatusError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the status can no longer change
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusReady || s == DocumentStatusError
}

// String returns the string representation of document status
func (s DocumentStatus) String() string {
	return string(s)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
