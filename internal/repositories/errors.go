package repositories

import (
	"errors"
)

// RepositoryError represents errors from the persistence layer
type RepositoryError struct {
	Operation string
	Key       string
	Err       error
	Message   string
}

func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	prefix := e.Operation
	if e.Key != "" {
		prefix += " " + e.Key
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(operation, key string, err error, message string) *RepositoryError {
	return &RepositoryError{
		Operation: operation,
		Key:       key,
		Err:       err,
		Message:   message,
	}
}

// ErrNotFound is wrapped by all not-found constructors so callers can map
// them to a 404 with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrIngestInFlight signals that an ingestion job for the document is already
// queued or running; a second dispatch is a no-op.
var ErrIngestInFlight = errors.New("ingestion already in flight for document")

// ProjectNotFoundError reports a missing project
func ProjectNotFoundError(projectID string) error {
	return NewRepositoryError("get_project", projectID, ErrNotFound, "project not found: "+projectID)
}

// DocumentNotFoundError reports a missing document
func DocumentNotFoundError(documentID string) error {
	return NewRepositoryError("get_document", documentID, ErrNotFound, "document not found: "+documentID)
}

// SessionNotFoundError reports a missing chat session
func SessionNotFoundError(sessionID string) error {
	return NewRepositoryError("get_session", sessionID, ErrNotFound, "session not found: "+sessionID)
}

// PreferenceNotFoundError reports a missing preference record
func PreferenceNotFoundError(prefID string) error {
	return NewRepositoryError("get_preference", prefID, ErrNotFound, "preference not found: "+prefID)
}

// DocumentAlreadyExistsError reports a duplicate document registration
func DocumentAlreadyExistsError(documentID string) error {
	return NewRepositoryError("register_document", documentID, nil, "document already exists: "+documentID)
}
