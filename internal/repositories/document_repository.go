package repositories

import (
	"context"

	"autorag/internal/models"
)

// ProjectRepository defines persistence for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, projectID string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Delete(ctx context.Context, projectID string) error
	Exists(ctx context.Context, projectID string) (bool, error)
}

// DocumentRepository defines persistence for documents and their chunk rows.
// The ingestion worker is the only writer of status transitions; chunk rows
// are written once, as a single batch, and never mutated.
type DocumentRepository interface {
	Register(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, documentID string) (*models.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Document, error)
	Exists(ctx context.Context, documentID string) (bool, error)

	// UpdateStatus persists a lifecycle transition so concurrent readers
	// observe the latest completed phase.
	UpdateStatus(ctx context.Context, documentID string, status models.DocumentStatus) error
	SetStorageURI(ctx context.Context, documentID, uri string) error
	SetEntities(ctx context.Context, documentID string, entities []models.Entity) error
	SetChunkCount(ctx context.Context, documentID string, count int) error

	// CreateChunks persists all chunk rows of one document in a single
	// atomic batch; partial chunk sets are not acceptable state.
	CreateChunks(ctx context.Context, chunks []*models.Chunk) error
	ListChunks(ctx context.Context, documentID string) ([]*models.Chunk, error)

	// Delete removes the document and cascades to its chunk rows.
	Delete(ctx context.Context, documentID string) error
}

// SessionRepository defines persistence for chat sessions and messages
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// UpdateSession replaces the session history as a whole; language is
	// updated only when non-empty.
	UpdateSession(ctx context.Context, sessionID string, history []models.ChatMessage, language string) (*models.ChatSession, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, sessionID string) ([]*models.Message, error)
}

// PreferenceRepository defines persistence for user preferences
type PreferenceRepository interface {
	Get(ctx context.Context, prefID string) (*models.UserPreference, error)

	// Update applies only the fields provided in the partial update and
	// returns the resulting record. Missing records start from defaults.
	Update(ctx context.Context, prefID string, update *models.PreferenceUpdate) (*models.UserPreference, error)
}
