package services

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"

	"autorag/internal/models"
	"autorag/internal/repositories"

	"github.com/google/uuid"
)

// DocumentService handles document registration and teardown. Uploads are
// saved to the local upload directory and handed to the ingestion queue;
// the HTTP layer returns as soon as the job is enqueued.
type DocumentService struct {
	projects  repositories.ProjectRepository
	documents repositories.DocumentRepository
	jobs      repositories.JobRepository
	vectors   repositories.VectorRepository
	uploadDir string
	logger    *log.Logger
}

// NewDocumentService creates a new document service instance
func NewDocumentService(
	projects repositories.ProjectRepository,
	documents repositories.DocumentRepository,
	jobs repositories.JobRepository,
	vectors repositories.VectorRepository,
	uploadDir string,
	logger *log.Logger,
) *DocumentService {
	return &DocumentService{
		projects:  projects,
		documents: documents,
		jobs:      jobs,
		vectors:   vectors,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Upload saves the file locally, registers the document in processing
// state, and enqueues ingestion. The returned document has not been
// processed yet.
func (s *DocumentService) Upload(ctx context.Context, projectID, filename string, src io.Reader) (*models.Document, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ProjectNotFoundError(projectID)
	}

	filetype := FiletypeFromFilename(filename)
	if filetype == "" {
		return nil, &models.ValidationError{Field: "filename", Message: "filename has no extension"}
	}

	docID := uuid.NewString()
	localPath := filepath.Join(s.uploadDir, docID+"_"+filepath.Base(filename))

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(localPath)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(localPath)
		return nil, err
	}

	doc := &models.Document{
		ID:         docID,
		ProjectID:  projectID,
		Filename:   filepath.Base(filename),
		Filetype:   filetype,
		Status:     models.DocumentStatusProcessing,
		StorageURI: localPath,
	}

	return s.register(ctx, doc, localPath)
}

// AddURL registers a URL as a document and enqueues ingestion. The URL is
// fetched by the worker, not here.
func (s *DocumentService) AddURL(ctx context.Context, projectID, rawURL string) (*models.Document, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repositories.ProjectNotFoundError(projectID)
	}
	if rawURL == "" {
		return nil, &models.ValidationError{Field: "url", Message: "url is required"}
	}

	doc := &models.Document{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Filename:   rawURL,
		Filetype:   "url",
		Status:     models.DocumentStatusProcessing,
		StorageURI: rawURL,
	}

	return s.register(ctx, doc, "")
}

// register stores the document record and enqueues the ingestion job. On
// enqueue failure the record flips to error so it does not sit in
// processing forever.
func (s *DocumentService) register(ctx context.Context, doc *models.Document, localPath string) (*models.Document, error) {
	if err := s.documents.Register(ctx, doc); err != nil {
		if localPath != "" {
			os.Remove(localPath)
		}
		return nil, err
	}

	if err := s.jobs.Enqueue(ctx, doc.ID); err != nil {
		if updateErr := s.documents.UpdateStatus(ctx, doc.ID, models.DocumentStatusError); updateErr != nil {
			s.logger.Printf("[ERROR] failed to mark document %s as error after enqueue failure: %v", doc.ID, updateErr)
		}
		return nil, err
	}

	s.logger.Printf("[INFO] document %s (%s) enqueued for ingestion", doc.ID, doc.Filename)
	return doc, nil
}

// Delete removes a document everywhere: its vectors in the index, its
// chunk rows and record, and the local upload if one is still around.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.vectors.DeleteByDocument(ctx, doc.ProjectID, doc.ID); err != nil {
		return err
	}

	if doc.Filetype != "url" && doc.StorageURI != "" && filepath.IsAbs(doc.StorageURI) {
		if err := os.Remove(doc.StorageURI); err != nil && !os.IsNotExist(err) {
			s.logger.Printf("[WARN] failed to remove local upload %s: %v", doc.StorageURI, err)
		}
	}

	return s.documents.Delete(ctx, documentID)
}

// DeleteProject tears down a project and everything under it: every
// document (with its vectors), then the project record itself.
func (s *DocumentService) DeleteProject(ctx context.Context, projectID string) error {
	docs, err := s.documents.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := s.Delete(ctx, doc.ID); err != nil {
			return err
		}
	}

	return s.projects.Delete(ctx, projectID)
}
