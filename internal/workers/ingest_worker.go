package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"autorag/internal/models"
	"autorag/internal/repositories"
	"autorag/internal/services"

	"github.com/google/uuid"
)

// Extractor pulls plain text out of a document source
type Extractor interface {
	Extract(ctx context.Context, filetype, source string) (string, error)
}

// Embedder turns texts into vectors
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Uploader stores a local file in durable object storage
type Uploader interface {
	UploadFile(ctx context.Context, localPath, objectName string) (string, error)
}

// EntityTagger extracts named entities from document text
type EntityTagger func(text string) ([]models.Entity, error)

// IngestWorker drains the ingestion queue and runs the document pipeline:
// extract, chunk, embed, upsert vectors, enrich entities, archive the
// original, then flip the document to its terminal status.
type IngestWorker struct {
	*BaseWorker
	jobs      repositories.JobRepository
	documents repositories.DocumentRepository
	vectors   repositories.VectorRepository
	extractor Extractor
	embedder  Embedder
	storage   Uploader
	entities  EntityTagger
	chunkSize int
	logger    *log.Logger
}

// IngestWorkerConfig holds configuration for the ingest worker
type IngestWorkerConfig struct {
	WorkerConfig WorkerConfig
	Jobs         repositories.JobRepository
	Documents    repositories.DocumentRepository
	Vectors      repositories.VectorRepository
	Extractor    Extractor
	Embedder     Embedder
	Storage      Uploader // optional; nil disables archival
	Entities     EntityTagger
	ChunkSize    int
	Logger       *log.Logger
}

// NewIngestWorker creates a new ingest worker
func NewIngestWorker(config IngestWorkerConfig) *IngestWorker {
	if config.ChunkSize <= 0 {
		config.ChunkSize = services.DefaultChunkSize
	}
	if config.Entities == nil {
		config.Entities = services.ExtractEntities
	}
	return &IngestWorker{
		BaseWorker: NewBaseWorker(config.WorkerConfig),
		jobs:       config.Jobs,
		documents:  config.Documents,
		vectors:    config.Vectors,
		extractor:  config.Extractor,
		embedder:   config.Embedder,
		storage:    config.Storage,
		entities:   config.Entities,
		chunkSize:  config.ChunkSize,
		logger:     config.Logger,
	}
}

// Start begins processing ingestion jobs
func (w *IngestWorker) Start(ctx context.Context) error {
	if w.IsRunning() {
		return NewWorkerError(w.Name(), "start", nil, "worker already running")
	}

	w.setRunning(true)
	w.logger.Printf("[INFO] starting ingest worker: %s", w.Name())

	for i := 0; i < w.config.Concurrency; i++ {
		go w.processJobs(ctx, i)
	}

	return nil
}

// Stop gracefully shuts down the worker
func (w *IngestWorker) Stop(ctx context.Context) error {
	if !w.IsRunning() {
		return nil
	}

	w.logger.Printf("[INFO] stopping ingest worker: %s", w.Name())

	shutdownCtx, cancel := context.WithTimeout(ctx, w.config.ShutdownTimeout)
	defer cancel()
	<-shutdownCtx.Done()

	w.setRunning(false)
	w.logger.Printf("[INFO] ingest worker stopped: %s", w.Name())

	return nil
}

// processJobs continuously polls the queue for document IDs
func (w *IngestWorker) processJobs(ctx context.Context, workerID int) {
	workerName := fmt.Sprintf("%s-goroutine-%d", w.Name(), workerID)
	w.logger.Printf("[INFO] worker goroutine started: %s", workerName)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("[INFO] worker goroutine stopping: %s", workerName)
			return

		case <-ticker.C:
			if !w.IsRunning() {
				return
			}

			documentID, err := w.jobs.Dequeue(ctx)
			if err != nil {
				w.logger.Printf("[ERROR] failed to dequeue job: %v", err)
				continue
			}
			if documentID == "" {
				continue
			}

			w.ProcessDocument(ctx, documentID)
		}
	}
}

// ProcessDocument runs the full pipeline for one document. The document
// always ends in a terminal status and the in-flight lock is always
// released, even on panic.
func (w *IngestWorker) ProcessDocument(ctx context.Context, documentID string) {
	startTime := w.recordJobStart()
	w.logger.Printf("[INFO] ingesting document: %s", documentID)

	var err error
	if w.config.EnableRecovery {
		err = w.processWithRecovery(ctx, documentID)
	} else {
		err = w.process(ctx, documentID)
	}

	if err != nil {
		w.recordJobFailure(startTime)
		w.logger.Printf("[ERROR] ingestion failed for document %s: %v", documentID, err)
		if updateErr := w.documents.UpdateStatus(ctx, documentID, models.DocumentStatusError); updateErr != nil {
			w.logger.Printf("[ERROR] failed to mark document %s as error: %v", documentID, updateErr)
		}
	} else {
		w.recordJobSuccess(startTime)
		w.logger.Printf("[INFO] ingestion completed for document %s (duration: %v)", documentID, time.Since(startTime))
	}

	if releaseErr := w.jobs.Release(ctx, documentID); releaseErr != nil {
		w.logger.Printf("[ERROR] failed to release ingest lock for %s: %v", documentID, releaseErr)
	}
}

// processWithRecovery wraps the pipeline with panic recovery
func (w *IngestWorker) processWithRecovery(ctx context.Context, documentID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerPanicError{Panic: r}
			w.logger.Printf("[ERROR] panic ingesting document %s: %v", documentID, r)
		}
	}()
	return w.process(ctx, documentID)
}

// process performs the actual pipeline
func (w *IngestWorker) process(ctx context.Context, documentID string) error {
	doc, err := w.documents.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := w.documents.UpdateStatus(ctx, documentID, models.DocumentStatusProcessing); err != nil {
		return err
	}

	// Extraction failures degrade to empty text; the document still
	// reaches ready, just with zero chunks.
	text, err := w.extractor.Extract(ctx, doc.Filetype, doc.StorageURI)
	if err != nil {
		w.logger.Printf("[WARN] extraction failed for document %s, continuing with empty text: %v", documentID, err)
		text = ""
	}

	chunkCount := 0
	if text != "" {
		chunkCount, err = w.indexText(ctx, doc, text)
		if err != nil {
			return err
		}

		w.enrichEntities(ctx, documentID, text)
	}

	w.archiveOriginal(ctx, doc)

	if err := w.documents.SetChunkCount(ctx, documentID, chunkCount); err != nil {
		return err
	}

	return w.documents.UpdateStatus(ctx, documentID, models.DocumentStatusReady)
}

// indexText chunks the text, embeds every chunk in one batch, upserts the
// vectors with retrieval metadata, and persists the chunk rows.
func (w *IngestWorker) indexText(ctx context.Context, doc *models.Document, text string) (int, error) {
	texts := services.ChunkWords(text, w.chunkSize)
	if len(texts) == 0 {
		return 0, nil
	}

	embeddings, err := w.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(texts) {
		return 0, NewWorkerError(w.Name(), "embed", nil,
			fmt.Sprintf("embedding count mismatch: got %d, expected %d", len(embeddings), len(texts)))
	}

	ids := make([]string, len(texts))
	metadatas := make([]map[string]interface{}, len(texts))
	chunks := make([]*models.Chunk, len(texts))
	for i, chunkText := range texts {
		ids[i] = uuid.NewString()
		metadatas[i] = map[string]interface{}{
			"document_id": doc.ID,
			"project_id":  doc.ProjectID,
			"chunk_index": i,
			"text":        chunkText,
		}
		chunks[i] = &models.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Text:       chunkText,
			ChunkIndex: i,
			VectorID:   ids[i],
		}
	}

	if err := w.vectors.Upsert(ctx, ids, embeddings, metadatas); err != nil {
		return 0, err
	}

	if err := w.documents.CreateChunks(ctx, chunks); err != nil {
		return 0, err
	}

	return len(texts), nil
}

// enrichEntities tags named entities on the document. Best-effort: a
// tagging failure never fails ingestion.
func (w *IngestWorker) enrichEntities(ctx context.Context, documentID, text string) {
	entities, err := w.entities(text)
	if err != nil {
		w.logger.Printf("[WARN] entity tagging failed for document %s: %v", documentID, err)
		return
	}
	if len(entities) == 0 {
		return
	}
	if err := w.documents.SetEntities(ctx, documentID, entities); err != nil {
		w.logger.Printf("[WARN] failed to store entities for document %s: %v", documentID, err)
	}
}

// archiveOriginal copies the uploaded file into object storage and records
// the durable URI. Non-fatal: the local copy keeps working if storage is
// down.
func (w *IngestWorker) archiveOriginal(ctx context.Context, doc *models.Document) {
	if w.storage == nil || doc.Filetype == "url" || doc.StorageURI == "" {
		return
	}

	objectName := doc.ID + "_" + doc.Filename
	uri, err := w.storage.UploadFile(ctx, doc.StorageURI, objectName)
	if err != nil {
		w.logger.Printf("[WARN] failed to archive document %s to object storage: %v", doc.ID, err)
		return
	}

	if err := w.documents.SetStorageURI(ctx, doc.ID, uri); err != nil {
		w.logger.Printf("[WARN] failed to record storage URI for document %s: %v", doc.ID, err)
	}
}
