package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"autorag/internal/models"
	"autorag/internal/repositories"
	"autorag/internal/services"

	"github.com/gorilla/mux"
)

// maxUploadBytes caps the in-memory part of multipart parsing (100MB)
const maxUploadBytes = 100 << 20

// DocumentHandler handles HTTP requests for document operations
type DocumentHandler struct {
	docService *services.DocumentService
	documents  repositories.DocumentRepository
	logger     *log.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService *services.DocumentService, documents repositories.DocumentRepository, logger *log.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		documents:  documents,
		logger:     logger,
	}
}

// UploadDocument handles document upload requests. The form carries either
// a file part or a url field; ingestion happens in the background and the
// response returns immediately with the document in processing state.
// @Summary Upload a document or register a URL
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param project_id formData string true "Project ID"
// @Param file formData file false "Document file"
// @Param url formData string false "URL to ingest instead of a file"
// @Success 202 {object} models.DocumentDTO
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/documents/upload [post]
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("Upload request from %s", r.RemoteAddr)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Printf("Failed to parse form: %v", err)
		sendError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	projectID := r.FormValue("project_id")
	if projectID == "" {
		sendError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	if rawURL := r.FormValue("url"); rawURL != "" {
		doc, err := h.docService.AddURL(r.Context(), projectID, rawURL)
		if err != nil {
			h.logger.Printf("URL registration failed: %v", err)
			sendDomainError(w, err)
			return
		}
		sendJSON(w, http.StatusAccepted, doc.ToDTO())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "either a file or a url is required")
		return
	}
	defer file.Close()

	doc, err := h.docService.Upload(r.Context(), projectID, header.Filename, file)
	if err != nil {
		h.logger.Printf("Upload failed: %v", err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusAccepted, doc.ToDTO())
}

// DocumentListResponse represents a list of documents
type DocumentListResponse struct {
	Documents []models.DocumentDTO `json:"documents"`
	Count     int                  `json:"count"`
}

// ListProjectDocuments handles requests to list a project's documents
// @Summary List a project's documents
// @Tags documents
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} DocumentListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects/{id}/documents [get]
func (h *DocumentHandler) ListProjectDocuments(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	docs, err := h.documents.ListByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Printf("Failed to list documents for project %s: %v", projectID, err)
		sendDomainError(w, err)
		return
	}

	dtos := make([]models.DocumentDTO, len(docs))
	for i, doc := range docs {
		dtos[i] = doc.ToDTO()
	}

	sendJSON(w, http.StatusOK, DocumentListResponse{Documents: dtos, Count: len(dtos)})
}

// GetDocument handles requests for a single document
// @Summary Get document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} models.DocumentDTO
// @Failure 404 {object} ErrorResponse
// @Router /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	doc, err := h.documents.Get(r.Context(), documentID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, doc.ToDTO())
}

// DeleteDocument handles document deletion with vector cascade
// @Summary Delete document
// @Description Delete a document, its chunks, and its vectors
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	h.logger.Printf("Deleting document %s", documentID)

	if err := h.docService.Delete(r.Context(), documentID); err != nil {
		h.logger.Printf("Failed to delete document %s: %v", documentID, err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"status": "deleted", "document_id": documentID})
}

// IngestionStatusResponse reports where a document is in its lifecycle
type IngestionStatusResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
}

// GetIngestionStatus handles ingestion progress polling
// @Summary Get ingestion status
// @Tags ingestion
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} IngestionStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/ingestion/{id}/status [get]
func (h *DocumentHandler) GetIngestionStatus(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	doc, err := h.documents.Get(r.Context(), documentID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, IngestionStatusResponse{
		DocumentID: doc.ID,
		Status:     doc.Status.String(),
		ChunkCount: doc.ChunkCount,
	})
}

// UpdateStatusRequest is the body for a manual status transition
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateDocumentStatus handles manual status transitions
// @Summary Update document status
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} models.DocumentDTO
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/documents/{id}/status [patch]
func (h *DocumentHandler) UpdateDocumentStatus(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.documents.UpdateStatus(r.Context(), documentID, models.DocumentStatus(req.Status)); err != nil {
		sendDomainError(w, err)
		return
	}

	doc, err := h.documents.Get(r.Context(), documentID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, doc.ToDTO())
}
