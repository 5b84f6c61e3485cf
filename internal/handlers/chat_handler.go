package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"autorag/internal/models"
	"autorag/internal/services"

	"github.com/google/uuid"
)

// ChatHandler handles question answering over ingested documents
type ChatHandler struct {
	rag       *services.RAGService
	extractor *services.Extractor
	storage   *services.StorageService // optional; nil disables image archival
	uploadDir string
	logger    *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(rag *services.RAGService, extractor *services.Extractor, storage *services.StorageService, uploadDir string, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		rag:       rag,
		extractor: extractor,
		storage:   storage,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Chat answers a question using retrieval over the project's documents
// @Summary Ask a question
// @Description Retrieve relevant chunks and answer with citations and follow-ups
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat request"
// @Success 200 {object} models.Answer
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.rag.Answer(r.Context(), &req)
	if err != nil {
		h.logger.Printf("Chat failed: %v", err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, answer)
}

// ImageChatResponse is an answer produced from an uploaded image
type ImageChatResponse struct {
	*models.Answer
	OCRText  string `json:"ocr_text"`
	ImageURL string `json:"image_url,omitempty"`
}

// ChatImage answers a question captured as an image: OCR the image, then
// run the recognized text through the answer pipeline.
// @Summary Ask a question from an image
// @Tags chat
// @Accept multipart/form-data
// @Produce json
// @Param project_id formData string true "Project ID"
// @Param image formData file true "Image with the question"
// @Param session_id formData string false "Session to record the turn in"
// @Param language formData string false "Answer language"
// @Success 200 {object} ImageChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat/image [post]
func (h *ChatHandler) ChatImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	projectID := r.FormValue("project_id")
	if projectID == "" {
		sendError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		sendError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	filetype := services.FiletypeFromFilename(header.Filename)
	if filetype == "" {
		sendError(w, http.StatusBadRequest, "image filename has no extension")
		return
	}

	localPath, err := h.saveTemp(header.Filename, file)
	if err != nil {
		h.logger.Printf("Failed to save image upload: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	defer os.Remove(localPath)

	ocrText, err := h.extractor.Extract(r.Context(), filetype, localPath)
	if err != nil {
		h.logger.Printf("OCR failed: %v", err)
		sendDomainError(w, err)
		return
	}
	if ocrText == "" {
		sendError(w, http.StatusBadRequest, "no text recognized in image")
		return
	}

	// Archival is best-effort; the answer works without the stored image
	imageURL := ""
	if h.storage != nil {
		uri, err := h.storage.UploadFile(r.Context(), localPath, "images/"+filepath.Base(localPath))
		if err != nil {
			h.logger.Printf("Failed to archive chat image: %v", err)
		} else {
			imageURL = uri
		}
	}

	req := &models.ChatRequest{
		ProjectID: projectID,
		Question:  ocrText,
		Language:  r.FormValue("language"),
		SessionID: r.FormValue("session_id"),
	}

	answer, err := h.rag.Answer(r.Context(), req)
	if err != nil {
		h.logger.Printf("Image chat failed: %v", err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, ImageChatResponse{
		Answer:   answer,
		OCRText:  ocrText,
		ImageURL: imageURL,
	})
}

// saveTemp writes an uploaded part to the upload directory
func (h *ChatHandler) saveTemp(filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	localPath := filepath.Join(h.uploadDir, uuid.NewString()+"_"+filepath.Base(filename))
	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return "", err
	}

	return localPath, nil
}
