package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"autorag/internal/models"
	"autorag/internal/repositories"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// SessionHandler handles HTTP requests for chat sessions and messages
type SessionHandler struct {
	sessions repositories.SessionRepository
	projects repositories.ProjectRepository
	logger   *log.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions repositories.SessionRepository, projects repositories.ProjectRepository, logger *log.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		projects: projects,
		logger:   logger,
	}
}

// CreateSessionRequest is the body for session creation
type CreateSessionRequest struct {
	ProjectID string `json:"project_id"`
	Language  string `json:"language"`
}

// CreateSession handles chat session creation
// @Summary Create a chat session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body CreateSessionRequest true "Session"
// @Success 201 {object} models.ChatSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	exists, err := h.projects.Exists(r.Context(), req.ProjectID)
	if err != nil {
		sendDomainError(w, err)
		return
	}
	if !exists {
		sendDomainError(w, repositories.ProjectNotFoundError(req.ProjectID))
		return
	}

	session := &models.ChatSession{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Language:  req.Language,
	}

	if err := h.sessions.CreateSession(r.Context(), session); err != nil {
		h.logger.Printf("Failed to create session: %v", err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, session)
}

// GetSession handles requests for a single session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.ChatSession
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, session)
}

// UpdateSessionRequest replaces the session history wholesale
type UpdateSessionRequest struct {
	History  []models.ChatMessage `json:"history"`
	Language string               `json:"language"`
}

// UpdateSession handles session history replacement
// @Summary Update session history
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param session body UpdateSessionRequest true "New history"
// @Success 200 {object} models.ChatSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions/{id} [patch]
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := h.sessions.UpdateSession(r.Context(), sessionID, req.History, req.Language)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, session)
}

// CreateMessageRequest is the body for message creation
type CreateMessageRequest struct {
	SessionID string `json:"session_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	ImageURL  string `json:"image_url"`
	OCRText   string `json:"ocr_text"`
}

// CreateMessage handles message creation
// @Summary Record a message
// @Tags sessions
// @Accept json
// @Produce json
// @Param message body CreateMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/messages [post]
func (h *SessionHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Sender:    req.Sender,
		Text:      req.Text,
		Language:  req.Language,
		ImageURL:  req.ImageURL,
		OCRText:   req.OCRText,
	}

	if err := h.sessions.CreateMessage(r.Context(), msg); err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, msg)
}

// MessageListResponse represents a session's message log
type MessageListResponse struct {
	Messages []*models.Message `json:"messages"`
	Count    int               `json:"count"`
}

// ListMessages handles requests for a session's messages
// @Summary List session messages
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} MessageListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/sessions/{id}/messages [get]
func (h *SessionHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	msgs, err := h.sessions.ListMessages(r.Context(), sessionID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, MessageListResponse{Messages: msgs, Count: len(msgs)})
}
