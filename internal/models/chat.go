package models

import (
	"time"
)

// ChatMessage represents a single turn in a conversation
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "ai"
	Content string `json:"content"` // The message content
}

// ChatSession holds a project-scoped conversation. History is replaced as a
// whole on update; there is no partial edit of individual turns.
type ChatSession struct {
	ID        string        `json:"session_id"`
	ProjectID string        `json:"project_id"`
	History   []ChatMessage `json:"history"`
	Language  string        `json:"language"`
	CreatedAt time.Time     `json:"created_at"`
}

// Validate checks if the session is valid
func (s *ChatSession) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "session_id", Message: "session ID is required"}
	}
	if s.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "project ID is required"}
	}
	return nil
}

// Message is a persisted chat message belonging to a session
type Message struct {
	ID        string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"` // "user" or "ai"
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	ImageURL  string    `json:"image_url,omitempty"`
	OCRText   string    `json:"ocr_text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks if the message is valid
func (m *Message) Validate() error {
	if m.ID == "" {
		return &ValidationError{Field: "message_id", Message: "message ID is required"}
	}
	if m.SessionID == "" {
		return &ValidationError{Field: "session_id", Message: "session ID is required"}
	}
	if m.Sender != "user" && m.Sender != "ai" {
		return &ValidationError{Field: "sender", Message: "sender must be 'user' or 'ai'"}
	}
	return nil
}

// ChatRequest is the incoming question for the answer engine
type ChatRequest struct {
	ProjectID      string        `json:"project_id"`
	Question       string        `json:"question"`
	PromptTemplate string        `json:"prompt_template,omitempty"`
	Language       string        `json:"language,omitempty"`
	History        []ChatMessage `json:"history,omitempty"`
	TopK           int           `json:"top_k,omitempty"`
	SessionID      string        `json:"session_id,omitempty"`
}

// Validate checks if the chat request is valid
func (r *ChatRequest) Validate() error {
	if r.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "project ID is required"}
	}
	if r.Question == "" {
		return &ValidationError{Field: "question", Message: "question is required"}
	}
	return nil
}
