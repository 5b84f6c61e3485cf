package routes

import (
	"autorag/internal/handlers"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router needs
type Handlers struct {
	Health     *handlers.HealthHandler
	Project    *handlers.ProjectHandler
	Document   *handlers.DocumentHandler
	Chat       *handlers.ChatHandler
	Session    *handlers.SessionHandler
	Preference *handlers.PreferenceHandler
}

// RegisterRoutes wires all API routes onto the router
func RegisterRoutes(router *mux.Router, h *Handlers) {
	router.HandleFunc("/health", h.Health.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Projects
	api.HandleFunc("/projects", h.Project.CreateProject).Methods("POST")
	api.HandleFunc("/projects", h.Project.ListProjects).Methods("GET")
	api.HandleFunc("/projects/{id}", h.Project.GetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", h.Project.DeleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/documents", h.Document.ListProjectDocuments).Methods("GET")

	// Documents and ingestion
	api.HandleFunc("/documents/upload", h.Document.UploadDocument).Methods("POST")
	api.HandleFunc("/documents/{id}", h.Document.GetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}", h.Document.DeleteDocument).Methods("DELETE")
	api.HandleFunc("/documents/{id}/status", h.Document.UpdateDocumentStatus).Methods("PATCH")
	api.HandleFunc("/ingestion/{id}/status", h.Document.GetIngestionStatus).Methods("GET")

	// Chat
	api.HandleFunc("/chat", h.Chat.Chat).Methods("POST")
	api.HandleFunc("/chat/image", h.Chat.ChatImage).Methods("POST")

	// Sessions and messages
	api.HandleFunc("/sessions", h.Session.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", h.Session.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", h.Session.UpdateSession).Methods("PATCH")
	api.HandleFunc("/sessions/{id}/messages", h.Session.ListMessages).Methods("GET")
	api.HandleFunc("/messages", h.Session.CreateMessage).Methods("POST")

	// Preferences
	api.HandleFunc("/preferences/{id}", h.Preference.GetPreference).Methods("GET")
	api.HandleFunc("/preferences/{id}", h.Preference.UpdatePreference).Methods("PATCH")
}
