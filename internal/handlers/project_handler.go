package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"autorag/internal/models"
	"autorag/internal/repositories"
	"autorag/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ProjectHandler handles HTTP requests for project operations
type ProjectHandler struct {
	projects   repositories.ProjectRepository
	docService *services.DocumentService
	logger     *log.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects repositories.ProjectRepository, docService *services.DocumentService, logger *log.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:   projects,
		docService: docService,
		logger:     logger,
	}
}

// CreateProjectRequest is the body for project creation
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateProject handles project creation
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project body CreateProjectRequest true "Project"
// @Success 201 {object} models.ProjectDTO
// @Failure 400 {object} ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.projects.Create(r.Context(), project); err != nil {
		h.logger.Printf("Failed to create project: %v", err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, project.ToDTO())
}

// ProjectListResponse represents a list of projects
type ProjectListResponse struct {
	Projects []models.ProjectDTO `json:"projects"`
	Count    int                 `json:"count"`
}

// ListProjects handles requests to list all projects
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {object} ProjectListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/projects [get]
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list projects: %v", err)
		sendDomainError(w, err)
		return
	}

	dtos := make([]models.ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = p.ToDTO()
	}

	sendJSON(w, http.StatusOK, ProjectListResponse{Projects: dtos, Count: len(dtos)})
}

// GetProject handles requests for a single project
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} models.ProjectDTO
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	project, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, project.ToDTO())
}

// DeleteProject handles project deletion with full cascade
// @Summary Delete project
// @Description Delete a project, its documents, chunks, and vectors
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	h.logger.Printf("Deleting project %s", projectID)

	if err := h.docService.DeleteProject(r.Context(), projectID); err != nil {
		h.logger.Printf("Failed to delete project %s: %v", projectID, err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"status": "deleted", "project_id": projectID})
}
