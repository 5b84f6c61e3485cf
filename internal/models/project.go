package models

import (
	"time"
)

// Project groups documents and chat sessions into one retrieval scope.
// Every vector query is filtered by project ID.
type Project struct {
	ID          string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectDTO - API request/response view of a project
type ProjectDTO struct {
	ID          string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToDTO converts Project domain model to DTO
func (p *Project) ToDTO() ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// Validate checks if the project is valid
func (p *Project) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "project_id", Message: "project ID is required"}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}
