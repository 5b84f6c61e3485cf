package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"autorag/internal/models"
	"autorag/internal/repositories"
)

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendJSON writes a JSON response with the given status code
func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// sendError writes a JSON error response
func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, ErrorResponse{Error: message})
}

// statusFromError maps domain errors to HTTP status codes
func statusFromError(err error) int {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrIngestInFlight):
		return http.StatusConflict
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendDomainError writes a response with the status mapped from err
func sendDomainError(w http.ResponseWriter, err error) {
	sendError(w, statusFromError(err), err.Error())
}
