package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"autorag/internal/models"
	"autorag/internal/repositories"

	"github.com/gorilla/mux"
)

// PreferenceHandler handles HTTP requests for user preferences
type PreferenceHandler struct {
	preferences repositories.PreferenceRepository
	logger      *log.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferences repositories.PreferenceRepository, logger *log.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferences: preferences,
		logger:      logger,
	}
}

// GetPreference returns a preference record, defaults included
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Param id path string true "Preference ID"
// @Success 200 {object} models.UserPreference
// @Failure 500 {object} ErrorResponse
// @Router /api/preferences/{id} [get]
func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	prefID := mux.Vars(r)["id"]

	pref, err := h.preferences.Get(r.Context(), prefID)
	if err != nil {
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, pref)
}

// UpdatePreference applies a partial preference update
// @Summary Update preferences
// @Description Only fields present in the body are changed
// @Tags preferences
// @Accept json
// @Produce json
// @Param id path string true "Preference ID"
// @Param update body models.PreferenceUpdate true "Fields to change"
// @Success 200 {object} models.UserPreference
// @Failure 400 {object} ErrorResponse
// @Router /api/preferences/{id} [patch]
func (h *PreferenceHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	prefID := mux.Vars(r)["id"]

	var update models.PreferenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pref, err := h.preferences.Update(r.Context(), prefID, &update)
	if err != nil {
		h.logger.Printf("Failed to update preference %s: %v", prefID, err)
		sendDomainError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, pref)
}
