package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/chitra/internal/app"
)

// SettingsService reads and updates the tunable drawing settings.
type SettingsService interface {
	Settings() map[string]string
	UpdateSettings(values map[string]string) error
}

// SettingsHandler handles HTTP requests for /api/settings.
type SettingsHandler struct {
	service SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.service.Settings())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings. The body is a partial map of setting
// keys to string values; the response is the full effective set.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(values) == 0 {
		writeError(w, http.StatusBadRequest, "No settings given")
		return
	}

	if err := h.service.UpdateSettings(values); err != nil {
		if errors.Is(err, app.ErrInvalidSetting) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Settings())
}
