// Package settings implements the site settings endpoints.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/httpx"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

// Store is the persistence surface used by the settings handlers.
type Store interface {
	GetAllSettings(ctx context.Context) ([]models.Setting, error)
	UpdateSetting(ctx context.Context, name, value string) (*models.Setting, error)
}

type Handler struct {
	store Store
	audit audit.Recorder
}

func NewHandler(store Store, rec audit.Recorder) *Handler {
	return &Handler{store: store, audit: rec}
}

// Get returns all settings as {group: {name: value}}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetAllSettings(r.Context())
	if err != nil {
		log.Printf("list settings: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching settings")
		return
	}

	grouped := map[string]map[string]string{}
	for _, s := range settings {
		if grouped[s.Group] == nil {
			grouped[s.Group] = map[string]string{}
		}
		grouped[s.Group][s.Name] = s.Value
	}
	httpx.JSON(w, http.StatusOK, grouped)
}

// Update changes the values of existing settings. Names without a matching
// row are skipped, never created. Admin-only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Settings == nil {
		httpx.Error(w, http.StatusBadRequest, "settings object is required")
		return
	}

	results := []models.Setting{}
	for name, value := range req.Settings {
		updated, err := h.store.UpdateSetting(r.Context(), name, value)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("update setting %q: %v", name, err)
			httpx.Error(w, http.StatusInternalServerError, "error updating settings")
			return
		}
		results = append(results, *updated)
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "settings.update", "settings", 0)
	httpx.JSON(w, http.StatusOK, results)
}
