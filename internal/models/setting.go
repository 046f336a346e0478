package models

// Setting groups.
const (
	SettingGroupGeneral    = "general"
	SettingGroupEmail      = "email"
	SettingGroupAppearance = "appearance"
)

// Setting represents a row in the settings table. Name is unique; updates
// only ever change Value.
type Setting struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Group string `json:"group"`
}

// UpdateSettingsRequest is the JSON body for the admin POST /api/settings.
// Names without an existing Setting row are skipped, not created.
type UpdateSettingsRequest struct {
	Group    string            `json:"group"`
	Settings map[string]string `json:"settings" validate:"required"`
}
