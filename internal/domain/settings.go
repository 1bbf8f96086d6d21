package domain

import "time"

// SettingsVisibility controls which reader controls a user exposes in the UI.
type SettingsVisibility struct {
	FontSize   bool `json:"fontSize"`
	Theme      bool `json:"theme"`
	Font       bool `json:"font"`
	Fullscreen bool `json:"fullscreen"`
	Sound      bool `json:"sound"`
	Ambient    bool `json:"ambient"`
}

// GlobalSettings is the 1:1 per-user preference record.
type GlobalSettings struct {
	UserID     string             `json:"userId"`
	FontMin    int                `json:"fontMin"`
	FontMax    int                `json:"fontMax"`
	Visibility SettingsVisibility `json:"settingsVisibility"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// NewGlobalSettings returns the settings row seeded at account creation.
func NewGlobalSettings(userID string) *GlobalSettings {
	now := time.Now().UTC()
	return &GlobalSettings{
		UserID:  userID,
		FontMin: 12,
		FontMax: 32,
		Visibility: SettingsVisibility{
			FontSize:   true,
			Theme:      true,
			Font:       true,
			Fullscreen: true,
			Sound:      true,
			Ambient:    true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
