package domain

import "time"

// ReadingProgress is the per-user-per-book reader snapshot. The server keeps
// the last write by UpdatedAt; there is no merging.
type ReadingProgress struct {
	UserID        string    `json:"userId"`
	BookID        string    `json:"bookId"`
	Page          int       `json:"page"`
	Font          string    `json:"font"`
	FontSize      int       `json:"fontSize"`
	Theme         string    `json:"theme"`
	SoundEnabled  bool      `json:"soundEnabled"`
	SoundVolume   float64   `json:"soundVolume"`
	AmbientType   string    `json:"ambientType"`
	AmbientVolume float64   `json:"ambientVolume"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
