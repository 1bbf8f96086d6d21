package domain

import "time"

// BookSounds is the 1:1 sound-effect record created with every book.
// Values are URLs or builtin sound keys.
type BookSounds struct {
	BookID    string    `json:"bookId"`
	PageFlip  string    `json:"pageFlip"`
	BookOpen  string    `json:"bookOpen"`
	BookClose string    `json:"bookClose"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBookSounds returns the sounds row seeded at book creation.
func NewBookSounds(bookID string) *BookSounds {
	now := time.Now().UTC()
	return &BookSounds{
		BookID:    bookID,
		PageFlip:  "default",
		BookOpen:  "default",
		BookClose: "default",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BookDefaultSettings is the 1:1 record of reader defaults for a book.
// Volumes are in [0, 1].
type BookDefaultSettings struct {
	BookID       string    `json:"bookId"`
	Font         string    `json:"font"`
	FontSize     int       `json:"fontSize"`
	Theme        string    `json:"theme"`
	SoundEnabled bool      `json:"soundEnabled"`
	SoundVolume  float64   `json:"soundVolume"`
	AmbientType  string    `json:"ambientType"`
	AmbientVolume float64  `json:"ambientVolume"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewBookDefaultSettings returns the default-settings row seeded at book creation.
func NewBookDefaultSettings(bookID string) *BookDefaultSettings {
	now := time.Now().UTC()
	return &BookDefaultSettings{
		BookID:        bookID,
		Font:          "georgia",
		FontSize:      18,
		Theme:         "light",
		SoundEnabled:  true,
		SoundVolume:   0.5,
		AmbientType:   "none",
		AmbientVolume: 0.5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
