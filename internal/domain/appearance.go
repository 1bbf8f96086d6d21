package domain

import "time"

// PageTexture selects the page background texture of a theme.
type PageTexture string

// Page texture modes.
const (
	PageTextureDefault PageTexture = "default"
	PageTextureNone    PageTexture = "none"
	PageTextureCustom  PageTexture = "custom"
)

// IsValid reports whether t is a known page texture mode.
func (t PageTexture) IsValid() bool {
	switch t {
	case PageTextureDefault, PageTextureNone, PageTextureCustom:
		return true
	}
	return false
}

// ThemeAppearance holds the per-theme (light/dark) colour and texture block.
type ThemeAppearance struct {
	CoverBgStart      string      `json:"coverBgStart"`
	CoverBgEnd        string      `json:"coverBgEnd"`
	CoverText         string      `json:"coverText"`
	CoverBgImageURL   string      `json:"coverBgImageUrl,omitempty"`
	PageTexture       PageTexture `json:"pageTexture"`
	CustomTextureURL  string      `json:"customTextureUrl,omitempty"`
	BgPage            string      `json:"bgPage"`
	BgApp             string      `json:"bgApp"`
}

// BookAppearance is the 1:1 appearance record created with every book.
// Font sizes are integers in [8, 72] with FontMin <= FontMax.
type BookAppearance struct {
	BookID    string          `json:"bookId"`
	FontMin   int             `json:"fontMin"`
	FontMax   int             `json:"fontMax"`
	Light     ThemeAppearance `json:"light"`
	Dark      ThemeAppearance `json:"dark"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DefaultThemeAppearance returns the seeded appearance block for a theme.
func DefaultThemeAppearance(dark bool) ThemeAppearance {
	if dark {
		return ThemeAppearance{
			CoverBgStart: "#2b2b33",
			CoverBgEnd:   "#17171c",
			CoverText:    "#f2f2f2",
			PageTexture:  PageTextureDefault,
			BgPage:       "#1e1e24",
			BgApp:        "#101014",
		}
	}
	return ThemeAppearance{
		CoverBgStart: "#e8e0d0",
		CoverBgEnd:   "#cdbfa5",
		CoverText:    "#2f2a21",
		PageTexture:  PageTextureDefault,
		BgPage:       "#faf6ec",
		BgApp:        "#efe9db",
	}
}

// NewBookAppearance returns the appearance row seeded at book creation.
func NewBookAppearance(bookID string) *BookAppearance {
	now := time.Now().UTC()
	return &BookAppearance{
		BookID:    bookID,
		FontMin:   14,
		FontMax:   28,
		Light:     DefaultThemeAppearance(false),
		Dark:      DefaultThemeAppearance(true),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
