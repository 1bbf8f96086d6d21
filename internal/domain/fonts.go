package domain

import "time"

// DecorativeFont is the optional (0..1) display font attached to a book.
type DecorativeFont struct {
	BookID    string    `json:"bookId"`
	Name      string    `json:"name"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReadingFont is a per-user reading typeface. Builtin rows are seeded on
// account creation and can be toggled but not deleted.
type ReadingFont struct {
	Entity
	UserID   string `json:"userId"`
	FontKey  string `json:"fontKey"`
	Label    string `json:"label"`
	Family   string `json:"family"`
	Builtin  bool   `json:"builtin"`
	Enabled  bool   `json:"enabled"`
	FileURL  string `json:"fileUrl,omitempty"`
	Position int    `json:"position"`
}

// builtinFont describes a reading font seeded for every new user.
type builtinFont struct {
	key    string
	label  string
	family string
}

var builtinFonts = []builtinFont{
	{key: "georgia", label: "Georgia", family: "Georgia, serif"},
	{key: "literata", label: "Literata", family: "'Literata', serif"},
	{key: "bookerly", label: "Bookerly", family: "'Bookerly', serif"},
	{key: "system", label: "System", family: "system-ui, sans-serif"},
	{key: "mono", label: "Monospace", family: "ui-monospace, monospace"},
}

// SeedReadingFonts returns the builtin reading-font rows for a new user.
// IDs are assigned by the caller.
func SeedReadingFonts(userID string) []*ReadingFont {
	out := make([]*ReadingFont, 0, len(builtinFonts))
	for i, b := range builtinFonts {
		f := &ReadingFont{
			UserID:   userID,
			FontKey:  b.key,
			Label:    b.label,
			Family:   b.family,
			Builtin:  true,
			Enabled:  true,
			Position: i,
		}
		f.InitTimestamps()
		out = append(out, f)
	}
	return out
}
