package domain

// Ambient is an ambient soundtrack entry attached to a book. Builtin rows are
// seeded with the book and may be hidden but never deleted.
type Ambient struct {
	Entity
	BookID     string `json:"bookId"`
	AmbientKey string `json:"ambientKey"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel,omitempty"`
	Icon       string `json:"icon,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
	Visible    bool   `json:"visible"`
	Builtin    bool   `json:"builtin"`
	Position   int    `json:"position"`
}

// builtinAmbient describes a curated ambient seeded with every book.
type builtinAmbient struct {
	key        string
	label      string
	shortLabel string
	icon       string
}

var builtinAmbients = []builtinAmbient{
	{key: "rain", label: "Rain", shortLabel: "Rain", icon: "🌧"},
	{key: "fireplace", label: "Fireplace", shortLabel: "Fire", icon: "🔥"},
	{key: "forest", label: "Forest", shortLabel: "Forest", icon: "🌲"},
	{key: "waves", label: "Ocean Waves", shortLabel: "Waves", icon: "🌊"},
	{key: "cafe", label: "Café Murmur", shortLabel: "Café", icon: "☕"},
}

// SeedAmbients returns the curated ambient rows for a freshly created book.
// IDs are assigned by the caller.
func SeedAmbients(bookID string) []*Ambient {
	out := make([]*Ambient, 0, len(builtinAmbients))
	for i, b := range builtinAmbients {
		a := &Ambient{
			BookID:     bookID,
			AmbientKey: b.key,
			Label:      b.label,
			ShortLabel: b.shortLabel,
			Icon:       b.icon,
			Visible:    true,
			Builtin:    true,
			Position:   i,
		}
		a.InitTimestamps()
		out = append(out, a)
	}
	return out
}
