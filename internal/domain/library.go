package domain

// BookBundle is one book with all of its satellite data, as carried in
// library exports and imports.
type BookBundle struct {
	Book           *Book                `json:"book"`
	Chapters       []*Chapter           `json:"chapters"`
	Appearance     *BookAppearance      `json:"appearance,omitempty"`
	Sounds         *BookSounds          `json:"sounds,omitempty"`
	Defaults       *BookDefaultSettings `json:"defaultSettings,omitempty"`
	Ambients       []*Ambient           `json:"ambients,omitempty"`
	DecorativeFont *DecorativeFont      `json:"decorativeFont,omitempty"`
	Progress       *ReadingProgress     `json:"progress,omitempty"`
}

// Library is a user's complete exportable library tree.
type Library struct {
	Version      int             `json:"version"`
	Books        []*BookBundle   `json:"books"`
	ReadingFonts []*ReadingFont  `json:"readingFonts,omitempty"`
	Settings     *GlobalSettings `json:"settings,omitempty"`
}

// LibraryVersion is the current export format version.
const LibraryVersion = 1
