package domain

// Visibility controls who can see a book.
type Visibility string

// Book visibility states.
const (
	VisibilityDraft     Visibility = "draft"
	VisibilityPublished Visibility = "published"
	VisibilityUnlisted  Visibility = "unlisted"
)

// IsValid reports whether v is a known visibility.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityDraft, VisibilityPublished, VisibilityUnlisted:
		return true
	}
	return false
}

// CoverBgMode selects how a book cover background is rendered.
type CoverBgMode string

// Cover background modes.
const (
	CoverBgDefault CoverBgMode = "default"
	CoverBgNone    CoverBgMode = "none"
	CoverBgCustom  CoverBgMode = "custom"
)

// IsValid reports whether m is a known cover background mode.
func (m CoverBgMode) IsValid() bool {
	switch m {
	case CoverBgDefault, CoverBgNone, CoverBgCustom:
		return true
	}
	return false
}

// Book is the root aggregate of the reader. Position is dense per user among
// live rows; reorder renumbers to 0..n-1.
type Book struct {
	Entity
	UserID           string      `json:"userId"`
	Title            string      `json:"title"`
	Author           string      `json:"author,omitempty"`
	Position         int         `json:"position"`
	Visibility       Visibility  `json:"visibility"`
	CoverBgMode      CoverBgMode `json:"coverBgMode"`
	CoverBgCustomURL string      `json:"coverBgCustomUrl,omitempty"`
}

// Chapter belongs to a Book. Exactly one of FilePath/HTMLContent is the
// source of truth for content; both may be empty for a fresh chapter.
type Chapter struct {
	Entity
	BookID      string `json:"bookId"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	FilePath    string `json:"filePath,omitempty"`
	HTMLContent string `json:"htmlContent,omitempty"`
	Bg          string `json:"bg,omitempty"`
	BgMobile    string `json:"bgMobile,omitempty"`
}

// HasInlineContent reports whether the chapter body is stored inline.
func (c *Chapter) HasInlineContent() bool {
	return c.HTMLContent != ""
}
