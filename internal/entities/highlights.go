package entities

import (
	"fmt"
	"strings"
	"time"
)

// HighlightStyle is the highlight colour or decoration. Stored as an integer.
type HighlightStyle int

const (
	HighlightStyleYellow HighlightStyle = iota
	HighlightStyleGreen
	HighlightStyleBlue
	HighlightStylePink
	HighlightStyleUnderline
)

var highlightStyleNames = map[HighlightStyle]string{
	HighlightStyleYellow:    "yellow",
	HighlightStyleGreen:     "green",
	HighlightStyleBlue:      "blue",
	HighlightStylePink:      "pink",
	HighlightStyleUnderline: "underline",
}

const styleClassPrefix = "highlight-"

// String returns the style name, e.g. "yellow".
func (s HighlightStyle) String() string {
	if name, ok := highlightStyleNames[s]; ok {
		return name
	}
	return highlightStyleNames[HighlightStyleYellow]
}

// Class returns the CSS class the script layer uses for the style. It is also
// the style field of a range descriptor entry.
func (s HighlightStyle) Class() string {
	return styleClassPrefix + s.String()
}

// Valid reports whether s is a known style.
func (s HighlightStyle) Valid() bool {
	_, ok := highlightStyleNames[s]
	return ok
}

// ParseHighlightStyle accepts a style name ("pink") or class ("highlight-pink").
func ParseHighlightStyle(value string) (HighlightStyle, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), styleClassPrefix)
	for style, n := range highlightStyleNames {
		if n == name {
			return style, nil
		}
	}
	return HighlightStyleYellow, fmt.Errorf("unknown highlight style %q", value)
}

// Highlight is a persisted annotation on one page of a book.
//
// A modern highlight carries Rangy, a single-entry range descriptor. A legacy
// highlight has no Rangy and is anchored by Content plus the surrounding
// ContextPrefix/ContextSuffix text; it gets migrated on page load.
type Highlight struct {
	ID       string `gorm:"primaryKey;size:512" json:"id"`
	BookID   string `gorm:"index:idx_highlights_book_page;size:256" json:"book_id"`
	Page     int    `gorm:"index:idx_highlights_book_page" json:"page"`
	FilePath string `gorm:"size:1024" json:"file_path,omitempty"`
	Content  string `gorm:"type:text" json:"content"`

	// Legacy anchors, only set on highlights that predate range descriptors.
	ContextPrefix string `gorm:"type:text" json:"context_prefix,omitempty"`
	ContextSuffix string `gorm:"type:text" json:"context_suffix,omitempty"`

	Rangy string         `gorm:"type:text" json:"rangy,omitempty"`
	Style HighlightStyle `gorm:"default:0" json:"style"`
	Note  string         `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Highlight) TableName() string {
	return "highlights"
}

// IsLegacy reports whether the highlight still needs migration to a range descriptor.
func (h Highlight) IsLegacy() bool {
	return strings.TrimSpace(h.Rangy) == ""
}

// FullPassage is the legacy anchor text: prefix, content and suffix joined.
func (h Highlight) FullPassage() string {
	return h.ContextPrefix + h.Content + h.ContextSuffix
}
