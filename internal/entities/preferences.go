package entities

// ReaderPreferences is the serializable state of a reader session.
type ReaderPreferences struct {
	FontFamily     string         `json:"font_family"`
	FontSize       int            `json:"font_size"`
	NightMode      bool           `json:"night_mode"`
	HighlightStyle HighlightStyle `json:"highlight_style"`
}
