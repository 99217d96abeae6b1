// Package reader holds the per-reader appearance and highlighting state that
// pages and menus consult: font family, font size, night mode and the style
// used for new highlights.
//
// A Session is passed explicitly to whatever needs it. All mutation goes
// through its setters.
package reader

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mrlokans/folio/internal/entities"
)

// FontSize is the discrete font size step, 0 (smallest) to 4 (largest).
type FontSize int

const (
	FontSizeXS FontSize = iota
	FontSizeS
	FontSizeM
	FontSizeL
	FontSizeXL
)

// FontFamilies are the bundled reading fonts, in menu order.
var FontFamilies = []string{"Andada", "Lato", "Lora", "Raleway"}

const (
	DefaultFontFamily = "Andada"
	DefaultFontSize   = FontSizeM
)

var (
	ErrUnknownFontFamily = errors.New("unknown font family")
	ErrInvalidFontSize   = errors.New("font size out of range")
	ErrInvalidStyle      = errors.New("unknown highlight style")
)

// Session is the mutable reader state.
type Session struct {
	mu sync.RWMutex

	fontFamily     string
	fontSize       FontSize
	nightMode      bool
	highlightStyle entities.HighlightStyle
}

// NewSession returns a session with default appearance.
func NewSession() *Session {
	return &Session{
		fontFamily:     DefaultFontFamily,
		fontSize:       DefaultFontSize,
		highlightStyle: entities.HighlightStyleYellow,
	}
}

// FromPreferences builds a session from stored preferences, replacing any
// invalid value with its default.
func FromPreferences(p entities.ReaderPreferences) *Session {
	s := NewSession()
	if err := s.SetFontFamily(p.FontFamily); err != nil {
		log.Printf("[READER] Ignoring stored font family: %v", err)
	}
	if err := s.SetFontSize(FontSize(p.FontSize)); err != nil {
		log.Printf("[READER] Ignoring stored font size: %v", err)
	}
	s.SetNightMode(p.NightMode)
	if err := s.SetHighlightStyle(p.HighlightStyle); err != nil {
		log.Printf("[READER] Ignoring stored highlight style: %v", err)
	}
	return s
}

// Preferences returns a snapshot suitable for persistence.
func (s *Session) Preferences() entities.ReaderPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entities.ReaderPreferences{
		FontFamily:     s.fontFamily,
		FontSize:       int(s.fontSize),
		NightMode:      s.nightMode,
		HighlightStyle: s.highlightStyle,
	}
}

func (s *Session) FontFamily() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontFamily
}

func (s *Session) SetFontFamily(name string) error {
	for _, f := range FontFamilies {
		if f == name {
			s.mu.Lock()
			s.fontFamily = f
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFontFamily, name)
}

func (s *Session) FontSize() FontSize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontSize
}

func (s *Session) SetFontSize(size FontSize) error {
	if size < FontSizeXS || size > FontSizeXL {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, size)
	}
	s.mu.Lock()
	s.fontSize = size
	s.mu.Unlock()
	return nil
}

func (s *Session) NightMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nightMode
}

func (s *Session) SetNightMode(on bool) {
	s.mu.Lock()
	s.nightMode = on
	s.mu.Unlock()
}

// HighlightStyle is the style applied to newly created highlights.
func (s *Session) HighlightStyle() entities.HighlightStyle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlightStyle
}

func (s *Session) SetHighlightStyle(style entities.HighlightStyle) error {
	if !style.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStyle, style)
	}
	s.mu.Lock()
	s.highlightStyle = style
	s.mu.Unlock()
	return nil
}
