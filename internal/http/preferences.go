package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/reader"
	"github.com/mrlokans/folio/internal/sessions"
)

type PreferencesController struct {
	sessions *sessions.Manager
}

func NewPreferencesController(sm *sessions.Manager) *PreferencesController {
	return &PreferencesController{sessions: sm}
}

// PreferencesResponse is the reader state plus the choices a client can offer.
type PreferencesResponse struct {
	Preferences     entities.ReaderPreferences `json:"preferences"`
	HighlightStyle  string                     `json:"highlight_style"`
	FontFamilies    []string                   `json:"font_families"`
	HighlightStyles []string                   `json:"highlight_styles"`
}

// UpdatePreferencesRequest changes only the fields that are present.
type UpdatePreferencesRequest struct {
	FontFamily     *string `json:"font_family"`
	FontSize       *int    `json:"font_size"`
	NightMode      *bool   `json:"night_mode"`
	HighlightStyle *string `json:"highlight_style"`
}

// GetPreferences handles GET /api/reader/preferences
func (pc *PreferencesController) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, preferencesResponse(readerSession(pc.sessions, c)))
}

// UpdatePreferences handles PUT /api/reader/preferences
func (pc *PreferencesController) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	session := readerSession(pc.sessions, c)

	if req.FontFamily != nil {
		if err := session.SetFontFamily(*req.FontFamily); err != nil {
			respondEngineError(c, err, "update preferences")
			return
		}
	}
	if req.FontSize != nil {
		if err := session.SetFontSize(reader.FontSize(*req.FontSize)); err != nil {
			respondEngineError(c, err, "update preferences")
			return
		}
	}
	if req.NightMode != nil {
		session.SetNightMode(*req.NightMode)
	}
	if req.HighlightStyle != nil {
		style, err := entities.ParseHighlightStyle(*req.HighlightStyle)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if err := session.SetHighlightStyle(style); err != nil {
			respondEngineError(c, err, "update preferences")
			return
		}
	}

	if pc.sessions != nil {
		pc.sessions.SaveReaderSession(c.Request, session)
	}

	c.JSON(http.StatusOK, preferencesResponse(session))
}

func preferencesResponse(s *reader.Session) PreferencesResponse {
	styles := make([]string, 0, 5)
	for _, st := range []entities.HighlightStyle{
		entities.HighlightStyleYellow,
		entities.HighlightStyleGreen,
		entities.HighlightStyleBlue,
		entities.HighlightStylePink,
		entities.HighlightStyleUnderline,
	} {
		styles = append(styles, st.String())
	}

	return PreferencesResponse{
		Preferences:     s.Preferences(),
		HighlightStyle:  s.HighlightStyle().String(),
		FontFamilies:    reader.FontFamilies,
		HighlightStyles: styles,
	}
}
