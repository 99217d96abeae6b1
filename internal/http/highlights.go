package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/highlights"
	"github.com/mrlokans/folio/internal/sessions"
)

type HighlightsController struct {
	engine   *highlights.Engine
	sessions *sessions.Manager
}

func NewHighlightsController(engine *highlights.Engine, sm *sessions.Manager) *HighlightsController {
	return &HighlightsController{engine: engine, sessions: sm}
}

// GetHighlight returns one stored highlight
// GET /api/highlights/:id
func (hc *HighlightsController) GetHighlight(c *gin.Context) {
	hl, err := hc.engine.Highlight(c.Param("id"))
	if err != nil {
		respondEngineError(c, err, "get highlight")
		return
	}
	c.JSON(http.StatusOK, hl)
}

// UpdateStyleRequest restyles a highlight. Rangy, when present, is the
// page's descriptor after the host applied the new style; the highlight's
// own entry is taken from it.
type UpdateStyleRequest struct {
	Style string `json:"style" binding:"required"`
	Rangy string `json:"rangy"`
}

// UpdateStyle changes a highlight's style and makes it the reader's default
// PATCH /api/highlights/:id/style
func (hc *HighlightsController) UpdateStyle(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	style, err := entities.ParseHighlightStyle(req.Style)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var hl *entities.Highlight
	if req.Rangy != "" {
		if err = hc.engine.ApplyStyleChange(id, req.Rangy, style); err == nil {
			hl, err = hc.engine.Highlight(id)
		}
	} else {
		hl, err = hc.engine.SetStyle(id, style)
	}
	if err != nil {
		respondEngineError(c, err, "update highlight style")
		return
	}

	if hc.sessions != nil {
		session := hc.sessions.ReaderSession(c.Request)
		if err := session.SetHighlightStyle(style); err == nil {
			hc.sessions.SaveReaderSession(c.Request, session)
		}
	}

	c.JSON(http.StatusOK, hl)
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

// UpdateNote replaces the note of a highlight; an empty note clears it
// PATCH /api/highlights/:id/note
func (hc *HighlightsController) UpdateNote(c *gin.Context) {
	id := c.Param("id")

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := hc.engine.UpdateNote(id, req.Note); err != nil {
		respondEngineError(c, err, "update highlight note")
		return
	}

	hl, err := hc.engine.Highlight(id)
	if err != nil {
		respondEngineError(c, err, "get highlight")
		return
	}
	c.JSON(http.StatusOK, hl)
}

// DeleteHighlight removes a highlight
// DELETE /api/highlights/:id
func (hc *HighlightsController) DeleteHighlight(c *gin.Context) {
	if err := hc.engine.Remove(c.Param("id")); err != nil {
		respondEngineError(c, err, "delete highlight")
		return
	}
	respondSuccess(c, "Highlight deleted")
}
