package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/folio/internal/database/documents"
	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/highlights"
	"github.com/mrlokans/folio/internal/rangy"
	"github.com/mrlokans/folio/internal/reader"
	"github.com/mrlokans/folio/internal/renderhost"
	"github.com/mrlokans/folio/internal/sessions"
)

const defaultHostTimeout = 5 * time.Second

// PagesController serves page loads and highlight creation for a page,
// resolving highlights against the page's stored chapter document.
type PagesController struct {
	engine       *highlights.Engine
	docs         DocumentStore
	sessions     *sessions.Manager
	allowSharing bool
	hostTimeout  time.Duration
}

func NewPagesController(engine *highlights.Engine, docs DocumentStore, sm *sessions.Manager, allowSharing bool, hostTimeout time.Duration) *PagesController {
	if hostTimeout <= 0 {
		hostTimeout = defaultHostTimeout
	}
	return &PagesController{
		engine:       engine,
		docs:         docs,
		sessions:     sm,
		allowSharing: allowSharing,
		hostTimeout:  hostTimeout,
	}
}

// PageResponse is what a reader applies after displaying a page.
type PageResponse struct {
	BookID string `json:"book_id"`
	Page   int    `json:"page"`
	Href   string `json:"href"`
	// Descriptor covers every range highlight of the page, migrated ones included.
	Descriptor string                           `json:"descriptor"`
	Highlights []entities.Highlight             `json:"highlights"`
	Pending    []entities.Highlight             `json:"pending"`
	Migrations []highlights.MigrationOutcome    `json:"migrations,omitempty"`
	Menus      map[string][]highlights.MenuItem `json:"menus"`
}

// LoadPage handles GET /api/books/:bookId/pages/:page/highlights?slot=
// The optional slot names the client's view; a newer load on the same slot
// turns replies for an older one into no-ops.
func (pc *PagesController) LoadPage(c *gin.Context) {
	bookID, page, ok := parsePageParams(c)
	if !ok {
		return
	}

	doc, err := pc.docs.Get(bookID, page)
	if err != nil {
		respondEngineError(c, err, "load page document")
		return
	}

	host, err := renderhost.NewDocumentHost(doc.HTML)
	if err != nil {
		respondInternalError(c, err, "load page document")
		return
	}
	defer host.Close()

	slot := c.Query("slot")
	if slot == "" {
		slot = "request:" + uuid.NewString()
	}
	handle := pc.engine.Pages().Show(slot, highlights.Page{BookID: bookID, Number: page, Href: doc.Href, Host: host})
	defer pc.engine.Pages().ReleaseHandle(handle)

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.hostTimeout)
	defer cancel()

	load, outcomes, err := pc.engine.ShowPage(ctx, handle)
	if err != nil {
		respondEngineError(c, err, "load page")
		return
	}

	c.JSON(http.StatusOK, pc.pageResponse(bookID, page, doc.Href, load, outcomes))
}

func (pc *PagesController) pageResponse(bookID string, page int, href string, load *highlights.PageLoad, outcomes []highlights.MigrationOutcome) PageResponse {
	resp := PageResponse{
		BookID:     bookID,
		Page:       page,
		Href:       href,
		Highlights: append([]entities.Highlight{}, load.Modern...),
		Pending:    []entities.Highlight{},
		Migrations: outcomes,
		Menus: map[string][]highlights.MenuItem{
			"selection": highlights.MenuFor(highlights.MenuForSelection, highlights.MenuOptions{AllowSharing: pc.allowSharing}),
			"highlight": highlights.MenuFor(highlights.MenuForHighlight, highlights.MenuOptions{AllowSharing: pc.allowSharing}),
			"colors":    highlights.MenuFor(highlights.MenuForColors, highlights.MenuOptions{}),
		},
	}

	migrated := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		if o.Status == highlights.MigrationMigrated && o.Highlight != nil {
			migrated[o.LegacyID] = true
			resp.Highlights = append(resp.Highlights, *o.Highlight)
		}
	}
	for _, l := range load.Legacy {
		if !migrated[l.ID] {
			resp.Pending = append(resp.Pending, l)
		}
	}

	descriptors := make([]string, 0, len(resp.Highlights))
	for _, hl := range resp.Highlights {
		descriptors = append(descriptors, hl.Rangy)
	}
	resp.Descriptor = rangy.MergeActive(descriptors)

	return resp
}

// CreateHighlightRequest is the host's reply to a highlight request, as
// reported by the reader.
type CreateHighlightRequest struct {
	Rangy   string `json:"rangy" binding:"required"`
	Content string `json:"content"`
	ID      string `json:"id" binding:"required"`
	Href    string `json:"href"`
	Note    string `json:"note"`
}

// CreateHighlight handles POST /api/books/:bookId/pages/:page/highlights
// The new highlight takes the reader session's current style.
func (pc *PagesController) CreateHighlight(c *gin.Context) {
	bookID, page, ok := parsePageParams(c)
	if !ok {
		return
	}

	var req CreateHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	href := req.Href
	if doc, err := pc.docs.Get(bookID, page); err == nil {
		href = doc.Href
	} else if !errors.Is(err, documents.ErrDocumentNotFound) {
		respondInternalError(c, err, "load page document")
		return
	}

	session := readerSession(pc.sessions, c)
	sel := renderhost.Selection{Rangy: req.Rangy, Content: req.Content, ID: req.ID}

	hl, err := highlights.HighlightFromSelection(bookID, page, href, sel, session.HighlightStyle(), req.Note)
	if err != nil {
		respondEngineError(c, err, "create highlight")
		return
	}
	if err := pc.engine.Save(hl); err != nil {
		respondEngineError(c, err, "create highlight")
		return
	}

	respondCreated(c, hl)
}

// readerSession returns the request's reader session, or defaults when
// sessions are not configured.
func readerSession(sm *sessions.Manager, c *gin.Context) *reader.Session {
	if sm == nil {
		return reader.NewSession()
	}
	return sm.ReaderSession(c.Request)
}
