package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/renderhost"
)

type DocumentsController struct {
	store DocumentStore
}

func NewDocumentsController(store DocumentStore) *DocumentsController {
	return &DocumentsController{store: store}
}

// PutDocumentRequest is the chapter a reader displayed for a page.
type PutDocumentRequest struct {
	Href string `json:"href"`
	HTML string `json:"html" binding:"required"`
}

// PutDocument stores the chapter HTML of a page
// PUT /api/books/:bookId/pages/:page/document
func (dc *DocumentsController) PutDocument(c *gin.Context) {
	bookID, page, ok := parsePageParams(c)
	if !ok {
		return
	}

	var req PutDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// Reject what the migration host could never load.
	host, err := renderhost.NewDocumentHost(req.HTML)
	if err != nil {
		respondBadRequest(c, "invalid document: "+err.Error())
		return
	}
	host.Close()

	doc := &entities.PageDocument{BookID: bookID, Page: page, Href: req.Href, HTML: req.HTML}
	if err := dc.store.Save(doc); err != nil {
		respondInternalError(c, err, "save page document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book_id": bookID,
		"page":    page,
		"href":    req.Href,
	})
}

// ListPages returns the pages of a book that have a stored document
// GET /api/books/:bookId/pages
func (dc *DocumentsController) ListPages(c *gin.Context) {
	bookID := c.Param("bookId")

	pages, err := dc.store.Pages(bookID)
	if err != nil {
		respondInternalError(c, err, "list page documents")
		return
	}
	if pages == nil {
		pages = []int{}
	}

	c.JSON(http.StatusOK, gin.H{
		"book_id": bookID,
		"pages":   pages,
	})
}
