package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/database/documents"
	"github.com/mrlokans/folio/internal/highlights"
	"github.com/mrlokans/folio/internal/rangy"
	"github.com/mrlokans/folio/internal/reader"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code and code.
func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondEngineError maps engine and store errors to a status code.
func respondEngineError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, highlights.ErrHighlightNotFound):
		respondNotFound(c, "highlight")
	case errors.Is(err, documents.ErrDocumentNotFound):
		respondNotFound(c, "page document")
	case errors.Is(err, highlights.ErrStalePage):
		respondError(c, http.StatusConflict, err.Error(), "STALE_PAGE")
	case errors.Is(err, highlights.ErrMissingBookID),
		errors.Is(err, highlights.ErrNotInDescriptor),
		errors.Is(err, highlights.ErrNoSelection),
		errors.Is(err, rangy.ErrMalformedDescriptor),
		errors.Is(err, rangy.ErrEmptyDescriptor),
		errors.Is(err, rangy.ErrEntryNotFound),
		errors.Is(err, reader.ErrInvalidStyle),
		errors.Is(err, reader.ErrInvalidFontSize),
		errors.Is(err, reader.ErrUnknownFontFamily):
		respondError(c, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parsePageParams extracts the book id and page number from the URL.
// Returns false after responding with a 400 error when either is invalid.
func parsePageParams(c *gin.Context) (string, int, bool) {
	bookID := c.Param("bookId")
	if bookID == "" {
		respondBadRequest(c, "bookId is required")
		return "", 0, false
	}
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		respondBadRequest(c, "invalid page")
		return "", 0, false
	}
	return bookID, rangy.ClampPage(page), true
}
