package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/sessions"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(sessions.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Sweep, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Page documents and page loads
	if cfg.Documents != nil {
		documentsController := NewDocumentsController(cfg.Documents)
		router.GET("/api/books/:bookId/pages", documentsController.ListPages)
		router.PUT("/api/books/:bookId/pages/:page/document", documentsController.PutDocument)

		if cfg.Engine != nil {
			pagesController := NewPagesController(cfg.Engine, cfg.Documents, cfg.SessionManager, cfg.AllowSharing, cfg.HostTimeout)
			router.GET("/api/books/:bookId/pages/:page/highlights", pagesController.LoadPage)
			router.POST("/api/books/:bookId/pages/:page/highlights", pagesController.CreateHighlight)
		}
	}

	// Highlight endpoints
	if cfg.Engine != nil {
		highlightsController := NewHighlightsController(cfg.Engine, cfg.SessionManager)
		router.GET("/api/highlights/:id", highlightsController.GetHighlight)
		router.PATCH("/api/highlights/:id/style", highlightsController.UpdateStyle)
		router.PATCH("/api/highlights/:id/note", highlightsController.UpdateNote)
		router.DELETE("/api/highlights/:id", highlightsController.DeleteHighlight)
	}

	// Reader preferences
	preferencesController := NewPreferencesController(cfg.SessionManager)
	router.GET("/api/reader/preferences", preferencesController.GetPreferences)
	router.PUT("/api/reader/preferences", preferencesController.UpdatePreferences)

	// Migration and task management endpoints
	if cfg.TaskQueue != nil || cfg.Migrator != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.Migrator)
		router.POST("/api/books/:bookId/migrate", tasksController.MigrateBook)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
