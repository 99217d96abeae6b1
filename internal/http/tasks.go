package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/folio/internal/tasks"
)

// TasksController handles book migration requests and task status.
type TasksController struct {
	queue    TaskQueue
	migrator BookMigrator
}

// NewTasksController creates a TasksController. At least one of queue and
// migrator must be set.
func NewTasksController(queue TaskQueue, migrator BookMigrator) *TasksController {
	return &TasksController{queue: queue, migrator: migrator}
}

// MigrateBook handles POST /api/books/:bookId/migrate?dry_run=true
// With a task queue the migration is enqueued and 202 returned; otherwise it
// runs inline and the report is returned.
func (tc *TasksController) MigrateBook(c *gin.Context) {
	bookID := c.Param("bookId")
	if bookID == "" {
		respondBadRequest(c, "bookId is required")
		return
	}
	dryRun := c.Query("dry_run") == "true"

	if tc.queue != nil {
		id, err := tc.queue.EnqueueMigration(bookID, dryRun)
		if err != nil {
			respondInternalError(c, err, "enqueue migration")
			return
		}
		respondAccepted(c, "migration enqueued", gin.H{
			"task_id": id,
			"book_id": bookID,
			"dry_run": dryRun,
		})
		return
	}

	if tc.migrator == nil {
		respondError(c, http.StatusServiceUnavailable, "migration is not available", "MIGRATION_UNAVAILABLE")
		return
	}

	report, err := tc.migrator.MigrateBook(c.Request.Context(), bookID, dryRun)
	if err != nil {
		respondEngineError(c, err, "migrate book")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}
	if tc.queue == nil {
		respondNotFound(c, "task")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}
