package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/highlights"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller only uses the subset it needs.

// DocumentStore keeps the chapter HTML of book pages.
// Implemented by documents.Repository.
type DocumentStore interface {
	Save(doc *entities.PageDocument) error
	Get(bookID string, page int) (*entities.PageDocument, error)
	Pages(bookID string) ([]int, error)
}

// TaskQueue enqueues background migrations and reports their state.
// Implemented by tasks.Client.
type TaskQueue interface {
	EnqueueMigration(bookID string, dryRun bool) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// BookMigrator runs a book migration inline when no task queue is configured.
// Implemented by highlights.BookMigrator.
type BookMigrator interface {
	MigrateBook(ctx context.Context, bookID string, dryRun bool) (*highlights.BookReport, error)
}

// SweepStatus exposes the migration sweep scheduler to the health check.
// Implemented by scheduler.MigrationSweepScheduler.
type SweepStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}
