package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/folio/internal/highlights"
)

// BookMigrator runs the legacy highlight migration for one book.
type BookMigrator interface {
	MigrateBook(ctx context.Context, bookID string, dryRun bool) (*highlights.BookReport, error)
}

// MigrateBookTask migrates the legacy highlights of one book against its
// stored page documents.
type MigrateBookTask struct {
	BookID string `json:"book_id"`
	DryRun bool   `json:"dry_run,omitempty"`
}

func (t MigrateBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "migrate_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// MigrateBookProcessor creates a processor function for MigrateBookTask.
func MigrateBookProcessor(migrator BookMigrator) backlite.QueueProcessor[MigrateBookTask] {
	return func(ctx context.Context, task MigrateBookTask) error {
		if migrator == nil {
			return fmt.Errorf("book migrator not configured")
		}

		report, err := migrator.MigrateBook(ctx, task.BookID, task.DryRun)
		if err != nil {
			return fmt.Errorf("migrate book %s: %w", task.BookID, err)
		}

		log.Printf("[TASK] Migrated book %s: %d highlights migrated, %d without match across %d pages",
			task.BookID, report.Count(highlights.MigrationMigrated), report.Count(highlights.MigrationNoMatch), report.Pages)
		return nil
	}
}

// NewMigrateBookQueue creates a backlite queue for book migration tasks.
func NewMigrateBookQueue(migrator BookMigrator) backlite.Queue {
	return backlite.NewQueue(MigrateBookProcessor(migrator))
}
