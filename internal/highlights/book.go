package highlights

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/renderhost"
)

// DocumentSource supplies the stored chapter HTML of a page.
type DocumentSource interface {
	Get(bookID string, page int) (*entities.PageDocument, error)
}

// LegacyIndex finds where legacy highlights remain.
type LegacyIndex interface {
	LegacyBooks() ([]string, error)
	LegacyPages(bookID string) ([]int, error)
}

// BookReport summarises a migration run over one book.
type BookReport struct {
	BookID       string             `json:"book_id"`
	DryRun       bool               `json:"dry_run"`
	Pages        int                `json:"pages"`
	SkippedPages []int              `json:"skipped_pages,omitempty"`
	Outcomes     []MigrationOutcome `json:"outcomes"`
}

// Count returns how many outcomes have the given status.
func (r *BookReport) Count(status MigrationStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// BookMigrator migrates legacy highlights without a reader on the page, by
// running the engine against stored chapter documents.
type BookMigrator struct {
	engine *Engine
	docs   DocumentSource
	index  LegacyIndex
}

func NewBookMigrator(engine *Engine, docs DocumentSource, index LegacyIndex) *BookMigrator {
	return &BookMigrator{engine: engine, docs: docs, index: index}
}

// MigrateBook migrates every page of the book that still has legacy
// highlights. Pages without a stored document are skipped.
func (m *BookMigrator) MigrateBook(ctx context.Context, bookID string, dryRun bool) (*BookReport, error) {
	if bookID == "" {
		return nil, ErrMissingBookID
	}

	pages, err := m.index.LegacyPages(bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy pages of %s: %w", bookID, err)
	}

	report := &BookReport{BookID: bookID, DryRun: dryRun}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcomes, err := m.migratePage(ctx, bookID, page, dryRun)
		if err != nil {
			log.Printf("[MIGRATE] Skipping %s page %d: %v", bookID, page, err)
			report.SkippedPages = append(report.SkippedPages, page)
			continue
		}
		report.Pages++
		report.Outcomes = append(report.Outcomes, outcomes...)
	}

	log.Printf("[MIGRATE] Book %s: %d pages, %d migrated, %d planned, %d without match, %d skipped pages",
		bookID, report.Pages, report.Count(MigrationMigrated), report.Count(MigrationPlanned),
		report.Count(MigrationNoMatch), len(report.SkippedPages))

	return report, nil
}

// MigrateAll runs MigrateBook for every book with legacy highlights.
func (m *BookMigrator) MigrateAll(ctx context.Context, dryRun bool) ([]*BookReport, error) {
	books, err := m.index.LegacyBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to list books with legacy highlights: %w", err)
	}

	var reports []*BookReport
	var errs []error
	for _, bookID := range books {
		report, err := m.MigrateBook(ctx, bookID, dryRun)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bookID, err))
		}
		if report != nil {
			reports = append(reports, report)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return reports, errors.Join(errs...)
}

// LegacyBooks lists the books a sweep would visit.
func (m *BookMigrator) LegacyBooks() ([]string, error) {
	return m.index.LegacyBooks()
}

func (m *BookMigrator) migratePage(ctx context.Context, bookID string, page int, dryRun bool) ([]MigrationOutcome, error) {
	doc, err := m.docs.Get(bookID, page)
	if err != nil {
		return nil, err
	}
	host, err := renderhost.NewDocumentHost(doc.HTML)
	if err != nil {
		return nil, err
	}
	defer host.Close()

	slot := fmt.Sprintf("migrate:%s:%d", bookID, page)
	handle := m.engine.Pages().Show(slot, Page{BookID: bookID, Number: page, Href: doc.Href, Host: host})
	defer m.engine.Pages().Release(slot)

	load, err := m.engine.LoadPage(ctx, handle)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return m.engine.PlanMigration(ctx, handle, load.Legacy), nil
	}
	return m.engine.MigrateLegacy(ctx, handle, load.Legacy), nil
}
