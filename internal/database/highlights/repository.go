// Package highlights provides database operations for reader highlights.
//
// Writes are retried while SQLite reports the database as busy or locked.
//
// # Usage
//
//	repo := highlights.NewRepository(db)
//	all, err := repo.AllByBook("moby", 3)
package highlights

import (
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/folio/internal/entities"
	engine "github.com/mrlokans/folio/internal/highlights"
)

const legacyCondition = "rangy IS NULL OR TRIM(rangy) = ''"

// Repository handles all highlight database operations.
type Repository struct {
	db       *gorm.DB
	attempts uint
	delay    time.Duration
}

// NewRepository creates a new highlights repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, attempts: 5, delay: 50 * time.Millisecond}
}

// AllByBook returns the highlights of one page, oldest first.
func (r *Repository) AllByBook(bookID string, page int) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("book_id = ? AND page = ?", bookID, page).
		Order("created_at ASC, rowid ASC").Find(&highlights).Error
	return highlights, err
}

// ListByBook returns every highlight of a book in page order.
func (r *Repository) ListByBook(bookID string) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("book_id = ?", bookID).
		Order("page ASC, created_at ASC, rowid ASC").Find(&highlights).Error
	return highlights, err
}

func (r *Repository) GetByID(id string) (*entities.Highlight, error) {
	var highlight entities.Highlight
	err := r.db.Where("id = ?", id).First(&highlight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", engine.ErrHighlightNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &highlight, nil
}

// Persist inserts the highlight or overwrites the one with the same id.
func (r *Repository) Persist(h *entities.Highlight) error {
	return r.write(func() error {
		return r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(h).Error
	})
}

func (r *Repository) UpdateRangy(id, rangy string) error {
	return r.updateColumn(id, "rangy", rangy)
}

func (r *Repository) UpdateStyle(id string, style entities.HighlightStyle) error {
	return r.updateColumn(id, "style", style)
}

func (r *Repository) UpdateNote(id, note string) error {
	return r.updateColumn(id, "note", note)
}

// RemoveByID deletes a highlight, failing when it does not exist.
func (r *Repository) RemoveByID(id string) error {
	return r.write(func() error {
		result := r.db.Where("id = ?", id).Delete(&entities.Highlight{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", engine.ErrHighlightNotFound, id)
		}
		return nil
	})
}

// ForceRemove deletes the record; a missing record is not an error.
func (r *Repository) ForceRemove(h *entities.Highlight) error {
	return r.write(func() error {
		return r.db.Where("id = ?", h.ID).Delete(&entities.Highlight{}).Error
	})
}

// LegacyBooks returns the ids of books that still have legacy highlights.
func (r *Repository) LegacyBooks() ([]string, error) {
	var ids []string
	err := r.db.Model(&entities.Highlight{}).
		Where(legacyCondition).
		Distinct("book_id").Order("book_id ASC").
		Pluck("book_id", &ids).Error
	return ids, err
}

// LegacyPages returns the pages of a book that still have legacy highlights.
func (r *Repository) LegacyPages(bookID string) ([]int, error) {
	var pages []int
	err := r.db.Model(&entities.Highlight{}).
		Where("book_id = ?", bookID).
		Where(legacyCondition).
		Distinct("page").Order("page ASC").
		Pluck("page", &pages).Error
	return pages, err
}

func (r *Repository) updateColumn(id, column string, value any) error {
	return r.write(func() error {
		result := r.db.Model(&entities.Highlight{}).Where("id = ?", id).Update(column, value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", engine.ErrHighlightNotFound, id)
		}
		return nil
	})
}

func (r *Repository) write(fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
