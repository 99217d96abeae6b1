// Package documents stores the chapter HTML the reader displayed, keyed by
// book and page.
package documents

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/folio/internal/entities"
)

var ErrDocumentNotFound = errors.New("page document not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores the document, replacing any previous one for the same page.
func (r *Repository) Save(doc *entities.PageDocument) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "page"}},
		DoUpdates: clause.AssignmentColumns([]string{"href", "html", "updated_at"}),
	}).Create(doc).Error
}

func (r *Repository) Get(bookID string, page int) (*entities.PageDocument, error) {
	var doc entities.PageDocument
	err := r.db.Where("book_id = ? AND page = ?", bookID, page).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s page %d", ErrDocumentNotFound, bookID, page)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Pages lists the pages of a book that have a stored document.
func (r *Repository) Pages(bookID string) ([]int, error) {
	var pages []int
	err := r.db.Model(&entities.PageDocument{}).
		Where("book_id = ?", bookID).
		Order("page ASC").
		Pluck("page", &pages).Error
	return pages, err
}

func (r *Repository) Delete(bookID string, page int) error {
	return r.db.Where("book_id = ? AND page = ?", bookID, page).Delete(&entities.PageDocument{}).Error
}
