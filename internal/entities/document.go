package entities

import "time"

// PageDocument is the chapter HTML a reader displayed for a book page. The
// server keeps it so highlights can be resolved without a live web view.
type PageDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    string    `gorm:"uniqueIndex:idx_page_documents_book_page;size:256" json:"book_id"`
	Page      int       `gorm:"uniqueIndex:idx_page_documents_book_page" json:"page"`
	Href      string    `gorm:"size:1024" json:"href"`
	HTML      string    `gorm:"type:text" json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PageDocument) TableName() string {
	return "page_documents"
}
