// Package highlights is the highlight identity and migration engine.
//
// On every page display the engine folds the stored highlights of the page
// into one range descriptor for the render host, and migrates legacy
// highlights (anchored by surrounding text) to range-based ones. It also owns
// the selection flows: creating a highlight from the current selection,
// restyling, annotating and removing highlights.
//
// # Collaborators
//
//   - Store: highlight persistence (internal/database/highlights)
//   - renderhost.Host: script evaluation against the displayed page
//   - PageRegistry: which page a view slot currently shows, so late replies
//     for recycled pages are dropped
//
// # Usage
//
//	engine := highlights.NewEngine(repo, highlights.NewPageRegistry())
//	handle := engine.Pages().Show("slot-0", highlights.Page{BookID: "moby", Number: 3, Href: "ch03.xhtml", Host: host})
//	load, err := engine.LoadPage(ctx, handle)
//	outcomes := engine.MigrateLegacy(ctx, handle, load.Legacy)
package highlights

import (
	"errors"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/rangy"
)

// Store is the persistence the engine needs. Every call is synchronous.
type Store interface {
	// AllByBook returns the highlights of one page in creation order.
	AllByBook(bookID string, page int) ([]entities.Highlight, error)
	GetByID(id string) (*entities.Highlight, error)
	// Persist creates or overwrites the highlight with the same id.
	Persist(h *entities.Highlight) error
	UpdateRangy(id, rangy string) error
	UpdateStyle(id string, style entities.HighlightStyle) error
	UpdateNote(id, note string) error
	RemoveByID(id string) error
	// ForceRemove deletes the given record; deleting an absent record is not an error.
	ForceRemove(h *entities.Highlight) error
}

var (
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrMissingBookID     = rangy.ErrMissingBookID
	ErrStalePage         = errors.New("page is no longer displayed")
	ErrNoSelection       = errors.New("no text selected")
	ErrNoActiveHighlight = errors.New("no highlight selected")
	ErrNotInDescriptor   = errors.New("highlight missing from page descriptor")
	ErrNothingToMatch    = errors.New("legacy highlight has no content")
)
