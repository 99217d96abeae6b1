package highlights

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/rangy"
	"github.com/mrlokans/folio/internal/renderhost"
)

// Engine coordinates the store, the page registry and the render hosts.
type Engine struct {
	store Store
	pages *PageRegistry
}

func NewEngine(store Store, pages *PageRegistry) *Engine {
	if pages == nil {
		pages = NewPageRegistry()
	}
	return &Engine{store: store, pages: pages}
}

func (e *Engine) Pages() *PageRegistry {
	return e.pages
}

// PageLoad is the result of folding a page's stored highlights.
type PageLoad struct {
	Handle PageHandle `json:"-"`
	// Descriptor is the merged descriptor of the modern highlights, as sent to the host.
	Descriptor string `json:"descriptor"`
	// Applied is true when the host acknowledged the descriptor.
	Applied bool                 `json:"applied"`
	Modern  []entities.Highlight `json:"modern"`
	Legacy  []entities.Highlight `json:"legacy"`
}

// LoadPage reads the highlights of the displayed page, applies the modern
// ones to the host in a single call and returns the legacy ones for
// MigrateLegacy.
func (e *Engine) LoadPage(ctx context.Context, h PageHandle) (*PageLoad, error) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return nil, ErrStalePage
	}
	if page.BookID == "" {
		return nil, ErrMissingBookID
	}

	stored, err := e.store.AllByBook(page.BookID, rangy.ClampPage(page.Number))
	if err != nil {
		return nil, fmt.Errorf("failed to load highlights for %s page %d: %w", page.BookID, page.Number, err)
	}

	load := &PageLoad{Handle: h}
	descriptors := make([]string, 0, len(stored))
	for _, hl := range stored {
		if hl.IsLegacy() {
			load.Legacy = append(load.Legacy, hl)
			continue
		}
		load.Modern = append(load.Modern, hl)
		descriptors = append(descriptors, hl.Rangy)
	}

	load.Descriptor = rangy.MergeActive(descriptors)

	if d, err := rangy.Parse(load.Descriptor); err == nil && d.Active() {
		reply := renderhost.Call(ctx, page.Host, renderhost.SetHighlight(load.Descriptor))
		load.Applied = reply.OK && e.pages.IsCurrent(h)
	}

	if len(load.Legacy) > 0 {
		log.Printf("[HIGHLIGHTS] %s page %d: %d highlights, %d legacy pending migration",
			page.BookID, page.Number, len(stored), len(load.Legacy))
	}

	return load, nil
}

// ShowPage loads the page and migrates its legacy highlights in one go.
func (e *Engine) ShowPage(ctx context.Context, h PageHandle) (*PageLoad, []MigrationOutcome, error) {
	load, err := e.LoadPage(ctx, h)
	if err != nil {
		return nil, nil, err
	}
	if len(load.Legacy) == 0 {
		return load, nil, nil
	}
	return load, e.MigrateLegacy(ctx, h, load.Legacy), nil
}
