package highlights

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/rangy"
	"github.com/mrlokans/folio/internal/reader"
	"github.com/mrlokans/folio/internal/renderhost"
)

// CreateFromSelection highlights the host's current selection with the
// session's style and persists it under its stable identifier.
func (e *Engine) CreateFromSelection(ctx context.Context, h PageHandle, session *reader.Session, note string) (*entities.Highlight, error) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return nil, ErrStalePage
	}
	if page.BookID == "" {
		return nil, ErrMissingBookID
	}

	style := entities.HighlightStyleYellow
	if session != nil {
		style = session.HighlightStyle()
	}

	number := rangy.ClampPage(page.Number)
	reply := renderhost.Call(ctx, page.Host, renderhost.HighlightString(style.Class(), page.BookID, number))
	sel, ok := renderhost.DecodeSelection(reply)
	if !ok {
		return nil, ErrNoSelection
	}
	if !e.pages.IsCurrent(h) {
		return nil, ErrStalePage
	}

	hl, err := HighlightFromSelection(page.BookID, number, page.Href, sel, style, note)
	if err != nil {
		return nil, err
	}
	if err := e.store.Persist(hl); err != nil {
		return nil, fmt.Errorf("failed to save highlight %s: %w", hl.ID, err)
	}
	return hl, nil
}

// HighlightFromSelection turns the host's reply to a highlight request into a
// persistable highlight: the temporary id is replaced by the stable one in
// both the record and its descriptor.
func HighlightFromSelection(bookID string, page int, href string, sel renderhost.Selection, style entities.HighlightStyle, note string) (*entities.Highlight, error) {
	if bookID == "" {
		return nil, ErrMissingBookID
	}
	page = rangy.ClampPage(page)

	single, ok := rangy.Isolate(sel.Rangy, sel.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotInDescriptor, sel.ID)
	}
	d, err := rangy.Parse(single)
	if err != nil {
		return nil, err
	}
	id, err := rangy.BuildID(bookID, page, d)
	if err != nil {
		return nil, err
	}
	rewritten, err := rangy.RewriteID(single, sel.ID, id)
	if err != nil {
		return nil, err
	}
	rewritten, err = withStyleClass(rewritten, style)
	if err != nil {
		return nil, err
	}

	return &entities.Highlight{
		ID:       id,
		BookID:   bookID,
		Page:     page,
		FilePath: href,
		Content:  sel.Content,
		Rangy:    rewritten,
		Style:    style,
		Note:     note,
	}, nil
}

// ChangeStyle restyles the highlight the reader tapped and records the new
// style as the session default. It returns the updated highlight id.
func (e *Engine) ChangeStyle(ctx context.Context, h PageHandle, session *reader.Session, style entities.HighlightStyle) (string, error) {
	if !style.Valid() {
		return "", fmt.Errorf("%w: %d", reader.ErrInvalidStyle, style)
	}
	if session != nil {
		if err := session.SetHighlightStyle(style); err != nil {
			return "", err
		}
	}

	page, ok := e.pages.Lookup(h)
	if !ok {
		return "", ErrStalePage
	}

	updated := renderhost.Call(ctx, page.Host, renderhost.SetHighlightStyle(style.Class()))
	if !updated.OK || updated.Value == "" {
		return "", ErrNoActiveHighlight
	}
	batch := renderhost.Call(ctx, page.Host, renderhost.GetHighlights())
	if !batch.OK {
		return "", ErrNoActiveHighlight
	}
	if !e.pages.IsCurrent(h) {
		return "", ErrStalePage
	}

	if err := e.ApplyStyleChange(updated.Value, batch.Value, style); err != nil {
		return "", err
	}
	return updated.Value, nil
}

// ApplyStyleChange stores the descriptor of one highlight taken from the
// host's batch descriptor, together with its new style.
func (e *Engine) ApplyStyleChange(id, batch string, style entities.HighlightStyle) error {
	single, ok := rangy.Isolate(batch, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInDescriptor, id)
	}
	single, err := withStyleClass(single, style)
	if err != nil {
		return err
	}
	if err := e.store.UpdateRangy(id, single); err != nil {
		return err
	}
	return e.store.UpdateStyle(id, style)
}

// withStyleClass sets every entry's class to the one of style, so the stored
// descriptor renders the style the record carries.
func withStyleClass(serialized string, style entities.HighlightStyle) (string, error) {
	d, err := rangy.Parse(serialized)
	if err != nil {
		return "", err
	}
	for i := range d.Entries {
		d.Entries[i].StyleClass = style.Class()
	}
	return d.String(), nil
}

// RemoveCurrent removes the tapped highlight from the page and the store.
func (e *Engine) RemoveCurrent(ctx context.Context, h PageHandle) (string, error) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return "", ErrStalePage
	}
	reply := renderhost.Call(ctx, page.Host, renderhost.RemoveThisHighlight())
	if !reply.OK || reply.Value == "" {
		return "", ErrNoActiveHighlight
	}
	if err := e.store.RemoveByID(reply.Value); err != nil {
		return "", err
	}
	return reply.Value, nil
}

// CurrentHighlight returns the stored record of the tapped highlight.
func (e *Engine) CurrentHighlight(ctx context.Context, h PageHandle) (*entities.Highlight, error) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return nil, ErrStalePage
	}
	reply := renderhost.Call(ctx, page.Host, renderhost.CurrentHighlightID())
	if !reply.OK || reply.Value == "" {
		return nil, ErrNoActiveHighlight
	}
	return e.store.GetByID(reply.Value)
}

// Save persists a highlight built outside a live page, e.g. from a
// selection reported by a client.
func (e *Engine) Save(hl *entities.Highlight) error {
	if hl.BookID == "" {
		return ErrMissingBookID
	}
	if err := e.store.Persist(hl); err != nil {
		return fmt.Errorf("failed to save highlight %s: %w", hl.ID, err)
	}
	return nil
}

func (e *Engine) Highlight(id string) (*entities.Highlight, error) {
	return e.store.GetByID(id)
}

func (e *Engine) UpdateNote(id, note string) error {
	return e.store.UpdateNote(id, note)
}

func (e *Engine) SetStyle(id string, style entities.HighlightStyle) (*entities.Highlight, error) {
	if !style.Valid() {
		return nil, fmt.Errorf("%w: %d", reader.ErrInvalidStyle, style)
	}
	hl, err := e.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !hl.IsLegacy() {
		d, err := rangy.Parse(hl.Rangy)
		if err == nil && d.Active() {
			for i := range d.Entries {
				d.Entries[i].StyleClass = style.Class()
			}
			hl.Rangy = d.String()
			if err := e.store.UpdateRangy(id, hl.Rangy); err != nil {
				return nil, err
			}
		}
	}
	if err := e.store.UpdateStyle(id, style); err != nil {
		return nil, err
	}
	hl.Style = style
	return hl, nil
}

func (e *Engine) Remove(id string) error {
	return e.store.RemoveByID(id)
}

// SelectedText returns the host's current selection, if any.
func (e *Engine) SelectedText(ctx context.Context, h PageHandle) (string, bool) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return "", false
	}
	reply := renderhost.Call(ctx, page.Host, renderhost.GetSelectedText())
	if !reply.OK || reply.Value == "" {
		return "", false
	}
	return reply.Value, true
}

// IsOneWord reports whether the selection is a single word, which enables
// the dictionary action.
func (e *Engine) IsOneWord(ctx context.Context, h PageHandle) bool {
	text, ok := e.SelectedText(ctx, h)
	return ok && IsOneWord(text)
}

func IsOneWord(text string) bool {
	return text != "" && !strings.Contains(text, " ")
}

// HighlightContent returns the text of the tapped highlight for sharing.
func (e *Engine) HighlightContent(ctx context.Context, h PageHandle) (string, bool) {
	page, ok := e.pages.Lookup(h)
	if !ok {
		return "", false
	}
	reply := renderhost.Call(ctx, page.Host, renderhost.GetHighlightContent())
	return reply.Value, reply.OK
}
