package highlights

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/folio/internal/entities"
	"github.com/mrlokans/folio/internal/reader"
	"github.com/mrlokans/folio/internal/renderhost"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]entities.Highlight
	order   []string

	persistErr error
	removeErr  error
	loadErr    error
}

func newMemoryStore(seed ...entities.Highlight) *memoryStore {
	s := &memoryStore{records: make(map[string]entities.Highlight)}
	for i := range seed {
		_ = s.Persist(&seed[i])
	}
	return s
}

func (s *memoryStore) AllByBook(bookID string, page int) ([]entities.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	var out []entities.Highlight
	for _, id := range s.order {
		h, ok := s.records[id]
		if ok && h.BookID == bookID && h.Page == page {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *memoryStore) GetByID(id string) (*entities.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.records[id]
	if !ok {
		return nil, ErrHighlightNotFound
	}
	return &h, nil
}

func (s *memoryStore) Persist(h *entities.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistErr != nil {
		return s.persistErr
	}
	if _, ok := s.records[h.ID]; !ok {
		s.order = append(s.order, h.ID)
	}
	s.records[h.ID] = *h
	return nil
}

func (s *memoryStore) update(id string, fn func(*entities.Highlight)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.records[id]
	if !ok {
		return ErrHighlightNotFound
	}
	fn(&h)
	s.records[id] = h
	return nil
}

func (s *memoryStore) UpdateRangy(id, r string) error {
	return s.update(id, func(h *entities.Highlight) { h.Rangy = r })
}

func (s *memoryStore) UpdateStyle(id string, style entities.HighlightStyle) error {
	return s.update(id, func(h *entities.Highlight) { h.Style = style })
}

func (s *memoryStore) UpdateNote(id, note string) error {
	return s.update(id, func(h *entities.Highlight) { h.Note = note })
}

func (s *memoryStore) RemoveByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrHighlightNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memoryStore) ForceRemove(h *entities.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.records, h.ID)
	return nil
}

func (s *memoryStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

// recordingHost answers scripts from a function and keeps every script it saw.
type recordingHost struct {
	mu      sync.Mutex
	scripts []renderhost.Script
	reply   func(renderhost.Script) renderhost.Reply
}

func (h *recordingHost) Evaluate(ctx context.Context, s renderhost.Script) <-chan renderhost.Reply {
	return renderhost.HostFunc(func(context.Context, renderhost.Script) renderhost.Reply {
		h.mu.Lock()
		h.scripts = append(h.scripts, s)
		h.mu.Unlock()
		if h.reply == nil {
			return renderhost.Absent()
		}
		return h.reply(s)
	}).Evaluate(ctx, s)
}

func (h *recordingHost) calls(fn string) []renderhost.Script {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []renderhost.Script
	for _, s := range h.scripts {
		if s.Func == fn {
			out = append(out, s)
		}
	}
	return out
}

const chapter = `<html><body><p id="intro">Call me Ishmael.</p><p id="whale">There was a great <em>whale</em> swam by the ship.</p></body></html>`

func legacyWhale() entities.Highlight {
	return entities.Highlight{
		ID:            "legacy-1",
		BookID:        "moby",
		Page:          3,
		FilePath:      "old/ch03.html",
		Content:       "<b>whale</b>",
		ContextPrefix: "a great ",
		ContextSuffix: " swam by",
		Style:         entities.HighlightStyleYellow,
		Note:          "big fish",
	}
}

func showPage(e *Engine, host renderhost.Host) PageHandle {
	return e.Pages().Show("slot-0", Page{BookID: "moby", Number: 3, Href: "ch03.xhtml", Host: host})
}

func TestBuildReplacement(t *testing.T) {
	hl, err := BuildReplacement("moby", 3, "ch03.xhtml", legacyWhale(), renderhost.Match{Start: 12, End: 17})
	require.NoError(t, err)

	assert.Equal(t, "moby_3_12_17", hl.ID)
	assert.Equal(t, "type:textContent|12$17$moby_3_12_17$highlight-yellow$", hl.Rangy)
	assert.Equal(t, "moby", hl.BookID)
	assert.Equal(t, 3, hl.Page)
	assert.Equal(t, "ch03.xhtml", hl.FilePath)
	assert.Equal(t, "whale", hl.Content)
	assert.Equal(t, "big fish", hl.Note)
	assert.False(t, hl.IsLegacy())

	t.Run("negative page is clamped", func(t *testing.T) {
		hl, err := BuildReplacement("moby", -1, "", legacyWhale(), renderhost.Match{Start: 0, End: 5})
		require.NoError(t, err)
		assert.Equal(t, "moby_0_0_5", hl.ID)
		assert.Equal(t, "old/ch03.html", hl.FilePath)
	})

	t.Run("missing book id", func(t *testing.T) {
		_, err := BuildReplacement("", 3, "", legacyWhale(), renderhost.Match{Start: 0, End: 5})
		assert.ErrorIs(t, err, ErrMissingBookID)
	})
}

func TestEngine_LoadPage(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(
		entities.Highlight{ID: "moby_3_0_4", BookID: "moby", Page: 3, Rangy: "type:textContent|0$4$moby_3_0_4$highlight-yellow$"},
		legacyWhale(),
		entities.Highlight{ID: "moby_3_8_15", BookID: "moby", Page: 3, Rangy: "type:textContent|8$15$moby_3_8_15$highlight-blue$"},
		entities.Highlight{ID: "moby_4_0_4", BookID: "moby", Page: 4, Rangy: "type:textContent|0$4$moby_4_0_4$highlight-blue$"},
	)
	host, err := renderhost.NewDocumentHost(chapter)
	require.NoError(t, err)

	e := NewEngine(store, nil)
	load, err := e.LoadPage(ctx, showPage(e, host))
	require.NoError(t, err)

	want := "type:textContent|0$4$moby_3_0_4$highlight-yellow$|8$15$moby_3_8_15$highlight-blue$"
	assert.Equal(t, want, load.Descriptor)
	assert.True(t, load.Applied)
	assert.Equal(t, want, host.Applied().String())
	assert.Len(t, load.Modern, 2)
	require.Len(t, load.Legacy, 1)
	assert.Equal(t, "legacy-1", load.Legacy[0].ID)
}

func TestEngine_LoadPage_SingleApplyCall(t *testing.T) {
	store := newMemoryStore(
		entities.Highlight{ID: "a", BookID: "moby", Page: 3, Rangy: "type:textContent|0$1$a$highlight-yellow$"},
		entities.Highlight{ID: "b", BookID: "moby", Page: 3, Rangy: "type:textContent|2$3$b$highlight-yellow$"},
	)
	host := &recordingHost{reply: func(renderhost.Script) renderhost.Reply { return renderhost.Value("") }}
	e := NewEngine(store, nil)

	_, err := e.LoadPage(context.Background(), showPage(e, host))
	require.NoError(t, err)
	assert.Len(t, host.calls(renderhost.FuncSetHighlight), 1)
}

func TestEngine_LoadPage_NothingToApply(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(newMemoryStore(legacyWhale()), nil)

	load, err := e.LoadPage(context.Background(), showPage(e, host))
	require.NoError(t, err)
	assert.Equal(t, "type:textContent", load.Descriptor)
	assert.False(t, load.Applied)
	assert.Empty(t, host.calls(renderhost.FuncSetHighlight))
}

func TestEngine_LoadPage_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing book id", func(t *testing.T) {
		e := NewEngine(newMemoryStore(), nil)
		h := e.Pages().Show("slot-0", Page{Number: 1})
		_, err := e.LoadPage(ctx, h)
		assert.ErrorIs(t, err, ErrMissingBookID)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemoryStore()
		store.loadErr = errors.New("disk on fire")
		e := NewEngine(store, nil)
		_, err := e.LoadPage(ctx, showPage(e, &recordingHost{}))
		assert.ErrorContains(t, err, "disk on fire")
	})

	t.Run("stale handle", func(t *testing.T) {
		e := NewEngine(newMemoryStore(), nil)
		h := showPage(e, &recordingHost{})
		e.Pages().Release("slot-0")
		_, err := e.LoadPage(ctx, h)
		assert.ErrorIs(t, err, ErrStalePage)
	})
}

func TestEngine_MigrateLegacy(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(legacyWhale())
	host := &recordingHost{reply: func(s renderhost.Script) renderhost.Reply {
		if s.Func == renderhost.FuncMigrateStringToRange {
			return renderhost.Value(`{"start":12,"end":17}`)
		}
		return renderhost.Value("")
	}}
	e := NewEngine(store, nil)

	load, outcomes, err := e.ShowPage(ctx, showPage(e, host))
	require.NoError(t, err)
	require.Len(t, load.Legacy, 1)
	require.Len(t, outcomes, 1)

	assert.Equal(t, MigrationMigrated, outcomes[0].Status)
	assert.Equal(t, "legacy-1", outcomes[0].LegacyID)
	assert.Equal(t, "moby_3_12_17", outcomes[0].NewID)

	calls := host.calls(renderhost.FuncMigrateStringToRange)
	require.Len(t, calls, 1)
	assert.Equal(t, "a great whale swam by", calls[0].StringArg(0))
	assert.Equal(t, "whale", calls[0].StringArg(1))

	assert.False(t, store.has("legacy-1"))
	migrated, err := store.GetByID("moby_3_12_17")
	require.NoError(t, err)
	assert.Equal(t, "type:textContent|12$17$moby_3_12_17$highlight-yellow$", migrated.Rangy)
	assert.Equal(t, "ch03.xhtml", migrated.FilePath)
}

func TestEngine_MigrateLegacy_Idempotent(t *testing.T) {
	ctx := context.Background()
	host := &recordingHost{reply: func(renderhost.Script) renderhost.Reply {
		return renderhost.Value(`{"start":12,"end":17}`)
	}}
	store := newMemoryStore()
	e := NewEngine(store, nil)
	h := showPage(e, host)

	first := e.MigrateLegacy(ctx, h, []entities.Highlight{legacyWhale()})
	second := e.MigrateLegacy(ctx, h, []entities.Highlight{legacyWhale()})

	assert.Equal(t, first[0].NewID, second[0].NewID)
	all, err := store.AllByBook("moby", 3)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "moby_3_12_17", all[0].ID)
}

func TestEngine_MigrateLegacy_PersistFailureKeepsLegacy(t *testing.T) {
	store := newMemoryStore(legacyWhale())
	store.persistErr = errors.New("read-only")
	host := &recordingHost{reply: func(renderhost.Script) renderhost.Reply {
		return renderhost.Value(`{"start":12,"end":17}`)
	}}
	e := NewEngine(store, nil)

	outcomes := e.MigrateLegacy(context.Background(), showPage(e, host), []entities.Highlight{legacyWhale()})

	assert.Equal(t, MigrationFailed, outcomes[0].Status)
	assert.Error(t, outcomes[0].Err)
	assert.True(t, store.has("legacy-1"))
	assert.False(t, store.has("moby_3_12_17"))
}

func TestEngine_MigrateLegacy_RemoveFailureStillMigrates(t *testing.T) {
	store := newMemoryStore(legacyWhale())
	store.removeErr = errors.New("locked")
	host := &recordingHost{reply: func(renderhost.Script) renderhost.Reply {
		return renderhost.Value(`{"start":12,"end":17}`)
	}}
	e := NewEngine(store, nil)

	outcomes := e.MigrateLegacy(context.Background(), showPage(e, host), []entities.Highlight{legacyWhale()})

	assert.Equal(t, MigrationMigrated, outcomes[0].Status)
	assert.True(t, store.has("legacy-1"))
	assert.True(t, store.has("moby_3_12_17"))
}

func TestEngine_MigrateLegacy_NoMatch(t *testing.T) {
	store := newMemoryStore(legacyWhale())
	e := NewEngine(store, nil)

	outcomes := e.MigrateLegacy(context.Background(), showPage(e, &recordingHost{}), []entities.Highlight{legacyWhale()})

	assert.Equal(t, MigrationNoMatch, outcomes[0].Status)
	assert.True(t, store.has("legacy-1"))
}

func TestEngine_MigrateLegacy_EmptyContent(t *testing.T) {
	host := &recordingHost{}
	e := NewEngine(newMemoryStore(), nil)
	legacy := legacyWhale()
	legacy.Content = "<br/>"

	outcomes := e.MigrateLegacy(context.Background(), showPage(e, host), []entities.Highlight{legacy})

	assert.Equal(t, MigrationFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, ErrNothingToMatch)
	assert.Empty(t, host.calls(renderhost.FuncMigrateStringToRange))
}

func TestEngine_MigrateLegacy_StaleReplyIsDropped(t *testing.T) {
	store := newMemoryStore(legacyWhale())
	e := NewEngine(store, nil)

	host := &recordingHost{}
	host.reply = func(renderhost.Script) renderhost.Reply {
		// the slot is recycled for another chapter before the reply is handled
		e.Pages().Show("slot-0", Page{BookID: "moby", Number: 4, Href: "ch04.xhtml", Host: host})
		return renderhost.Value(`{"start":12,"end":17}`)
	}
	h := showPage(e, host)

	outcomes := e.MigrateLegacy(context.Background(), h, []entities.Highlight{legacyWhale()})

	assert.Equal(t, MigrationStale, outcomes[0].Status)
	assert.True(t, store.has("legacy-1"))
	assert.False(t, store.has("moby_3_12_17"))
	assert.False(t, store.has("moby_4_12_17"))
}

func TestEngine_MigrateLegacy_BatchKeepsOrder(t *testing.T) {
	second := legacyWhale()
	second.ID = "legacy-2"
	second.Content = "kraken"

	host := &recordingHost{reply: func(s renderhost.Script) renderhost.Reply {
		if s.StringArg(1) == "whale" {
			return renderhost.Value(`{"start":12,"end":17}`)
		}
		return renderhost.Absent()
	}}
	e := NewEngine(newMemoryStore(legacyWhale(), second), nil)

	outcomes := e.MigrateLegacy(context.Background(), showPage(e, host), []entities.Highlight{legacyWhale(), second})

	require.Len(t, outcomes, 2)
	assert.Equal(t, MigrationMigrated, outcomes[0].Status)
	assert.Equal(t, "legacy-2", outcomes[1].LegacyID)
	assert.Equal(t, MigrationNoMatch, outcomes[1].Status)
}

func TestEngine_DocumentHostRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(legacyWhale())
	host, err := renderhost.NewDocumentHost(chapter)
	require.NoError(t, err)
	e := NewEngine(store, nil)
	h := showPage(e, host)

	_, outcomes, err := e.ShowPage(ctx, h)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "moby_3_34_39", outcomes[0].NewID)

	// the same page displayed again: migrated highlight is applied, nothing left to migrate
	load, outcomes, err := e.ShowPage(ctx, showPage(e, host))
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, "type:textContent|34$39$moby_3_34_39$highlight-yellow$", load.Descriptor)
	assert.Equal(t, load.Descriptor, host.Applied().String())
}

func TestEngine_CreateFromSelection(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	host, err := renderhost.NewDocumentHost(chapter)
	require.NoError(t, err)
	e := NewEngine(store, nil)
	h := e.Pages().Show("slot-0", Page{BookID: "moby", Number: 0, Href: "ch01.xhtml", Host: host})

	session := reader.NewSession()
	require.NoError(t, session.SetHighlightStyle(entities.HighlightStylePink))

	t.Run("nothing selected", func(t *testing.T) {
		_, err := e.CreateFromSelection(ctx, h, session, "")
		assert.ErrorIs(t, err, ErrNoSelection)
	})

	require.True(t, host.SelectText("Ishmael"))
	hl, err := e.CreateFromSelection(ctx, h, session, "narrator")
	require.NoError(t, err)

	assert.Equal(t, "moby_0_8_15", hl.ID)
	assert.Equal(t, "type:textContent|8$15$moby_0_8_15$highlight-pink$", hl.Rangy)
	assert.Equal(t, "Ishmael", hl.Content)
	assert.Equal(t, "ch01.xhtml", hl.FilePath)
	assert.Equal(t, "narrator", hl.Note)
	assert.Equal(t, entities.HighlightStylePink, hl.Style)
	assert.True(t, store.has("moby_0_8_15"))
}

func TestEngine_CreateFromSelection_MissingBookID(t *testing.T) {
	host, err := renderhost.NewDocumentHost(chapter)
	require.NoError(t, err)
	require.True(t, host.SelectText("Ishmael"))
	e := NewEngine(newMemoryStore(), nil)
	h := e.Pages().Show("slot-0", Page{Number: 0, Host: host})

	_, err = e.CreateFromSelection(context.Background(), h, nil, "")
	assert.ErrorIs(t, err, ErrMissingBookID)
}

func TestHighlightFromSelection(t *testing.T) {
	sel := renderhost.Selection{
		Rangy:   "type:textContent|1$3$h1$highlight-yellow$|12$17$tmp$highlight-green$",
		Content: "whale",
		ID:      "tmp",
	}

	hl, err := HighlightFromSelection("moby", 3, "ch03.xhtml", sel, entities.HighlightStyleGreen, "")
	require.NoError(t, err)
	assert.Equal(t, "moby_3_12_17", hl.ID)
	assert.Equal(t, "type:textContent|12$17$moby_3_12_17$highlight-green$", hl.Rangy)

	sel.ID = "missing"
	_, err = HighlightFromSelection("moby", 3, "", sel, entities.HighlightStyleGreen, "")
	assert.ErrorIs(t, err, ErrNotInDescriptor)
}

func TestHighlightFromSelection_StyleClassFollowsStyle(t *testing.T) {
	sel := renderhost.Selection{
		Rangy:   "type:textContent|5$10$tmp$highlight-yellow$",
		Content: "great",
		ID:      "tmp",
	}

	hl, err := HighlightFromSelection("moby", 3, "", sel, entities.HighlightStylePink, "")
	require.NoError(t, err)
	assert.Equal(t, entities.HighlightStylePink, hl.Style)
	assert.Equal(t, "type:textContent|5$10$moby_3_5_10$highlight-pink$", hl.Rangy)
}

func TestEngine_ApplyStyleChange_StyleClassFollowsStyle(t *testing.T) {
	store := newMemoryStore(entities.Highlight{ID: "moby_3_5_10", BookID: "moby", Page: 3,
		Rangy: "type:textContent|5$10$moby_3_5_10$highlight-pink$", Style: entities.HighlightStylePink})
	e := NewEngine(store, nil)

	err := e.ApplyStyleChange("moby_3_5_10", "type:textContent|5$10$moby_3_5_10$highlight-yellow$", entities.HighlightStyleBlue)
	require.NoError(t, err)

	stored, err := store.GetByID("moby_3_5_10")
	require.NoError(t, err)
	assert.Equal(t, entities.HighlightStyleBlue, stored.Style)
	assert.Equal(t, "type:textContent|5$10$moby_3_5_10$highlight-blue$", stored.Rangy)
}

// reloadedPage persists one highlight, displays the page and taps it.
func reloadedPage(t *testing.T) (*Engine, *memoryStore, *renderhost.DocumentHost, PageHandle) {
	t.Helper()
	store := newMemoryStore(entities.Highlight{
		ID: "moby_0_8_15", BookID: "moby", Page: 0, Content: "Ishmael",
		Rangy: "type:textContent|8$15$moby_0_8_15$highlight-yellow$",
	})
	host, err := renderhost.NewDocumentHost(chapter)
	require.NoError(t, err)
	e := NewEngine(store, nil)
	h := e.Pages().Show("slot-0", Page{BookID: "moby", Number: 0, Host: host})
	_, err = e.LoadPage(context.Background(), h)
	require.NoError(t, err)
	return e, store, host, h
}

func TestEngine_ChangeStyle(t *testing.T) {
	ctx := context.Background()
	e, store, host, h := reloadedPage(t)
	session := reader.NewSession()

	_, err := e.ChangeStyle(ctx, h, session, entities.HighlightStyleBlue)
	assert.ErrorIs(t, err, ErrNoActiveHighlight)

	require.True(t, host.Tap("moby_0_8_15"))
	id, err := e.ChangeStyle(ctx, h, session, entities.HighlightStyleBlue)
	require.NoError(t, err)
	assert.Equal(t, "moby_0_8_15", id)
	assert.Equal(t, entities.HighlightStyleBlue, session.HighlightStyle())

	stored, err := store.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "type:textContent|8$15$moby_0_8_15$highlight-blue$", stored.Rangy)
	assert.Equal(t, entities.HighlightStyleBlue, stored.Style)

	_, err = e.ChangeStyle(ctx, h, session, entities.HighlightStyle(9))
	assert.ErrorIs(t, err, reader.ErrInvalidStyle)
}

func TestEngine_ApplyStyleChange_MissingEntry(t *testing.T) {
	store := newMemoryStore(entities.Highlight{ID: "x", BookID: "b", Rangy: "type:textContent|0$1$x$highlight-yellow$"})
	e := NewEngine(store, nil)

	err := e.ApplyStyleChange("x", "type:textContent|0$1$y$highlight-blue$", entities.HighlightStyleBlue)
	assert.ErrorIs(t, err, ErrNotInDescriptor)

	stored, _ := store.GetByID("x")
	assert.Equal(t, "type:textContent|0$1$x$highlight-yellow$", stored.Rangy)
}

func TestEngine_CurrentHighlightAndNote(t *testing.T) {
	ctx := context.Background()
	e, _, host, h := reloadedPage(t)

	_, err := e.CurrentHighlight(ctx, h)
	assert.ErrorIs(t, err, ErrNoActiveHighlight)

	require.True(t, host.Tap("moby_0_8_15"))
	hl, err := e.CurrentHighlight(ctx, h)
	require.NoError(t, err)
	require.NoError(t, e.UpdateNote(hl.ID, "call him that"))

	updated, err := e.Highlight(hl.ID)
	require.NoError(t, err)
	assert.Equal(t, "call him that", updated.Note)

	content, ok := e.HighlightContent(ctx, h)
	assert.True(t, ok)
	assert.Equal(t, "Ishmael", content)
}

func TestEngine_RemoveCurrent(t *testing.T) {
	ctx := context.Background()
	e, store, host, h := reloadedPage(t)

	_, err := e.RemoveCurrent(ctx, h)
	assert.ErrorIs(t, err, ErrNoActiveHighlight)

	require.True(t, host.Tap("moby_0_8_15"))
	id, err := e.RemoveCurrent(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, "moby_0_8_15", id)
	assert.False(t, store.has(id))
	assert.False(t, host.Applied().Active())
}

func TestEngine_SetStyle(t *testing.T) {
	e, store, _, _ := reloadedPage(t)

	hl, err := e.SetStyle("moby_0_8_15", entities.HighlightStyleUnderline)
	require.NoError(t, err)
	assert.Equal(t, "type:textContent|8$15$moby_0_8_15$highlight-underline$", hl.Rangy)

	stored, _ := store.GetByID("moby_0_8_15")
	assert.Equal(t, entities.HighlightStyleUnderline, stored.Style)

	_, err = e.SetStyle("nope", entities.HighlightStyleBlue)
	assert.ErrorIs(t, err, ErrHighlightNotFound)
}

func TestEngine_Selection(t *testing.T) {
	ctx := context.Background()
	e, _, host, h := reloadedPage(t)

	_, ok := e.SelectedText(ctx, h)
	assert.False(t, ok)
	assert.False(t, e.IsOneWord(ctx, h))

	require.True(t, host.SelectText("great whale"))
	text, ok := e.SelectedText(ctx, h)
	assert.True(t, ok)
	assert.Equal(t, "great whale", text)
	assert.False(t, e.IsOneWord(ctx, h))

	require.True(t, host.SelectText("whale"))
	assert.True(t, e.IsOneWord(ctx, h))
}

func TestEngine_Offsets(t *testing.T) {
	ctx := context.Background()
	e, _, _, h := reloadedPage(t)

	assert.Equal(t, 8.0, e.HighlightOffset(ctx, h, "moby_0_8_15", ScrollHorizontal))
	assert.Equal(t, 8.0-VerticalInset, e.HighlightOffset(ctx, h, "moby_0_8_15", ScrollVertical))
	assert.Equal(t, 0.0, e.HighlightOffset(ctx, h, "unknown", ScrollVertical))
	assert.Equal(t, 0.0, e.HighlightOffset(ctx, h, "", ScrollVertical))

	assert.Equal(t, 16.0, e.AnchorOffset(ctx, h, "whale", ScrollVertical))
	assert.Equal(t, 0.0, e.AnchorOffset(ctx, h, "missing", ScrollHorizontal))
}
