package renderhost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/mrlokans/folio/internal/rangy"
)

// DocumentHost answers page scripts from a chapter's HTML without a browser.
// It keeps the same state a web view would: the applied highlight
// descriptor, the current text selection and the tapped highlight.
type DocumentHost struct {
	mu sync.Mutex

	text    pageText
	loaded  bool
	applied rangy.Descriptor

	selStart int
	selEnd   int
	tapped   string

	newID func() string
}

// NewDocumentHost parses document and loads its text content.
func NewDocumentHost(document string) (*DocumentHost, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &DocumentHost{
		text:    flattenDocument(doc),
		loaded:  true,
		applied: rangy.NewDescriptor(),
		newID:   uuid.NewString,
	}, nil
}

func (h *DocumentHost) Evaluate(ctx context.Context, script Script) <-chan Reply {
	return HostFunc(h.eval).Evaluate(ctx, script)
}

// Close unloads the content; every later evaluation replies absent.
func (h *DocumentHost) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaded = false
}

// Text returns the flattened text content of the page.
func (h *DocumentHost) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text.slice(0, len(h.text.units))
}

// Applied returns the descriptor currently applied to the page.
func (h *DocumentHost) Applied() rangy.Descriptor {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := append([]rangy.Entry(nil), h.applied.Entries...)
	return rangy.Descriptor{Kind: h.applied.Kind, Entries: entries}
}

// Select sets the text selection to [start, end) in UTF-16 units.
func (h *DocumentHost) Select(start, end int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if start < 0 || end > len(h.text.units) || start >= end {
		return false
	}
	h.selStart, h.selEnd = start, end
	return true
}

// SelectText selects the first occurrence of s.
func (h *DocumentHost) SelectText(s string) bool {
	units := utf16.Encode([]rune(s))
	h.mu.Lock()
	i := indexUnits(h.text.units, units, 0)
	h.mu.Unlock()
	if i < 0 {
		return false
	}
	return h.Select(i, i+len(units))
}

// Tap marks an applied highlight as the one the user touched.
func (h *DocumentHost) Tap(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entryIndex(id) < 0 {
		return false
	}
	h.tapped = id
	return true
}

func (h *DocumentHost) eval(_ context.Context, script Script) Reply {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return Absent()
	}

	switch script.Func {
	case FuncGetSelectedText:
		return Value(h.selectedText())
	case FuncGetHighlights:
		return Value(h.applied.String())
	case FuncSetHighlight:
		d, err := rangy.Parse(script.StringArg(0))
		if err != nil {
			d = rangy.NewDescriptor()
		}
		h.applied = d
		return Value("")
	case FuncMigrateStringToRange:
		m, ok := h.locate(script.StringArg(0), script.StringArg(1))
		if !ok {
			return Absent()
		}
		return Value(EncodeMatch(m))
	case FuncHighlightString:
		return h.highlightSelection(script.StringArg(0))
	case FuncSetHighlightStyle:
		i := h.entryIndex(h.tapped)
		if i < 0 {
			return Absent()
		}
		h.applied.Entries[i].StyleClass = script.StringArg(0)
		return Value(h.tapped)
	case FuncRemoveThisHighlight:
		i := h.entryIndex(h.tapped)
		if i < 0 {
			return Absent()
		}
		removed := h.tapped
		h.applied.Entries = append(h.applied.Entries[:i], h.applied.Entries[i+1:]...)
		h.tapped = ""
		return Value(removed)
	case FuncCurrentHighlightID:
		if h.entryIndex(h.tapped) < 0 {
			return Absent()
		}
		return Value(h.tapped)
	case FuncGetHighlightContent:
		i := h.entryIndex(h.tapped)
		if i < 0 {
			return Absent()
		}
		e := h.applied.Entries[i]
		return Value(h.text.slice(e.Start, e.End))
	case FuncGetHighlightOffset:
		i := h.entryIndex(script.StringArg(0))
		if i < 0 {
			return Absent()
		}
		return Value(strconv.Itoa(h.applied.Entries[i].Start))
	case FuncGetAnchorOffset:
		offset, ok := h.text.anchors[script.StringArg(0)]
		if !ok {
			return Absent()
		}
		return Value(strconv.Itoa(offset))
	}
	return Absent()
}

func (h *DocumentHost) selectedText() string {
	if h.selEnd <= h.selStart {
		return ""
	}
	return h.text.slice(h.selStart, h.selEnd)
}

func (h *DocumentHost) highlightSelection(styleClass string) Reply {
	content := h.selectedText()
	if content == "" {
		return Absent()
	}

	id := h.newID()
	h.applied.Entries = append(h.applied.Entries, rangy.Entry{
		Start:      h.selStart,
		End:        h.selEnd,
		ID:         id,
		StyleClass: styleClass,
	})
	h.selStart, h.selEnd = 0, 0
	h.tapped = id

	return Value(EncodeSelection(Selection{
		Rangy:   h.applied.String(),
		Content: content,
		ID:      id,
	}))
}

func (h *DocumentHost) entryIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range h.applied.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// locate finds target inside fullPassage on the page, comparing with
// collapsed whitespace. When the passage itself is gone it falls back to a
// unique occurrence of target.
func (h *DocumentHost) locate(fullPassage, target string) (Match, bool) {
	page := normalize(h.text.units)
	targetUnits := normalizeString(target)
	if len(targetUnits) == 0 {
		return Match{}, false
	}

	span := func(at int) Match {
		return Match{
			Start: page.index[at],
			End:   page.index[at+len(targetUnits)-1] + 1,
		}
	}

	fullUnits := normalizeString(fullPassage)
	if p := indexUnits(page.units, fullUnits, 0); p >= 0 {
		if q := indexUnits(fullUnits, targetUnits, 0); q >= 0 {
			return span(p + q), true
		}
	}

	if countUnits(page.units, targetUnits) == 1 {
		return span(indexUnits(page.units, targetUnits, 0)), true
	}
	return Match{}, false
}
