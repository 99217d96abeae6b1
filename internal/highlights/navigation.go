package highlights

import (
	"context"

	"github.com/mrlokans/folio/internal/renderhost"
)

// ScrollDirection is the reading layout.
type ScrollDirection int

const (
	ScrollVertical ScrollDirection = iota
	ScrollHorizontal
	// ScrollHorizontalWithVerticalContent pages horizontally but scrolls
	// each page vertically.
	ScrollHorizontalWithVerticalContent
)

// VerticalInset is subtracted from vertical offsets so the target is not
// hidden under the navigation bar.
const VerticalInset = 100.0

func (d ScrollDirection) horizontal() bool {
	return d == ScrollHorizontal
}

// HighlightOffset returns the scroll offset of a highlight on the page, or 0
// when the host does not know it.
func (e *Engine) HighlightOffset(ctx context.Context, h PageHandle, id string, dir ScrollDirection) float64 {
	if id == "" {
		return 0
	}
	page, ok := e.pages.Lookup(h)
	if !ok {
		return 0
	}
	reply := renderhost.Call(ctx, page.Host, renderhost.GetHighlightOffset(id, dir.horizontal()))
	if !reply.OK {
		return 0
	}
	offset := renderhost.DecodeOffset(reply)
	if dir == ScrollVertical {
		offset -= VerticalInset
	}
	return offset
}

// AnchorOffset returns the scroll offset of an element id on the page, or 0.
func (e *Engine) AnchorOffset(ctx context.Context, h PageHandle, anchor string, dir ScrollDirection) float64 {
	if anchor == "" {
		return 0
	}
	page, ok := e.pages.Lookup(h)
	if !ok {
		return 0
	}
	return renderhost.DecodeOffset(renderhost.Call(ctx, page.Host, renderhost.GetAnchorOffset(anchor, dir.horizontal())))
}

// ShouldScroll decides whether jumping to offset is worth it. In vertical
// layouts, when avoidBeginning is set, targets in the first half of the
// visible frame are left alone.
func ShouldScroll(offset, frameHeight float64, dir ScrollDirection, avoidBeginning bool) bool {
	if dir != ScrollVertical || !avoidBeginning {
		return true
	}
	return offset >= frameHeight*0.5
}
