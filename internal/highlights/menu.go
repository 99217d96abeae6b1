package highlights

type MenuItem string

const (
	MenuPlay          MenuItem = "play"
	MenuHighlight     MenuItem = "highlight"
	MenuHighlightNote MenuItem = "highlight_note"
	MenuDefine        MenuItem = "define"
	MenuShare         MenuItem = "share"
	MenuColors        MenuItem = "colors"
	MenuEditNote      MenuItem = "edit_note"
	MenuRemove        MenuItem = "remove"
	MenuYellow        MenuItem = "yellow"
	MenuGreen         MenuItem = "green"
	MenuBlue          MenuItem = "blue"
	MenuPink          MenuItem = "pink"
	MenuUnderline     MenuItem = "underline"
)

// MenuMode selects which edit menu the reader sees.
type MenuMode int

const (
	// MenuForSelection is shown over a plain text selection.
	MenuForSelection MenuMode = iota
	// MenuForHighlight is shown after tapping an existing highlight.
	MenuForHighlight
	// MenuForColors is the style picker.
	MenuForColors
)

type MenuOptions struct {
	AllowSharing bool
	// Speech is true when the book has media overlays or text to speech is on.
	Speech  bool
	OneWord bool
}

// MenuFor lists the menu items for a mode, in display order.
func MenuFor(mode MenuMode, opts MenuOptions) []MenuItem {
	switch mode {
	case MenuForColors:
		return []MenuItem{MenuYellow, MenuGreen, MenuBlue, MenuPink, MenuUnderline}
	case MenuForHighlight:
		items := []MenuItem{MenuColors, MenuEditNote, MenuRemove}
		if opts.AllowSharing {
			items = append(items, MenuShare)
		}
		return items
	}

	var items []MenuItem
	if opts.Speech {
		items = append(items, MenuPlay)
	}
	items = append(items, MenuHighlight)
	if opts.OneWord {
		items = append(items, MenuDefine)
	}
	items = append(items, MenuHighlightNote)
	if opts.AllowSharing {
		items = append(items, MenuShare)
	}
	return items
}
