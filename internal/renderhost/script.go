// Package renderhost is the bridge to whatever renders a book page: the
// reader's web view on a device, or DocumentHost on the server.
//
// The engine talks to a host only through scripts. Every Evaluate call
// delivers exactly one Reply; a host that is gone or has no content loaded
// replies with an absent value instead of hanging.
package renderhost

import (
	"strconv"
	"strings"
)

// Script functions provided by the page's highlighting script layer.
const (
	FuncGetSelectedText      = "getSelectedText"
	FuncGetHighlights        = "getHighlights"
	FuncGetHighlightContent  = "getHighlightContent"
	FuncSetHighlight         = "setHighlight"
	FuncMigrateStringToRange = "migrateStringToRange"
	FuncHighlightString      = "highlightString"
	FuncSetHighlightStyle    = "setHighlightStyle"
	FuncRemoveThisHighlight  = "removeThisHighlight"
	FuncCurrentHighlightID   = "currentHighlightId"
	FuncGetHighlightOffset   = "getHighlightOffset"
	FuncGetAnchorOffset      = "getAnchorOffset"
)

// Script is a single function call evaluated in the page.
type Script struct {
	Func string
	Args []any
}

var jsStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// String renders the call as JavaScript source, e.g. setHighlight('type:textContent').
func (s Script) String() string {
	args := make([]string, 0, len(s.Args))
	for _, arg := range s.Args {
		switch v := arg.(type) {
		case string:
			args = append(args, "'"+jsStringEscaper.Replace(v)+"'")
		case bool:
			args = append(args, strconv.FormatBool(v))
		case int:
			args = append(args, strconv.Itoa(v))
		case float64:
			args = append(args, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			args = append(args, "undefined")
		}
	}
	return s.Func + "(" + strings.Join(args, ", ") + ")"
}

// StringArg returns argument i as a string, or "" if it is missing or not a string.
func (s Script) StringArg(i int) string {
	if i >= len(s.Args) {
		return ""
	}
	v, _ := s.Args[i].(string)
	return v
}

func GetSelectedText() Script {
	return Script{Func: FuncGetSelectedText}
}

func GetHighlights() Script {
	return Script{Func: FuncGetHighlights}
}

func GetHighlightContent() Script {
	return Script{Func: FuncGetHighlightContent}
}

// SetHighlight applies a (merged) range descriptor to the page.
func SetHighlight(descriptor string) Script {
	return Script{Func: FuncSetHighlight, Args: []any{descriptor}}
}

// MigrateStringToRange asks the page to locate target inside fullPassage and
// reply with {start, end} text offsets. Both arguments must be markup free.
func MigrateStringToRange(fullPassage, target string) Script {
	return Script{Func: FuncMigrateStringToRange, Args: []any{fullPassage, target}}
}

// HighlightString highlights the current selection and replies with the
// page's batch descriptor and the temporary id of the new entry.
func HighlightString(styleClass, bookID string, page int) Script {
	return Script{Func: FuncHighlightString, Args: []any{styleClass, bookID, page}}
}

// SetHighlightStyle restyles the tapped highlight and replies with its id.
func SetHighlightStyle(styleClass string) Script {
	return Script{Func: FuncSetHighlightStyle, Args: []any{styleClass}}
}

func RemoveThisHighlight() Script {
	return Script{Func: FuncRemoveThisHighlight}
}

func CurrentHighlightID() Script {
	return Script{Func: FuncCurrentHighlightID}
}

func GetHighlightOffset(highlightID string, horizontal bool) Script {
	return Script{Func: FuncGetHighlightOffset, Args: []any{highlightID, horizontal}}
}

func GetAnchorOffset(anchor string, horizontal bool) Script {
	return Script{Func: FuncGetAnchorOffset, Args: []any{anchor, horizontal}}
}
