package renderhost

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Match is the text range the host found for a legacy highlight.
type Match struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Selection is what highlightString reports about a freshly created highlight.
type Selection struct {
	Rangy   string `json:"rangy"`
	Content string `json:"content"`
	ID      string `json:"id"`
	Rect    string `json:"rect,omitempty"`
}

// flexInt accepts both 12 and "12"; the script layer is not consistent.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// DecodeMatch parses a migrateStringToRange reply.
func DecodeMatch(r Reply) (Match, bool) {
	if !r.OK || strings.TrimSpace(r.Value) == "" {
		return Match{}, false
	}

	var raw struct {
		Start *flexInt `json:"start"`
		End   *flexInt `json:"end"`
	}
	if err := json.Unmarshal([]byte(r.Value), &raw); err != nil {
		return Match{}, false
	}
	if raw.Start == nil || raw.End == nil {
		return Match{}, false
	}

	m := Match{Start: int(*raw.Start), End: int(*raw.End)}
	if m.Start < 0 || m.End <= m.Start {
		return Match{}, false
	}
	return m, true
}

// EncodeMatch is the reply form of a Match.
func EncodeMatch(m Match) string {
	b, _ := json.Marshal(m)
	return string(b)
}

// DecodeSelection parses a highlightString reply. The host replies with an
// array and only the first element is meaningful.
func DecodeSelection(r Reply) (Selection, bool) {
	if !r.OK || strings.TrimSpace(r.Value) == "" {
		return Selection{}, false
	}

	var items []Selection
	if err := json.Unmarshal([]byte(r.Value), &items); err != nil || len(items) == 0 {
		return Selection{}, false
	}

	s := items[0]
	if s.Rangy == "" || s.Content == "" || s.ID == "" {
		return Selection{}, false
	}
	return s, true
}

// EncodeSelection is the reply form of a Selection.
func EncodeSelection(s Selection) string {
	b, _ := json.Marshal([]Selection{s})
	return string(b)
}

// DecodeOffset parses a numeric offset reply; anything unusable is 0.
func DecodeOffset(r Reply) float64 {
	if !r.OK {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64)
	if err != nil {
		return 0
	}
	return f
}
