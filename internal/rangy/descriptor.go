// Package rangy encodes and decodes the range descriptors exchanged with the
// render host's highlighting script layer.
//
// A descriptor lists highlighted text spans of one page:
//
//	type:textContent|5$10$moby_3_5_10$highlight-yellow$|20$30$moby_3_20_30$highlight-green$
//
// Offsets are relative to the page's flattened text content. The trailing "$"
// after the style class is part of the wire format and carries no field.
package rangy

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// KindTextContent is the only descriptor kind the script layer produces.
	KindTextContent = "textContent"

	typePrefix       = "type:"
	segmentSeparator = "|"
	fieldSeparator   = "$"

	// TextContentPrefix is the bare descriptor with no entries.
	TextContentPrefix = typePrefix + KindTextContent
)

var (
	ErrMalformedDescriptor = errors.New("malformed range descriptor")
	ErrEmptyDescriptor     = errors.New("range descriptor has no entries")
	ErrEntryNotFound       = errors.New("range entry not found")
	ErrMissingBookID       = errors.New("book id is required")
)

// Entry is one highlighted span.
type Entry struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	ID         string `json:"id"`
	StyleClass string `json:"style_class"`
}

// Descriptor is the parsed form of a serialized range descriptor.
type Descriptor struct {
	Kind    string  `json:"kind"`
	Entries []Entry `json:"entries"`
}

// NewDescriptor builds a textContent descriptor from entries.
func NewDescriptor(entries ...Entry) Descriptor {
	return Descriptor{Kind: KindTextContent, Entries: entries}
}

// Active reports whether the descriptor carries any highlight.
func (d Descriptor) Active() bool {
	return len(d.Entries) > 0
}

// String serializes the descriptor to its wire form.
func (d Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(typePrefix)
	sb.WriteString(d.Kind)
	for _, e := range d.Entries {
		sb.WriteString(segmentSeparator)
		sb.WriteString(e.segment())
	}
	return sb.String()
}

func (e Entry) segment() string {
	return strconv.Itoa(e.Start) + fieldSeparator +
		strconv.Itoa(e.End) + fieldSeparator +
		e.ID + fieldSeparator +
		e.StyleClass + fieldSeparator
}

// Parse decodes a serialized descriptor. On malformed input it returns an
// empty descriptor together with ErrMalformedDescriptor; the host may report
// no highlights at all, so callers usually treat the error as "nothing here".
func Parse(serialized string) (Descriptor, error) {
	if !strings.HasPrefix(serialized, typePrefix) {
		return Descriptor{Kind: KindTextContent}, ErrMalformedDescriptor
	}

	segments := strings.Split(strings.TrimPrefix(serialized, typePrefix), segmentSeparator)
	kind := segments[0]
	if kind == "" {
		return Descriptor{Kind: KindTextContent}, ErrMalformedDescriptor
	}

	d := Descriptor{Kind: kind}
	for _, seg := range segments[1:] {
		entry, err := parseSegment(seg)
		if err != nil {
			return Descriptor{Kind: kind}, err
		}
		d.Entries = append(d.Entries, entry)
	}
	return d, nil
}

func parseSegment(seg string) (Entry, error) {
	fields := strings.Split(seg, fieldSeparator)
	// four fields plus the empty remainder after the trailing "$"
	if len(fields) != 5 || fields[4] != "" {
		return Entry{}, ErrMalformedDescriptor
	}

	start, ok := parseOffset(fields[0])
	if !ok {
		return Entry{}, ErrMalformedDescriptor
	}
	end, ok := parseOffset(fields[1])
	if !ok {
		return Entry{}, ErrMalformedDescriptor
	}

	return Entry{Start: start, End: end, ID: fields[2], StyleClass: fields[3]}, nil
}

// parseOffset accepts only the canonical decimal form, so that String
// reproduces the input exactly.
func parseOffset(field string) (int, bool) {
	if field == "" || (len(field) > 1 && field[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindEntry returns the entry with the given id from a batch descriptor.
func FindEntry(serialized, id string) (*Entry, bool) {
	d, err := Parse(serialized)
	if err != nil {
		return nil, false
	}
	for i := range d.Entries {
		if d.Entries[i].ID == id {
			e := d.Entries[i]
			return &e, true
		}
	}
	return nil, false
}

// Isolate returns a single-entry descriptor for the entry with the given id.
func Isolate(serialized, id string) (string, bool) {
	e, ok := FindEntry(serialized, id)
	if !ok {
		return "", false
	}
	return NewDescriptor(*e).String(), true
}

// MergeActive folds per-highlight descriptors into one descriptor suitable for a
// single apply call. Input order is preserved; empty, malformed and non
// textContent descriptors are skipped.
func MergeActive(all []string) string {
	merged := NewDescriptor()
	for _, s := range all {
		if s == "" {
			continue
		}
		d, err := Parse(s)
		if err != nil || d.Kind != KindTextContent {
			continue
		}
		merged.Entries = append(merged.Entries, d.Entries...)
	}
	return merged.String()
}
