package rangy

import (
	"strconv"
	"strings"
)

// ClampPage floors page numbers at zero. Upstream numbering may be one-based or
// transiently invalid while pages are changing.
func ClampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

// ComposeID joins the parts of a composite highlight id.
func ComposeID(bookID string, page, start, end int) string {
	return strings.Join([]string{
		bookID,
		strconv.Itoa(ClampPage(page)),
		strconv.Itoa(start),
		strconv.Itoa(end),
	}, "_")
}

// BuildID derives the composite id <bookId>_<page>_<start>_<end> from the first
// entry of the descriptor. Two highlights over the same range collide on purpose.
func BuildID(bookID string, page int, d Descriptor) (string, error) {
	if bookID == "" {
		return "", ErrMissingBookID
	}
	if !d.Active() {
		return "", ErrEmptyDescriptor
	}
	first := d.Entries[0]
	return ComposeID(bookID, page, first.Start, first.End), nil
}

// RewriteID replaces the id field of the entry currently identified by oldID.
// The entry is located by parsed position so ids that are substrings of other
// fields are never touched.
func RewriteID(serialized, oldID, newID string) (string, error) {
	d, err := Parse(serialized)
	if err != nil {
		return "", err
	}
	for i := range d.Entries {
		if d.Entries[i].ID == oldID {
			d.Entries[i].ID = newID
			return d.String(), nil
		}
	}
	return "", ErrEntryNotFound
}
