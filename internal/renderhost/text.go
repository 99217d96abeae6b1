package renderhost

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripMarkup drops tags from an HTML fragment and decodes entities, keeping
// text exactly as written otherwise.
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			if isSkippedTag(z) {
				skipDepth++
			}
		case html.EndTagToken:
			if isSkippedTag(z) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isSkippedTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}

// pageText is the flattened text content of a document, kept in UTF-16 code
// units because that is how the web view counts text offsets.
type pageText struct {
	units   []uint16
	anchors map[string]int
}

// flattenDocument collects the text nodes under <body> in document order and
// records the text offset of every element carrying an id attribute.
func flattenDocument(doc *html.Node) pageText {
	pt := pageText{anchors: make(map[string]int)}

	root := findElement(doc, atom.Body)
	if root == nil {
		root = doc
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Head {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val != "" {
					if _, seen := pt.anchors[attr.Val]; !seen {
						pt.anchors[attr.Val] = len(pt.units)
					}
				}
			}
		case html.TextNode:
			pt.units = append(pt.units, utf16.Encode([]rune(n.Data))...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return pt
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func (pt pageText) slice(start, end int) string {
	if start < 0 || end > len(pt.units) || start > end {
		return ""
	}
	return string(utf16.Decode(pt.units[start:end]))
}

func isSpaceUnit(u uint16) bool {
	switch u {
	case ' ', '\t', '\n', '\r', '\f', 0x00a0:
		return true
	}
	return false
}

// normalized collapses whitespace runs to one space. index maps every unit of
// the collapsed text back to its position in the source units.
type normalized struct {
	units []uint16
	index []int
}

func normalize(units []uint16) normalized {
	n := normalized{
		units: make([]uint16, 0, len(units)),
		index: make([]int, 0, len(units)),
	}
	prevSpace := false
	for i, u := range units {
		if isSpaceUnit(u) {
			if prevSpace {
				continue
			}
			prevSpace = true
			n.units = append(n.units, ' ')
			n.index = append(n.index, i)
			continue
		}
		prevSpace = false
		n.units = append(n.units, u)
		n.index = append(n.index, i)
	}
	return n
}

func normalizeString(s string) []uint16 {
	return normalize(utf16.Encode([]rune(s))).units
}

// indexUnits returns the first index of needle in hay at or after from, or -1.
func indexUnits(hay, needle []uint16, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func countUnits(hay, needle []uint16) int {
	count := 0
	for i := indexUnits(hay, needle, 0); i >= 0; i = indexUnits(hay, needle, i+1) {
		count++
	}
	return count
}
