package convert

import (
	"encoding/xml"
	"strconv"

	"github.com/ooguz/odttomd/internal/styles"
)

const (
	nsText  = styles.NSText
	nsXLink = "http://www.w3.org/1999/xlink"
)

// elementKind is the closed set of elements the transducer reacts to.
type elementKind uint8

const (
	kindIgnored elementKind = iota
	kindHeading
	kindParagraph
	kindList
	kindListItem
	kindSpan
	kindLink
	kindLineBreak
)

var textElements = map[string]elementKind{
	"h":          kindHeading,
	"p":          kindParagraph,
	"list":       kindList,
	"list-item":  kindListItem,
	"span":       kindSpan,
	"a":          kindLink,
	"line-break": kindLineBreak,
}

// classify maps an element name to its kind. The decoder leaves undeclared
// prefixes in Name.Space, so the bare "text" prefix is accepted as well.
func classify(name xml.Name) elementKind {
	if !inSpace(name.Space, nsText, "text") {
		return kindIgnored
	}
	return textElements[name.Local]
}

func inSpace(space, uri, prefix string) bool {
	return space == uri || space == prefix
}

func attrString(attrs []xml.Attr, uri, prefix, local, fallback string) string {
	for _, a := range attrs {
		if a.Name.Local == local && inSpace(a.Name.Space, uri, prefix) {
			return a.Value
		}
	}
	return fallback
}

// attrLevel parses a non-negative integer attribute; anything else yields fallback.
func attrLevel(attrs []xml.Attr, uri, prefix, local string, fallback int) int {
	v := attrString(attrs, uri, prefix, local, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
