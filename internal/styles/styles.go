// Package styles resolves ODF text styles and outline numbering styles by name and level.
package styles

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// ODF namespaces.
const (
	NSStyle = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	NSText  = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	NSFO    = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
)

// DefaultOutlineLevels is the number of outline levels ODF defines.
const DefaultOutlineLevels = 10

// maxParentDepth bounds style:parent-style-name chains so cyclic definitions terminate.
const maxParentDepth = 32

var (
	// ErrNotFound is returned when a style or outline level is not defined.
	ErrNotFound = errors.New("style not found")
	// ErrMalformed is returned when a style part is not well-formed XML.
	ErrMalformed = errors.New("malformed style part")
)

// NotFoundError reports a lookup that could not be resolved.
type NotFoundError struct {
	Kind string // "style" or "outline level"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Style holds the inline attributes the converter renders.
type Style struct {
	Bold bool
}

// OutlineLevelStyle is the numbering configuration of one heading level.
type OutlineLevelStyle struct {
	StartValue    int
	Prefix        string
	Suffix        string
	DisplayLevels int
	NumFormat     string
	NumLetterSync bool
}

// DefaultOutlineLevelStyle is what ODF assumes for a level without explicit attributes.
func DefaultOutlineLevelStyle() OutlineLevelStyle {
	return OutlineLevelStyle{StartValue: 1, DisplayLevels: 1}
}

type styleDef struct {
	parent  string
	bold    bool
	boldSet bool
}

// Set is a style lookup built from one or more ODF XML parts.
// It is read-only once loading is done and safe for concurrent lookups.
type Set struct {
	styles  map[string]styleDef
	outline map[int]OutlineLevelStyle
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		styles:  make(map[string]styleDef),
		outline: make(map[int]OutlineLevelStyle),
	}
}

var (
	namespaces = map[string]string{
		"style": NSStyle,
		"text":  NSText,
	}
	styleExpr        = mustCompile("//style:style")
	textPropsExpr    = mustCompile("style:text-properties")
	outlineLevelExpr = mustCompile("//text:outline-style/text:outline-level-style")
)

func mustCompile(expr string) *xpath.Expr {
	e, err := xpath.CompileWithNS(expr, namespaces)
	if err != nil {
		panic(fmt.Sprintf("compile %q: %v", expr, err))
	}
	return e
}

// Load adds the style definitions found in one XML part (styles.xml, content.xml
// or a flat .fodt document). Later parts override earlier definitions of the same name.
func (s *Set) Load(r io.Reader) error {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	for _, n := range xmlquery.QuerySelectorAll(doc, styleExpr) {
		// Only spans consult Style, so paragraph styles sharing a name must not shadow text styles.
		name := attr(n, NSStyle, "name")
		if name == "" || attr(n, NSStyle, "family") != "text" {
			continue
		}
		def := styleDef{parent: attr(n, NSStyle, "parent-style-name")}
		if props := xmlquery.QuerySelector(n, textPropsExpr); props != nil {
			if weight := attr(props, NSFO, "font-weight"); weight != "" {
				def.boldSet = true
				def.bold = isBold(weight)
			}
		}
		s.styles[name] = def
	}

	levels := xmlquery.QuerySelectorAll(doc, outlineLevelExpr)
	if len(levels) > 0 {
		// A part that carries an outline style replaces the previous one as a whole.
		s.outline = make(map[int]OutlineLevelStyle, len(levels))
	}
	for _, n := range levels {
		level, err := strconv.Atoi(attr(n, NSText, "level"))
		if err != nil || level < 1 {
			continue
		}
		ols := DefaultOutlineLevelStyle()
		ols.Prefix = attr(n, NSStyle, "num-prefix")
		ols.Suffix = attr(n, NSStyle, "num-suffix")
		ols.NumFormat = attr(n, NSStyle, "num-format")
		ols.NumLetterSync = attr(n, NSStyle, "num-letter-sync") == "true"
		if v, err := strconv.Atoi(attr(n, NSText, "display-levels")); err == nil && v >= 0 {
			ols.DisplayLevels = v
		}
		if v, err := strconv.Atoi(attr(n, NSText, "start-value")); err == nil {
			ols.StartValue = v
		}
		s.outline[level] = ols
	}
	return nil
}

// Style resolves a style by name, following parent styles. The empty name and
// names with no definition resolve to the zero Style.
func (s *Set) Style(name string) (Style, error) {
	var st Style
	for depth := 0; name != "" && depth < maxParentDepth; depth++ {
		def, ok := s.styles[name]
		if !ok {
			break
		}
		if def.boldSet {
			st.Bold = def.bold
			break
		}
		name = def.parent
	}
	return st, nil
}

// OutlineLevelStyle returns the numbering style of a heading level. A document
// without any outline style gets ODF defaults for the standard ten levels.
func (s *Set) OutlineLevelStyle(level int) (OutlineLevelStyle, error) {
	if ols, ok := s.outline[level]; ok {
		return ols, nil
	}
	if len(s.outline) == 0 && level >= 1 && level <= DefaultOutlineLevels {
		return DefaultOutlineLevelStyle(), nil
	}
	return OutlineLevelStyle{}, &NotFoundError{Kind: "outline level", Name: strconv.Itoa(level)}
}

func isBold(weight string) bool {
	weight = strings.TrimSpace(weight)
	if weight == "bold" {
		return true
	}
	if n, err := strconv.Atoi(weight); err == nil {
		return n >= 600
	}
	return false
}

func attr(n *xmlquery.Node, space, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.NamespaceURI == space {
			return a.Value
		}
	}
	return ""
}
