package convert

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ooguz/odttomd/internal/markdown"
	"github.com/ooguz/odttomd/internal/styles"
)

// StyleLookup resolves span styles and outline numbering styles.
type StyleLookup interface {
	Style(name string) (styles.Style, error)
	OutlineLevelStyle(level int) (styles.OutlineLevelStyle, error)
}

// NumberFunc renders a counter in an ODF number format.
type NumberFunc func(value int, format string, letterSync bool) string

// parseContext is the mutable state of one conversion.
type parseContext struct {
	styleStack []styles.Style
	listDepth  int
	linkTarget string
	outline    []int
}

// Transducer turns XML events into Markdown. It reacts to events only; the
// caller decides where they come from. A Transducer serves one document.
type Transducer struct {
	out    *markdown.Writer
	styles StyleLookup
	number NumberFunc
	log    *slog.Logger
	ctx    parseContext
}

// NewTransducer writes to out.
func NewTransducer(out *markdown.Writer, lookup StyleLookup, number NumberFunc, log *slog.Logger) *Transducer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Transducer{out: out, styles: lookup, number: number, log: log}
}

// OutlineNumbers returns a copy of the counters of every outline level seen so far.
func (t *Transducer) OutlineNumbers() []int {
	return append([]int(nil), t.ctx.outline...)
}

// ListDepth returns the number of currently open lists.
func (t *Transducer) ListDepth() int {
	return t.ctx.listDepth
}

// StartElement handles an element start event.
func (t *Transducer) StartElement(el xml.StartElement) error {
	switch classify(el.Name) {
	case kindHeading:
		return t.startHeading(attrLevel(el.Attr, nsText, "text", "outline-level", 0))
	case kindList:
		t.ctx.listDepth++
	case kindListItem:
		t.out.Raw(strings.Repeat(" ", max(t.ctx.listDepth-1, 0)))
		t.out.Raw("* ")
	case kindSpan:
		st, err := t.styles.Style(attrString(el.Attr, nsText, "text", "style-name", ""))
		if err != nil {
			return fmt.Errorf("span style: %w", err)
		}
		t.ctx.styleStack = append(t.ctx.styleStack, st)
		if st.Bold {
			t.out.Raw("__")
		}
	case kindLink:
		t.ctx.linkTarget = attrString(el.Attr, nsXLink, "xlink", "href", "")
		t.out.RawByte('[')
	case kindLineBreak:
		t.out.RawByte('\n')
	}
	return nil
}

// EndElement handles an element end event.
func (t *Transducer) EndElement(el xml.EndElement) error {
	switch classify(el.Name) {
	case kindHeading:
		t.out.Raw("\n\n")
	case kindParagraph:
		t.out.RawByte('\n')
		if t.ctx.listDepth == 0 {
			t.out.RawByte('\n')
		}
	case kindList:
		if t.ctx.listDepth > 0 {
			t.ctx.listDepth--
		}
		if t.ctx.listDepth == 0 {
			t.out.RawByte('\n')
		}
	case kindSpan:
		n := len(t.ctx.styleStack)
		if n == 0 {
			return nil
		}
		st := t.ctx.styleStack[n-1]
		t.ctx.styleStack = t.ctx.styleStack[:n-1]
		if st.Bold {
			t.out.Raw("__")
		}
	case kindLink:
		t.out.Raw("](")
		t.out.EmitString(t.ctx.linkTarget)
		t.out.RawByte(')')
	}
	return nil
}

// CharData handles character data.
func (t *Transducer) CharData(data xml.CharData) {
	t.out.Write(data)
}

func (t *Transducer) startHeading(level int) error {
	t.out.Raw(strings.Repeat("#", max(level, 1)))
	t.out.RawByte(' ')
	if level == 0 {
		return nil
	}

	outline := t.ctx.outline
	if len(outline) > level {
		outline = outline[:level]
	}
	for len(outline) < level-1 {
		skipped, err := t.styles.OutlineLevelStyle(len(outline) + 1)
		if err != nil {
			return fmt.Errorf("outline level %d: %w", len(outline)+1, err)
		}
		outline = append(outline, skipped.StartValue)
	}

	ols, err := t.styles.OutlineLevelStyle(level)
	if err != nil {
		return fmt.Errorf("outline level %d: %w", level, err)
	}
	if len(outline) < level {
		outline = append(outline, ols.StartValue)
	} else {
		outline[len(outline)-1]++
	}
	t.ctx.outline = outline
	current := outline[len(outline)-1]

	t.out.EmitString(ols.Prefix)
	fromLevel := 1
	if ols.DisplayLevels <= level {
		fromLevel = 1 + level - ols.DisplayLevels
	} else {
		t.log.Warn("more levels to display than the current level",
			"display_levels", ols.DisplayLevels, "level", level)
	}
	for higher := fromLevel; higher < level; higher++ {
		hs, err := t.styles.OutlineLevelStyle(higher)
		if err != nil {
			return fmt.Errorf("outline level %d: %w", higher, err)
		}
		if hs.NumFormat != "" {
			t.out.EmitString(t.number(outline[higher-1], hs.NumFormat, hs.NumLetterSync))
		}
		t.out.EmitChar('.')
	}
	if ols.NumFormat != "" {
		t.out.EmitString(t.number(current, ols.NumFormat, ols.NumLetterSync))
	}
	t.out.EmitString(ols.Suffix)
	t.out.RawByte(' ')
	return nil
}
