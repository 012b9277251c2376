package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ooguz/odttomd/internal/convert"
	"github.com/ooguz/odttomd/internal/styles"
)

// FODTParser handles flat OpenDocument text, where one XML file carries both
// the styles and the body.
type FODTParser struct {
	Converter *convert.Converter
}

func (p *FODTParser) Parse(r io.Reader, filename string, out io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	set := styles.NewSet()
	if err := set.Load(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("styles of %s: %w", filename, err)
	}
	return p.Converter.Convert(bytes.NewReader(data), out, set)
}
