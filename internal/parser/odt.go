package parser

import (
	"fmt"
	"io"

	"github.com/ooguz/odttomd/internal/convert"
	"github.com/ooguz/odttomd/internal/odf"
)

// ODTParser handles zipped OpenDocument text (.odt, .ott).
type ODTParser struct {
	Converter *convert.Converter
}

func (p *ODTParser) Parse(r io.Reader, filename string, out io.Writer) error {
	// zip needs random access, so the upload is read into memory.
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	pkg, err := odf.Open(data)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	set, err := pkg.Styles()
	if err != nil {
		return fmt.Errorf("styles of %s: %w", filename, err)
	}

	content, err := pkg.Content()
	if err != nil {
		return err
	}
	defer content.Close()

	return p.Converter.Convert(content, out, set)
}
