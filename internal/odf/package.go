// Package odf opens OpenDocument containers and exposes their XML parts.
package odf

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ooguz/odttomd/internal/styles"
)

// Well-known members of an ODF package.
const (
	MemberMimeType = "mimetype"
	MemberContent  = "content.xml"
	MemberStyles   = "styles.xml"
)

var (
	// ErrNotODF is returned for archives that are not OpenDocument packages.
	ErrNotODF = errors.New("not an OpenDocument package")
	// ErrMemberNotFound is returned when a package member does not exist.
	ErrMemberNotFound = errors.New("package member not found")
)

// Package is an opened ODF zip container.
type Package struct {
	zr       *zip.Reader
	mimeType string
}

// Open reads an ODF package from memory.
func Open(data []byte) (*Package, error) {
	return OpenReaderAt(bytes.NewReader(data), int64(len(data)))
}

// OpenReaderAt reads an ODF package from r. The mimetype member is optional,
// but when present it must name an OpenDocument type.
func OpenReaderAt(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	p := &Package{zr: zr}

	if mt, err := p.readSmall(MemberMimeType); err == nil {
		p.mimeType = strings.TrimSpace(mt)
		if !strings.Contains(p.mimeType, "opendocument") {
			return nil, fmt.Errorf("%w: mimetype %q", ErrNotODF, p.mimeType)
		}
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	if !p.Has(MemberContent) {
		return nil, fmt.Errorf("%w: %s missing", ErrNotODF, MemberContent)
	}
	return p, nil
}

// MimeType returns the declared media type, or "" when the package has no mimetype member.
func (p *Package) MimeType() string {
	return p.mimeType
}

// Has reports whether the package contains the named member.
func (p *Package) Has(name string) bool {
	return p.find(name) != nil
}

// OpenMember opens a package member for streaming.
func (p *Package) OpenMember(name string) (io.ReadCloser, error) {
	f := p.find(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return rc, nil
}

// Content opens content.xml.
func (p *Package) Content() (io.ReadCloser, error) {
	return p.OpenMember(MemberContent)
}

// Styles builds the style lookup from styles.xml (when present) and the
// automatic styles of content.xml, in that order.
func (p *Package) Styles() (*styles.Set, error) {
	set := styles.NewSet()
	for _, name := range []string{MemberStyles, MemberContent} {
		if !p.Has(name) {
			continue
		}
		rc, err := p.OpenMember(name)
		if err != nil {
			return nil, err
		}
		err = set.Load(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return set, nil
}

func (p *Package) find(name string) *zip.File {
	for _, f := range p.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (p *Package) readSmall(name string) (string, error) {
	rc, err := p.OpenMember(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 1024))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
