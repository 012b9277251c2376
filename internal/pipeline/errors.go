package pipeline

import (
	"archive/zip"
	"errors"

	"github.com/ooguz/odttomd/internal/convert"
	"github.com/ooguz/odttomd/internal/odf"
	"github.com/ooguz/odttomd/internal/parser"
	"github.com/ooguz/odttomd/internal/styles"
)

// ErrorKind classifies why a conversion failed.
type ErrorKind string

const (
	KindUnsupported   ErrorKind = "unsupported_format"
	KindMalformed     ErrorKind = "malformed_document"
	KindReadFailure   ErrorKind = "read_failure"
	KindLookupFailure ErrorKind = "lookup_failure"
	KindInternal      ErrorKind = "internal"
)

// Classify maps a conversion error to its kind. nil classifies as "".
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, parser.ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, convert.ErrMalformedDocument),
		errors.Is(err, styles.ErrMalformed),
		errors.Is(err, odf.ErrNotODF),
		errors.Is(err, zip.ErrFormat):
		return KindMalformed
	case errors.Is(err, convert.ErrReadFailure):
		return KindReadFailure
	case errors.Is(err, styles.ErrNotFound):
		return KindLookupFailure
	default:
		return KindInternal
	}
}
