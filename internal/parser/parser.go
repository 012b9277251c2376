package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ooguz/odttomd/internal/convert"
)

// ErrUnsupported is returned for uploads whose extension has no parser.
var ErrUnsupported = errors.New("unsupported file extension")

// Parser converts raw document bytes into Markdown written to out.
type Parser interface {
	Parse(r io.Reader, filename string, out io.Writer) error
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".odt":  true,
	".ott":  true,
	".fodt": true,
}

// ForFile returns the appropriate parser for a filename. A nil converter
// gets the default configuration.
func ForFile(filename string, conv *convert.Converter) (Parser, error) {
	if conv == nil {
		conv = convert.New()
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".odt", ".ott":
		return &ODTParser{Converter: conv}, nil
	case ".fodt":
		return &FODTParser{Converter: conv}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// TitleFromFilename strips the directory and extension.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
