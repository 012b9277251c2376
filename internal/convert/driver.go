// Package convert streams ODF content.xml into Markdown.
//
// The Converter pumps bytes from a source into an XML tokenizer and hands every
// element and character event to a Transducer, which writes Markdown as the
// events arrive. Nothing is buffered beyond one read chunk, so partial output
// reaches the writer before a later failure is detected; callers that need
// all-or-nothing output convert into a buffer.
package convert

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ooguz/odttomd/internal/markdown"
	"github.com/ooguz/odttomd/internal/numbering"
	"golang.org/x/net/html/charset"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 4 * 1024

// Option configures a Converter.
type Option func(*Converter)

// WithChunkSize sets how many bytes are read from the source at a time.
func WithChunkSize(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithNumberFunc replaces the outline number renderer.
func WithNumberFunc(f NumberFunc) Option {
	return func(c *Converter) {
		if f != nil {
			c.number = f
		}
	}
}

// WithLogger sets where diagnostics go. They never reach the Markdown output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// Converter holds configuration only; every Convert call gets its own state,
// so one Converter can be shared between goroutines.
type Converter struct {
	chunkSize int
	number    NumberFunc
	log       *slog.Logger
	buffers   sync.Pool
}

// New returns a Converter with the given options applied.
func New(opts ...Option) *Converter {
	c := &Converter{
		chunkSize: DefaultChunkSize,
		number:    numbering.Format,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.buffers.New = func() any {
		b := make([]byte, c.chunkSize)
		return &b
	}
	return c
}

// Convert reads an ODF content document from src and writes Markdown to out.
// Errors match ErrReadFailure, ErrMalformedDocument or the lookup's not-found
// error; out is left with whatever was written before the failure.
func (c *Converter) Convert(src io.Reader, out io.Writer, lookup StyleLookup) error {
	buf := c.buffers.Get().(*[]byte)
	defer c.buffers.Put(buf)

	in := &chunkReader{src: src, buf: *buf}
	dec := xml.NewDecoder(in)
	dec.CharsetReader = charset.NewReaderLabel

	w := markdown.NewWriter(out)
	t := NewTransducer(w, lookup, c.number, c.log)

	sawRoot := false
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if !sawRoot {
				return &SyntaxError{Phase: PhaseFinal, Err: errors.New("no root element")}
			}
			return nil
		}
		if err != nil {
			return in.classify(err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			if sawRoot && depth == 0 {
				return junkAfterRoot(dec)
			}
			sawRoot = true
			depth++
			err = t.StartElement(tok)
		case xml.EndElement:
			depth--
			err = t.EndElement(tok)
		case xml.CharData:
			// Whitespace around the root element is not document text.
			if depth > 0 {
				t.CharData(tok)
			} else if len(bytes.TrimSpace(tok)) > 0 {
				if sawRoot {
					return junkAfterRoot(dec)
				}
				line, _ := dec.InputPos()
				return &SyntaxError{Phase: PhaseFeed, Line: line, Err: errors.New("text before document element")}
			}
		}
		if err != nil {
			return err
		}
		if err := w.Err(); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
}

// junkAfterRoot reports content following the close of the root element.
func junkAfterRoot(dec *xml.Decoder) error {
	line, _ := dec.InputPos()
	return &SyntaxError{Phase: PhaseFeed, Line: line, Err: errors.New("junk after document element")}
}

// chunkReader feeds the decoder from fixed-size reads of the source and keeps
// track of how the source ended. It implements io.ByteReader so the decoder
// consumes the chunk buffer directly instead of wrapping it in its own.
type chunkReader struct {
	src     io.Reader
	buf     []byte
	pending []byte
	eof     bool
	readErr error
}

const maxEmptyReads = 100

func (r *chunkReader) fill() {
	for i := 0; i < maxEmptyReads; i++ {
		if r.eof || r.readErr != nil {
			return
		}
		n, err := r.src.Read(r.buf)
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			r.readErr = err
		}
		if n > 0 {
			r.pending = r.buf[:n]
			return
		}
	}
	r.readErr = io.ErrNoProgress
}

func (r *chunkReader) ReadByte() (byte, error) {
	if len(r.pending) == 0 {
		r.fill()
		if len(r.pending) == 0 {
			return 0, r.endErr()
		}
	}
	b := r.pending[0]
	r.pending = r.pending[1:]
	return b, nil
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.pending) == 0 {
		r.fill()
		if len(r.pending) == 0 {
			return 0, r.endErr()
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *chunkReader) endErr() error {
	if r.readErr != nil {
		return r.readErr
	}
	return io.EOF
}

// classify turns a decoder error into a ReadError or SyntaxError. A syntax
// error after the source hit EOF belongs to the final flush.
func (r *chunkReader) classify(err error) error {
	if r.readErr != nil {
		return &ReadError{Err: r.readErr}
	}
	phase := PhaseFeed
	if r.eof && len(r.pending) == 0 {
		phase = PhaseFinal
	}
	se := &SyntaxError{Phase: phase, Err: err}
	var xerr *xml.SyntaxError
	if errors.As(err, &xerr) {
		se.Line = xerr.Line
	}
	return se
}
