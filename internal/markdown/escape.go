// Package markdown writes text to a Markdown sink with control characters escaped.
package markdown

import "io"

// Writer escapes Markdown metacharacters before handing bytes to the underlying sink.
// It does not buffer; every call reaches the sink before returning.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Escape returns the escaped form of c.
func Escape(c byte) string {
	switch c {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '\\', '`', '*', '_', '{', '}', '[', ']', '(', ')', '#', '+', '-', '.', '!':
		return "\\" + string(c)
	}
	return string(c)
}

func needsEscape(c byte) bool {
	switch c {
	case '<', '>', '\\', '`', '*', '_', '{', '}', '[', ']', '(', ')', '#', '+', '-', '.', '!':
		return true
	}
	return false
}

// EmitChar writes c, escaped.
func (m *Writer) EmitChar(c byte) {
	if needsEscape(c) {
		m.raw(Escape(c))
		return
	}
	m.rawBytes([]byte{c})
}

// EmitString writes every byte of s, escaped.
func (m *Writer) EmitString(s string) {
	m.emit([]byte(s))
}

// Write escapes p. It reports len(p) on success so it can sit behind io.Copy.
func (m *Writer) Write(p []byte) (int, error) {
	m.emit(p)
	if m.err != nil {
		return 0, m.err
	}
	return len(p), nil
}

// Raw writes s without escaping. Used for the Markdown markup itself.
func (m *Writer) Raw(s string) {
	m.raw(s)
}

// RawByte writes c without escaping.
func (m *Writer) RawByte(c byte) {
	m.rawBytes([]byte{c})
}

// Err returns the first error reported by the sink.
func (m *Writer) Err() error {
	return m.err
}

// emit writes runs of plain bytes in one call and escapes the rest in between.
// Escapable characters are ASCII, so multi-byte UTF-8 sequences pass through intact.
func (m *Writer) emit(p []byte) {
	start := 0
	for i, c := range p {
		if !needsEscape(c) {
			continue
		}
		if start < i {
			m.rawBytes(p[start:i])
		}
		m.raw(Escape(c))
		start = i + 1
	}
	if start < len(p) {
		m.rawBytes(p[start:])
	}
}

func (m *Writer) raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

func (m *Writer) rawBytes(p []byte) {
	if m.err != nil {
		return
	}
	_, m.err = m.w.Write(p)
}
