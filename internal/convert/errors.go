package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrReadFailure marks errors reported by the byte source.
	ErrReadFailure = errors.New("read failure")
	// ErrMalformedDocument marks XML the tokenizer rejected.
	ErrMalformedDocument = errors.New("malformed document")
)

// ReadError wraps an error returned by the byte source.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read content: %v", e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrReadFailure, e.Err}
}

// Phase tells where the tokenizer failed.
type Phase int

const (
	// PhaseFeed is a failure while input was still arriving.
	PhaseFeed Phase = iota
	// PhaseFinal is a failure after the source reported end of data:
	// unclosed elements, a truncated document or no root element at all.
	PhaseFinal
)

func (p Phase) String() string {
	if p == PhaseFinal {
		return "final flush"
	}
	return "feed"
}

// SyntaxError reports malformed XML.
type SyntaxError struct {
	Phase Phase
	Line  int
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed document (%s) at line %d: %v", e.Phase, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed document (%s): %v", e.Phase, e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}
