package types

import (
	"errors"
	"fmt"
)

// MalformedLineError is returned when a logical line cannot be split into
// a property, or when a line appears where no property is expected.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed line %q: %s", e.Line, truncate(e.Text, 40), e.Reason)
}

// UnbalancedBeginEndError is returned for an END without a matching BEGIN,
// or for content found before the first BEGIN:VCARD.
type UnbalancedBeginEndError struct {
	Line   int
	Reason string
}

func (e *UnbalancedBeginEndError) Error() string {
	return fmt.Sprintf("line %d: unbalanced BEGIN/END: %s", e.Line, e.Reason)
}

// UnterminatedEntryError is returned when the input ends while a
// BEGIN:VCARD block is still open.
type UnterminatedEntryError struct {
	// Line of the outermost BEGIN:VCARD that was never closed.
	Line  int
	Depth int
}

func (e *UnterminatedEntryError) Error() string {
	return fmt.Sprintf("line %d: unexpected end of input: BEGIN:VCARD not terminated (depth %d)", e.Line, e.Depth)
}

// UnsupportedVersionError is returned when VERSION names a dialect other than
// 2.1, 3.0 or 4.0, or when a parameter uses a form the active dialect cannot
// express.
type UnsupportedVersionError struct {
	Line    int
	Version string  // Declared VERSION value, if that was the problem
	Param   string  // Offending parameter text, if that was the problem
	Dialect Dialect // Active dialect when Param was rejected
}

func (e *UnsupportedVersionError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("line %d: parameter %q not allowed in vCard %s", e.Line, e.Param, e.Dialect)
	}
	return fmt.Sprintf("line %d: unsupported vCard version %q", e.Line, e.Version)
}

// EncodingDecodeError records a failure to decode one property value.
//
// It is recoverable: by default the property is still delivered with its raw
// value and this error attached as Property.DecodeErr.
type EncodingDecodeError struct {
	Property string
	Line     int
	Encoding string // Transfer encoding ("QUOTED-PRINTABLE", "BASE64"), empty if none
	Charset  string // Charset in effect, empty if decoding failed before charset conversion
	Err      error
}

func (e *EncodingDecodeError) Error() string {
	what := e.Encoding
	if what == "" {
		what = "charset " + e.Charset
	}
	return fmt.Sprintf("line %d: %s: cannot decode %s value: %v", e.Line, e.Property, what, e.Err)
}

func (e *EncodingDecodeError) Unwrap() error {
	return e.Err
}

// CancellationError is returned when a parse is cancelled before it finished.
type CancellationError struct {
	Line  int
	Cause error // context cause when cancelled through a context, otherwise nil
}

func (e *CancellationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("line %d: parse cancelled: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("line %d: parse cancelled", e.Line)
}

func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// IsStructural reports whether err means the stream itself cannot be trusted:
// malformed lines, unbalanced or unterminated blocks, unsupported versions.
func IsStructural(err error) bool {
	var (
		malformed   *MalformedLineError
		unbalanced  *UnbalancedBeginEndError
		unterminate *UnterminatedEntryError
		version     *UnsupportedVersionError
	)
	return errors.As(err, &malformed) || errors.As(err, &unbalanced) ||
		errors.As(err, &unterminate) || errors.As(err, &version)
}

// Warning represents a non-fatal issue encountered while building an entry.
//
// Warnings are collected in Entry.Warnings. A host typically surfaces them
// next to otherwise usable contact data.
type Warning struct {
	Property string // Property name the warning refers to
	Message  string
	Line     int // Physical line where the property started (0 if not applicable)
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s (at line %d): %s", w.Property, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Property, w.Message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
