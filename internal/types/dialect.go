package types

import (
	"fmt"
	"strings"
)

// Dialect identifies one of the vCard text grammars.
//
// The dialect decides how parameters are written, which escape sequences are
// recognized and which charset applies when none is declared.
type Dialect int

const (
	// DialectUnknown is the zero value and means "not decided yet".
	DialectUnknown Dialect = iota
	// V21 is the vCard 2.1 de facto format (versit consortium).
	V21
	// V30 is vCard 3.0 as defined by RFC 2426.
	V30
	// V40 is vCard 4.0 as defined by RFC 6350.
	V40
)

// String returns the VERSION property value for the dialect.
func (d Dialect) String() string {
	switch d {
	case V21:
		return "2.1"
	case V30:
		return "3.0"
	case V40:
		return "4.0"
	case DialectUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Valid reports whether d is one of V21, V30 or V40.
func (d Dialect) Valid() bool {
	return d == V21 || d == V30 || d == V40
}

// ParseDialect maps a VERSION property value to a Dialect.
//
// Surrounding whitespace is ignored. Any value other than "2.1", "3.0" or
// "4.0" yields an UnsupportedVersionError.
func ParseDialect(version string) (Dialect, error) {
	switch strings.TrimSpace(version) {
	case "2.1":
		return V21, nil
	case "3.0":
		return V30, nil
	case "4.0":
		return V40, nil
	}
	return DialectUnknown, &UnsupportedVersionError{Version: strings.TrimSpace(version)}
}
