package vcard

import (
	"github.com/simonhull/vcard/internal/detect"
	"github.com/simonhull/vcard/internal/types"
)

// Dialect is an alias to types.Dialect.
// Re-exporting from internal/types to maintain public API.
type Dialect = types.Dialect

// Re-export all dialect constants.
const (
	DialectUnknown = types.DialectUnknown
	V21            = types.V21
	V30            = types.V30
	V40            = types.V40
)

// ParseDialect is a wrapper around types.ParseDialect.
// It accepts the VERSION values "2.1", "3.0" and "4.0".
func ParseDialect(version string) (Dialect, error) {
	return types.ParseDialect(version)
}

// Detection is an alias to detect.Detection.
type Detection = detect.Detection

// Source is an alias to detect.Source.
type Source = detect.Source

// Re-export all source constants.
const (
	SourceGeneric        = detect.SourceGeneric
	SourceApple          = detect.SourceApple
	SourceDocomo         = detect.SourceDocomo
	SourceJapaneseMobile = detect.SourceJapaneseMobile
	SourceWindowsMobile  = detect.SourceWindowsMobile
)
