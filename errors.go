package vcard

import (
	"github.com/simonhull/vcard/internal/types"
)

// MalformedLineError is an alias to types.MalformedLineError.
// Re-exporting from internal/types to maintain public API.
type MalformedLineError = types.MalformedLineError

// UnbalancedBeginEndError is an alias to types.UnbalancedBeginEndError.
// Re-exporting from internal/types to maintain public API.
type UnbalancedBeginEndError = types.UnbalancedBeginEndError

// UnterminatedEntryError is an alias to types.UnterminatedEntryError.
// Re-exporting from internal/types to maintain public API.
type UnterminatedEntryError = types.UnterminatedEntryError

// UnsupportedVersionError is an alias to types.UnsupportedVersionError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedVersionError = types.UnsupportedVersionError

// EncodingDecodeError is an alias to types.EncodingDecodeError.
// Re-exporting from internal/types to maintain public API.
type EncodingDecodeError = types.EncodingDecodeError

// CancellationError is an alias to types.CancellationError.
// Re-exporting from internal/types to maintain public API.
type CancellationError = types.CancellationError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning

// IsStructural reports whether err means the input itself is broken, as
// opposed to an I/O failure, a cancellation or a single undecodable value.
func IsStructural(err error) bool {
	return types.IsStructural(err)
}
