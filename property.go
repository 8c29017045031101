package vcard

import (
	"github.com/simonhull/vcard/internal/types"
)

// Property is an alias to types.Property.
// Re-exporting from internal/types to maintain public API.
type Property = types.Property

// Params is an alias to types.Params.
// Re-exporting from internal/types to maintain public API.
type Params = types.Params

// Interpreter is an alias to types.Interpreter.
//
// An Interpreter receives parser events synchronously, on the goroutine
// that called Parse, in this order:
//
//	OnVCardStarted
//	  OnEntryStarted, OnPropertyCreated..., OnEntryEnded   (per entry)
//	OnVCardEnded
//
// OnVCardStarted and OnVCardEnded are not delivered for empty input.
// OnVCardEnded is not delivered when parsing fails or is cancelled.
type Interpreter = types.Interpreter
