package vcard

import (
	"github.com/simonhull/vcard/internal/types"
)

// Photo is an alias to types.Photo.
// Re-exporting from internal/types to maintain public API.
type Photo = types.Photo

// Label is an alias to types.Label.
// Re-exporting from internal/types to maintain public API.
type Label = types.Label

// LabelType is an alias to types.LabelType.
// Re-exporting from internal/types to maintain public API.
type LabelType = types.LabelType

// Re-export all label type constants
const (
	LabelOther = types.LabelOther
	LabelHome  = types.LabelHome
	LabelWork  = types.LabelWork
	LabelCell  = types.LabelCell
	LabelFax   = types.LabelFax
)
