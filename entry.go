package vcard

import (
	"github.com/simonhull/vcard/internal/types"
)

// Entry is an alias to types.Entry.
// Re-exporting from internal/types to maintain public API.
type Entry = types.Entry

// Name is an alias to types.Name.
type Name = types.Name

// Phone is an alias to types.Phone.
type Phone = types.Phone

// Email is an alias to types.Email.
type Email = types.Email

// Address is an alias to types.Address.
type Address = types.Address

// Organization is an alias to types.Organization.
type Organization = types.Organization

// IM is an alias to types.IM.
type IM = types.IM

// Website is an alias to types.Website.
type Website = types.Website
