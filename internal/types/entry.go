// Package types provides core data structures for parsed vCard data.
//
// This package defines the Property, Entry, Dialect and error types shared by
// the parser engine, the interpreters and the writer.
package types

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Entry is one structured contact, built from one BEGIN:VCARD/END:VCARD block.
type Entry struct {
	// Extensions holds every property that has no typed home, keyed by
	// upper-cased name, in source order. Vendor "X-" properties land here.
	Extensions map[string][]Property

	Name Name

	// DisplayName is FN when present, otherwise derived from N, then from
	// the first organization, email or phone.
	DisplayName string
	Birthday    string
	UID         string

	Nicknames     []string
	Phones        []Phone
	Emails        []Email
	Addresses     []Address
	Organizations []Organization
	IMs           []IM
	Websites      []Website
	Notes         []string
	Photos        []Photo

	// Agents holds nested vCards (AGENT property) as raw text.
	Agents []string

	// Warnings encountered while decoding this entry's properties.
	Warnings []Warning

	Dialect Dialect
}

// Name is the structured N property plus FN and phonetic readings.
type Name struct {
	Family    string
	Given     string
	Middle    string
	Prefix    string
	Suffix    string
	Formatted string // FN

	PhoneticFamily string
	PhoneticGiven  string
	PhoneticMiddle string
}

// IsEmpty reports whether no name component is set.
func (n Name) IsEmpty() bool {
	return n.Family == "" && n.Given == "" && n.Middle == "" &&
		n.Prefix == "" && n.Suffix == "" && n.Formatted == ""
}

// Join renders the structured name in western order:
// prefix, given, middle, family, suffix. Empty parts are skipped.
func (n Name) Join() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{n.Prefix, n.Given, n.Middle, n.Family, n.Suffix} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Phone is a TEL property.
type Phone struct {
	Params  Params
	Number  string
	Label   Label
	Primary bool
}

// Email is an EMAIL property.
type Email struct {
	Params  Params
	Address string
	Label   Label
	Primary bool
}

// Address is an ADR property.
type Address struct {
	Params     Params
	POBox      string
	Extended   string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
	Label      Label
	Primary    bool
}

// Formatted joins the non-empty address parts with ", ".
func (a Address) Formatted() string {
	parts := make([]string, 0, 7)
	for _, s := range []string{a.POBox, a.Extended, a.Street, a.Locality, a.Region, a.PostalCode, a.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Organization combines ORG, TITLE and ROLE.
type Organization struct {
	Params     Params
	Company    string
	Department string
	Title      string
	Role       string
	Label      Label
	Primary    bool
}

// IM is an instant-messaging handle from IMPP or a vendor X- property.
type IM struct {
	Params   Params
	Protocol string // "aim", "xmpp", "skype", ...
	Handle   string
	Label    Label
	Primary  bool
}

// Website is a URL property.
type Website struct {
	Params Params
	URL    string
	Label  Label
}

// Extension returns the extension properties stored under name.
func (e *Entry) Extension(name string) []Property {
	if e.Extensions == nil {
		return nil
	}
	return e.Extensions[strings.ToUpper(name)]
}

// AddExtension stores p in the extension map under its name.
func (e *Entry) AddExtension(p Property) {
	if e.Extensions == nil {
		e.Extensions = make(map[string][]Property)
	}
	e.Extensions[p.Name] = append(e.Extensions[p.Name], p)
}

// ExtensionNames returns the extension names in sorted order.
func (e *Entry) ExtensionNames() []string {
	return slices.Sorted(maps.Keys(e.Extensions))
}

// AllExtensions iterates over extensions in source order.
func (e *Entry) AllExtensions() iter.Seq[Property] {
	all := make([]Property, 0, len(e.Extensions))
	for _, name := range e.ExtensionNames() {
		all = append(all, e.Extensions[name]...)
	}
	slices.SortStableFunc(all, func(a, b Property) int { return a.Line - b.Line })
	return slices.Values(all)
}

// PrimaryPhoto returns the first primary photo, else the first photo.
func (e *Entry) PrimaryPhoto() (Photo, bool) {
	for _, p := range e.Photos {
		if p.Primary {
			return p, true
		}
	}
	if len(e.Photos) > 0 {
		return e.Photos[0], true
	}
	return Photo{}, false
}
