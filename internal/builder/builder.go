// Package builder turns parser events into structured contact entries.
package builder

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/simonhull/vcard/internal/decode"
	"github.com/simonhull/vcard/internal/types"
)

// Option configures a Builder.
type Option func(*Builder)

// WithGeneratedUIDs assigns a random "urn:uuid:" UID to entries that carry
// no UID property.
func WithGeneratedUIDs() Option {
	return func(b *Builder) {
		b.generateUIDs = true
	}
}

// WithOnEntry hands every finished entry to fn instead of retaining it.
// Entries then returns nil.
func WithOnEntry(fn func(*types.Entry)) Option {
	return func(b *Builder) {
		b.onEntry = fn
	}
}

// Builder is an Interpreter that assembles one Entry per outermost
// BEGIN:VCARD/END:VCARD block.
type Builder struct {
	onEntry      func(*types.Entry)
	current      *types.Entry
	entries      []*types.Entry
	generateUIDs bool
}

var _ types.Interpreter = (*Builder)(nil)

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Entries returns the entries built so far, in input order.
func (b *Builder) Entries() []*types.Entry {
	return b.entries
}

// OnVCardStarted implements types.Interpreter.
func (b *Builder) OnVCardStarted() {}

// OnVCardEnded implements types.Interpreter.
func (b *Builder) OnVCardEnded() {}

// OnEntryStarted implements types.Interpreter.
func (b *Builder) OnEntryStarted() {
	b.current = &types.Entry{}
}

// OnEntryEnded implements types.Interpreter.
func (b *Builder) OnEntryEnded() {
	e := b.current
	if e == nil {
		return
	}
	b.current = nil

	e.DisplayName = displayName(e)
	if e.UID == "" && b.generateUIDs {
		e.UID = "urn:uuid:" + uuid.NewString()
	}

	if b.onEntry != nil {
		b.onEntry(e)
		return
	}
	b.entries = append(b.entries, e)
}

// OnPropertyCreated implements types.Interpreter.
func (b *Builder) OnPropertyCreated(p *types.Property) {
	if b.current == nil {
		return
	}
	Apply(b.current, p)
}

// imProtocols maps vendor IM properties to protocol names.
var imProtocols = map[string]string{
	"X-AIM":            "aim",
	"X-ICQ":            "icq",
	"X-JABBER":         "xmpp",
	"X-MSN":            "msn",
	"X-YAHOO":          "yahoo",
	"X-SKYPE-USERNAME": "skype",
	"X-GOOGLE-TALK":    "gtalk",
	"X-QQ":             "qq",
}

// Apply maps one property onto e. Properties without a typed home, and
// properties whose value could not be decoded, are kept in e.Extensions.
func Apply(e *types.Entry, p *types.Property) { //nolint:gocyclo // One case per property name, kept together
	if p.DecodeErr != nil {
		e.Warnings = append(e.Warnings, types.Warning{
			Property: p.Name,
			Line:     p.Line,
			Message:  fmt.Sprintf("value kept undecoded: %v", p.DecodeErr),
		})
		e.AddExtension(*p)
		return
	}

	if proto, ok := imProtocols[p.Name]; ok {
		addIM(e, p, proto, strings.TrimSpace(p.RawValue))
		return
	}

	switch p.Name {
	case "VERSION":
		if d, err := types.ParseDialect(p.RawValue); err == nil {
			e.Dialect = d
		}
	case "N":
		if e.Name.Family+e.Name.Given+e.Name.Middle+e.Name.Prefix+e.Name.Suffix != "" {
			e.Warnings = append(e.Warnings, types.Warning{Property: p.Name, Line: p.Line, Message: "duplicate N ignored"})
			return
		}
		e.Name.Family = p.Component(0)
		e.Name.Given = p.Component(1)
		e.Name.Middle = p.Component(2)
		e.Name.Prefix = p.Component(3)
		e.Name.Suffix = p.Component(4)
	case "FN":
		if e.Name.Formatted == "" {
			e.Name.Formatted = strings.TrimSpace(p.RawValue)
		}
	case "X-PHONETIC-FIRST-NAME":
		e.Name.PhoneticGiven = p.RawValue
	case "X-PHONETIC-MIDDLE-NAME":
		e.Name.PhoneticMiddle = p.RawValue
	case "X-PHONETIC-LAST-NAME":
		e.Name.PhoneticFamily = p.RawValue
	case "NICKNAME":
		if v := strings.TrimSpace(p.RawValue); v != "" {
			e.Nicknames = append(e.Nicknames, v)
		}
	case "TEL":
		label, primary := labelOf(p)
		e.Phones = append(e.Phones, types.Phone{
			Params:  p.Params,
			Number:  strings.TrimPrefix(strings.TrimSpace(p.RawValue), "tel:"),
			Label:   label,
			Primary: primary,
		})
	case "EMAIL":
		label, primary := labelOf(p)
		e.Emails = append(e.Emails, types.Email{
			Params:  p.Params,
			Address: strings.TrimSpace(p.RawValue),
			Label:   label,
			Primary: primary,
		})
	case "ADR":
		label, primary := labelOf(p)
		e.Addresses = append(e.Addresses, types.Address{
			Params:     p.Params,
			POBox:      p.Component(0),
			Extended:   p.Component(1),
			Street:     p.Component(2),
			Locality:   p.Component(3),
			Region:     p.Component(4),
			PostalCode: p.Component(5),
			Country:    p.Component(6),
			Label:      label,
			Primary:    primary,
		})
	case "ORG":
		label, primary := labelOf(p)
		e.Organizations = append(e.Organizations, types.Organization{
			Params:     p.Params,
			Company:    p.Component(0),
			Department: strings.Join(nonEmpty(p.Values[min(1, len(p.Values)):]), ", "),
			Label:      label,
			Primary:    primary,
		})
	case "TITLE":
		org := orgFor(e, func(o *types.Organization) bool { return o.Title == "" })
		org.Title = p.RawValue
	case "ROLE":
		org := orgFor(e, func(o *types.Organization) bool { return o.Role == "" })
		org.Role = p.RawValue
	case "IMPP":
		proto, handle, ok := strings.Cut(strings.TrimSpace(p.RawValue), ":")
		if !ok {
			proto, handle = "", proto
		}
		if svc := p.Param("X-SERVICE-TYPE"); svc != "" {
			proto = strings.ToLower(svc)
		}
		addIM(e, p, strings.ToLower(proto), handle)
	case "URL":
		label, _ := labelOf(p)
		e.Websites = append(e.Websites, types.Website{
			Params: p.Params,
			URL:    strings.TrimSpace(p.RawValue),
			Label:  label,
		})
	case "NOTE":
		e.Notes = append(e.Notes, p.RawValue)
	case "PHOTO", "LOGO":
		addPhoto(e, p)
	case "BDAY":
		e.Birthday = strings.TrimSpace(p.RawValue)
	case "UID":
		e.UID = strings.TrimSpace(p.RawValue)
	case "AGENT":
		e.Agents = append(e.Agents, p.RawValue)
	default:
		e.AddExtension(*p)
	}
}

// labelOf reads the label from TYPE values. A vCard 4.0 PREF parameter
// also marks the item primary.
func labelOf(p *types.Property) (types.Label, bool) {
	label, primary := types.ParseLabel(p.Types())
	if p.Params.Contains("PREF") {
		primary = true
	}
	return label, primary
}

func addIM(e *types.Entry, p *types.Property, proto, handle string) {
	if handle == "" {
		return
	}
	label, primary := labelOf(p)
	e.IMs = append(e.IMs, types.IM{
		Params:   p.Params,
		Protocol: proto,
		Handle:   handle,
		Label:    label,
		Primary:  primary,
	})
}

// orgFor returns the last organization accepting a field, appending an
// empty one when none does.
func orgFor(e *types.Entry, accepts func(*types.Organization) bool) *types.Organization {
	if n := len(e.Organizations); n > 0 && accepts(&e.Organizations[n-1]) {
		return &e.Organizations[n-1]
	}
	e.Organizations = append(e.Organizations, types.Organization{})
	return &e.Organizations[len(e.Organizations)-1]
}

func addPhoto(e *types.Entry, p *types.Property) {
	photo := types.Photo{
		Property: p.Name,
		Primary:  p.Params.Contains("PREF") || p.Params.Has("TYPE", "PREF"),
	}
	for _, t := range p.Types() {
		if m := types.MIMETypeFor(t); m != "" {
			photo.MIMEType = m
			break
		}
	}
	if m := p.Param("MEDIATYPE"); m != "" {
		photo.MIMEType = strings.ToLower(m)
	}

	switch value := strings.TrimSpace(p.RawValue); {
	case p.Bytes != nil:
		photo.Data = p.Bytes
	case strings.HasPrefix(strings.ToLower(value), "data:"):
		mime, data, err := parseDataURI(value)
		if err != nil {
			e.Warnings = append(e.Warnings, types.Warning{Property: p.Name, Line: p.Line, Message: err.Error()})
			return
		}
		photo.Data = data
		if mime != "" {
			photo.MIMEType = mime
		}
	case value != "":
		photo.URL = value
	default:
		return
	}
	e.Photos = append(e.Photos, photo)
}

// parseDataURI decodes an RFC 2397 "data:" URI.
func parseDataURI(s string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", nil, errors.New("data URI without ','")
	}

	isBase64 := false
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		meta, isBase64 = m, true
	}
	mime, _, _ := strings.Cut(meta, ";")
	mime = strings.ToLower(strings.TrimSpace(mime))

	if isBase64 {
		data, err := decode.Base64(payload)
		if err != nil {
			return "", nil, fmt.Errorf("data URI: %w", err)
		}
		return mime, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI: %w", err)
	}
	return mime, []byte(text), nil
}

// displayName picks the best available display name.
func displayName(e *types.Entry) string {
	if e.Name.Formatted != "" {
		return e.Name.Formatted
	}
	if s := e.Name.Join(); s != "" {
		return s
	}
	phonetic := types.Name{
		Given:  e.Name.PhoneticGiven,
		Middle: e.Name.PhoneticMiddle,
		Family: e.Name.PhoneticFamily,
	}
	if s := phonetic.Join(); s != "" {
		return s
	}
	for _, o := range e.Organizations {
		if o.Company != "" {
			return o.Company
		}
	}
	if len(e.Emails) > 0 {
		return e.Emails[0].Address
	}
	if len(e.Phones) > 0 {
		return e.Phones[0].Number
	}
	return ""
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
