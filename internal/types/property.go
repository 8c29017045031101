package types

import (
	"iter"
	"slices"
	"strings"
)

// Params holds the parameters of one property.
//
// Names are case-insensitive and stored upper-cased. Each name maps to an
// ordered list of values, and names keep the order in which they first
// appeared on the line so that a property can be written back the way it
// was read.
//
// The zero value is an empty parameter set ready to use.
type Params struct {
	names  []string
	values map[string][]string
}

// Add appends values to the parameter name.
func (p *Params) Add(name string, values ...string) {
	name = strings.ToUpper(name)
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = append(p.values[name], values...)
}

// Get returns a copy of all values for name, or nil.
func (p *Params) Get(name string) []string {
	if p.values == nil {
		return nil
	}
	values := p.values[strings.ToUpper(name)]
	if values == nil {
		return nil
	}
	return slices.Clone(values)
}

// First returns the first value for name, or "".
func (p *Params) First(name string) string {
	if p.values == nil {
		return ""
	}
	values := p.values[strings.ToUpper(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Has reports whether name carries value. The comparison ignores case.
func (p *Params) Has(name, value string) bool {
	if p.values == nil {
		return false
	}
	for _, v := range p.values[strings.ToUpper(name)] {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// Contains reports whether the parameter name is present at all.
func (p *Params) Contains(name string) bool {
	if p.values == nil {
		return false
	}
	_, ok := p.values[strings.ToUpper(name)]
	return ok
}

// Len returns the number of distinct parameter names.
func (p *Params) Len() int {
	return len(p.names)
}

// All iterates over parameters in first-seen order.
//
// The yielded slices must not be modified.
func (p *Params) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, name := range p.names {
			if !yield(name, p.values[name]) {
				return
			}
		}
	}
}

// Without returns a copy of p with the given names removed.
func (p *Params) Without(names ...string) Params {
	var out Params
	for name, values := range p.All() {
		if slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, name) }) {
			continue
		}
		out.Add(name, values...)
	}
	return out
}

// Property is one named, parameterized field of a vCard entry.
//
// A Property is fully populated before it is handed to an Interpreter and is
// never modified by the parser afterwards, so consumers may retain it.
//
// If the property carries ENCODING=BASE64 (or ENCODING=B), Bytes holds the
// decoded payload and RawValue the base64 text. Otherwise RawValue is the
// decoded, unescaped text and Bytes is nil.
type Property struct {
	// DecodeErr is non-nil when the value could not be decoded. RawValue then
	// holds the value exactly as it appeared in the input.
	DecodeErr error

	Name   string   // Upper-cased property name, e.g. "TEL"
	Groups []string // Group labels preceding the name, in order

	Params Params

	RawValue string

	// Encoded is the value exactly as it appeared in the input, after
	// unfolding and before any decoding. It is empty for properties not
	// read from a stream.
	Encoded string

	// Values is the value split on unescaped ';' with every component
	// unescaped. Structured properties (N, ADR, ORG) read their fields here.
	Values []string

	Bytes []byte

	// Line is the physical line number where the property started.
	Line int

	// Dialect whose rules the property was read with.
	Dialect Dialect
}

// Param returns the first value of the named parameter.
func (p *Property) Param(name string) string {
	return p.Params.First(name)
}

// Types returns the TYPE parameter values.
//
// Comma separated lists are flattened so that "TYPE=WORK,FAX" and
// "TYPE=WORK;TYPE=FAX" give the same result.
func (p *Property) Types() []string {
	var out []string
	for _, v := range p.Params.Get("TYPE") {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Encoding returns the upper-cased ENCODING parameter, or "".
func (p *Property) Encoding() string {
	return strings.ToUpper(p.Params.First("ENCODING"))
}

// IsBinary reports whether the value is carried as base64.
func (p *Property) IsBinary() bool {
	enc := p.Encoding()
	return enc == "BASE64" || enc == "B"
}

// Component returns the i-th ';' component of the value, or "".
func (p *Property) Component(i int) string {
	if i < 0 || i >= len(p.Values) {
		return ""
	}
	return p.Values[i]
}

// Group returns the group path joined with '.', or "".
func (p *Property) Group() string {
	return strings.Join(p.Groups, ".")
}
