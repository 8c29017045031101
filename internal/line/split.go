// Package line splits one logical vCard line into a property.
//
// A logical line has the shape
//
//	[group "."]* name *(";" param) ":" value
//
// The value is returned untouched; decoding is left to the decode package.
package line

import (
	"strings"

	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/types"
)

// Split decomposes text into group path, name, parameters and raw value
// using the parameter syntax of rules. num is the physical line number used
// in errors.
func Split(text string, num int, rules dialect.Rules) (*types.Property, error) {
	colon, err := findColon(text, rules.Quoting)
	if err != nil {
		return nil, &types.MalformedLineError{Line: num, Text: text, Reason: err.Error()}
	}

	segments := splitUnquoted(text[:colon], ';', rules.Quoting)

	p := &types.Property{
		RawValue: text[colon+1:],
		Encoded:  text[colon+1:],
		Line:     num,
		Dialect:  rules.Dialect,
	}

	groups, name, ok := splitName(segments[0])
	if !ok {
		return nil, &types.MalformedLineError{Line: num, Text: text, Reason: "invalid property name"}
	}
	p.Name = name
	p.Groups = groups

	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if err := addParam(&p.Params, seg, rules); err != nil {
			err.Line = num
			return nil, err
		}
	}

	return p, nil
}

type splitError string

func (e splitError) Error() string { return string(e) }

// findColon returns the index of the first ':' outside a quoted parameter
// value. Quotes only count when quoting is enabled.
func findColon(text string, quoting bool) (int, error) {
	inQuote := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			if quoting {
				inQuote = !inQuote
			}
		case ':':
			if !inQuote {
				return i, nil
			}
		}
	}
	if inQuote {
		return -1, splitError("unterminated quoted parameter value")
	}
	return -1, splitError("missing ':'")
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes
// when quoting is enabled.
func splitUnquoted(s string, sep byte, quoting bool) []string {
	var out []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if quoting {
				inQuote = !inQuote
			}
		case sep:
			if !inQuote {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// splitName parses "group.group.NAME". The name is upper-cased, groups keep
// their case.
func splitName(s string) (groups []string, name string, ok bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	for _, part := range parts {
		if !validToken(part) {
			return nil, "", false
		}
	}
	if len(parts) > 1 {
		groups = parts[:len(parts)-1]
	}
	return groups, strings.ToUpper(parts[len(parts)-1]), true
}

func validToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// addParam parses one parameter segment into params.
func addParam(params *types.Params, seg string, rules dialect.Rules) *types.UnsupportedVersionError {
	eq := strings.IndexByte(seg, '=')
	if eq < 0 {
		if !rules.BareParams {
			return &types.UnsupportedVersionError{Param: seg, Dialect: rules.Dialect}
		}
		params.Add(dialect.BareParamName(seg), seg)
		return nil
	}

	name := strings.TrimSpace(seg[:eq])
	if !validToken(name) {
		return &types.UnsupportedVersionError{Param: seg, Dialect: rules.Dialect}
	}
	raw := strings.TrimSpace(seg[eq+1:])

	if !rules.MultiValued {
		params.Add(name, raw)
		return nil
	}

	for _, v := range splitUnquoted(raw, ',', rules.Quoting) {
		v = strings.TrimSpace(v)
		if rules.Quoting && len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		} else if rules.Quoting && strings.Contains(v, `"`) {
			return &types.UnsupportedVersionError{Param: seg, Dialect: rules.Dialect}
		}
		if rules.CaretEscapes {
			v = uncaret(v)
		}
		params.Add(name, v)
	}
	return nil
}

// uncaret applies RFC 6868 parameter value escapes.
func uncaret(s string) string {
	if !strings.Contains(s, "^") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '^' && i+1 < len(s) {
			switch s[i+1] {
			case 'n', 'N':
				b.WriteByte('\n')
				i++
				continue
			case '^':
				b.WriteByte('^')
				i++
				continue
			case '\'':
				b.WriteByte('"')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
