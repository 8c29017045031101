package decode

import (
	"strings"

	"github.com/simonhull/vcard/internal/dialect"
)

// Unescape removes the backslash escapes known to rules. Unknown sequences
// are kept as they are.
func Unescape(s string, rules dialect.Rules) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if repl, ok := rules.Unescape(s[i+1]); ok {
				b.WriteString(repl)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// SplitComponents splits s on ';' that are not escaped and unescapes each
// component.
func SplitComponents(s string, rules dialect.Rules) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case ';':
			out = append(out, Unescape(s[start:i], rules))
			start = i + 1
		}
	}
	return append(out, Unescape(s[start:], rules))
}

// Escape is the inverse of Unescape for text that is written back. Line
// breaks become "\n" where the dialect knows that escape; otherwise they
// are left for the caller to encode.
func Escape(s string, rules dialect.Rules) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', ';', ',':
			if _, ok := rules.Unescape(c); ok {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			b.WriteByte(c)
		case '\n':
			if _, ok := rules.Unescape('n'); ok {
				b.WriteString(`\n`)
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// JoinComponents escapes each component and joins them with ';'.
func JoinComponents(values []string, rules dialect.Rules) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = Escape(v, rules)
	}
	return strings.Join(escaped, ";")
}
