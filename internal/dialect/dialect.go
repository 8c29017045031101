// Package dialect holds the per-version rules that govern vCard parsing.
//
// Rules are registered by the per-dialect files during initialization and
// looked up with For. The table is immutable after init.
package dialect

import (
	"github.com/simonhull/vcard/internal/types"
)

// Rules describes how one vCard version writes parameters and values.
type Rules struct {
	// Escapes maps the character following a backslash to its replacement.
	// Sequences not listed are kept literally, backslash included.
	Escapes map[byte]string

	// Encodings holds the upper-cased ENCODING values the dialect accepts.
	Encodings map[string]bool

	// DefaultCharset applies to values without a CHARSET parameter.
	// Empty means "use the caller-configured default".
	DefaultCharset string

	Dialect types.Dialect

	// BareParams allows parameters without "NAME=" (TEL;HOME;VOICE:...).
	BareParams bool

	// Quoting allows double-quoted parameter values that may contain ':',
	// ';' and ','.
	Quoting bool

	// MultiValued splits parameter values on unquoted ','.
	MultiValued bool

	// CaretEscapes enables RFC 6868 ^n, ^^ and ^' in parameter values.
	CaretEscapes bool

	// FoldKeepsSpace keeps the whitespace that starts a folded
	// continuation line instead of removing it.
	FoldKeepsSpace bool

	// HonorCharset makes the CHARSET parameter select the value charset.
	// When false the value is always UTF-8 and CHARSET is ignored.
	HonorCharset bool
}

// rules maps dialects to their rules.
var rules = make(map[types.Dialect]Rules)

// register records the rules for a dialect.
// This is called by the per-dialect files during initialization.
func register(r Rules) {
	rules[r.Dialect] = r
}

// For returns the rules for d. Unknown dialects get the vCard 2.1 rules,
// which are the most permissive.
func For(d types.Dialect) Rules {
	if r, ok := rules[d]; ok {
		return r
	}
	return rules[types.V21]
}

// Unescape reports the replacement for the escape sequence "\c".
func (r Rules) Unescape(c byte) (string, bool) {
	s, ok := r.Escapes[c]
	return s, ok
}
