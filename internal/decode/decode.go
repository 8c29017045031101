// Package decode turns raw property values into text or bytes.
//
// Decoding runs in three steps: transfer decoding (quoted-printable or
// base64), charset conversion to UTF-8, and removal of the dialect's
// backslash escapes. Escapes are only removed from values without a
// transfer encoding; 7BIT and 8BIT count as none. A failure in any step is
// reported for the one property only.
package decode

import (
	"fmt"
	"strings"

	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/types"
)

// Transfer encodings.
const (
	EncodingQuotedPrintable = "QUOTED-PRINTABLE"
	EncodingBase64          = "BASE64"
	EncodingB               = "B"
)

// Property decodes p in place.
//
// On success RawValue holds the unescaped text (or the base64 text, with
// Bytes holding the payload) and Values the unescaped ';' components.
// Quoted-printable text is split on every ';' and not unescaped. A transfer
// encoding the dialect does not know is a failure. On failure p keeps its
// raw value, p.DecodeErr is set and the same error is returned.
func Property(p *types.Property, rules dialect.Rules, defaultCharset string) *types.EncodingDecodeError {
	enc := p.Encoding()
	if enc != "" && !rules.Encodings[enc] {
		return fail(p, enc, "", fmt.Errorf("transfer encoding not known to vCard %s", rules.Dialect))
	}

	if enc == EncodingBase64 || enc == EncodingB {
		text := stripSpace(p.RawValue)
		data, err := Base64(text)
		if err != nil {
			return fail(p, enc, "", err)
		}
		p.RawValue = text
		p.Bytes = data
		p.Values = []string{text}
		return nil
	}

	data := []byte(p.RawValue)
	if enc == EncodingQuotedPrintable {
		var err error
		if data, err = QuotedPrintable(p.RawValue); err != nil {
			return fail(p, enc, "", err)
		}
	}

	charset := CharsetFor(p, rules, defaultCharset)
	text, err := ToUTF8(data, charset)
	if err != nil {
		return fail(p, "", charset, err)
	}

	if enc == EncodingQuotedPrintable {
		// Backslash escapes only apply to values without a transfer encoding.
		p.Values = strings.Split(text, ";")
		p.RawValue = text
		return nil
	}

	p.Values = SplitComponents(text, rules)
	p.RawValue = Unescape(text, rules)
	return nil
}

// CharsetFor returns the charset a property value is written in.
//
// Dialects that honor CHARSET use the parameter when present and fall back
// to defaultCharset, then UTF-8. The other dialects are always UTF-8.
func CharsetFor(p *types.Property, rules dialect.Rules, defaultCharset string) string {
	if !rules.HonorCharset {
		if rules.DefaultCharset != "" {
			return rules.DefaultCharset
		}
		return "UTF-8"
	}
	if cs := strings.TrimSpace(p.Param("CHARSET")); cs != "" {
		return cs
	}
	if defaultCharset != "" {
		return defaultCharset
	}
	return "UTF-8"
}

func fail(p *types.Property, enc, charset string, err error) *types.EncodingDecodeError {
	e := &types.EncodingDecodeError{
		Property: p.Name,
		Line:     p.Line,
		Encoding: enc,
		Charset:  charset,
		Err:      err,
	}
	p.DecodeErr = e
	p.Values = []string{p.RawValue}
	return e
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}
