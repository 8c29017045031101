// Package writer serializes entries back to vCard text.
//
// Output uses CRLF line endings and folds lines at 75 octets without
// splitting UTF-8 sequences. vCard 2.1 lines are only folded before
// existing whitespace. vCard 2.1 output carries non-ASCII and
// multi-line values as quoted-printable in the configured charset.
package writer

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/vcard/internal/decode"
	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/types"
)

// maxLine is the folding limit in octets, excluding the line break.
const maxLine = 75

// Config controls serialization.
type Config struct {
	// Charset for vCard 2.1 quoted-printable values. Empty means UTF-8.
	Charset string

	// Dialect to write. DialectUnknown writes each entry in the dialect it
	// was read in, falling back to 3.0.
	Dialect types.Dialect
}

// vendorIM maps IM protocols to the vendor properties older dialects use.
var vendorIM = map[string]string{
	"aim":   "X-AIM",
	"icq":   "X-ICQ",
	"xmpp":  "X-JABBER",
	"msn":   "X-MSN",
	"yahoo": "X-YAHOO",
	"skype": "X-SKYPE-USERNAME",
	"gtalk": "X-GOOGLE-TALK",
	"qq":    "X-QQ",
}

// Encode writes entries to w.
func Encode(w io.Writer, entries []*types.Entry, cfg Config) error {
	charset := cfg.Charset
	if charset == "" {
		charset = "UTF-8"
	}
	if !decode.KnownCharset(charset) {
		return fmt.Errorf("unknown charset %q", charset)
	}

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		d := cfg.Dialect
		if !d.Valid() {
			d = e.Dialect
		}
		if !d.Valid() {
			d = types.V30
		}
		enc := &encoder{
			w:       bw,
			rules:   dialect.For(d),
			charset: charset,
		}
		enc.entry(e)
	}
	return bw.Flush()
}

// field is one property ready to be written.
type field struct {
	params types.Params
	name   string
	groups []string
	values []string // unescaped ';' components
	data   []byte   // binary payload, written as base64
}

type encoder struct {
	w       *bufio.Writer
	charset string
	rules   dialect.Rules
}

func (enc *encoder) version() types.Dialect {
	return enc.rules.Dialect
}

func (enc *encoder) entry(e *types.Entry) { //nolint:gocyclo // One block per entry field, kept in output order
	enc.raw("BEGIN:VCARD")
	enc.raw("VERSION:" + enc.version().String())

	n := e.Name
	if !n.IsEmpty() || enc.version() != types.V40 {
		enc.text("N", n.Family, n.Given, n.Middle, n.Prefix, n.Suffix)
	}
	fn := n.Formatted
	if fn == "" {
		fn = e.DisplayName
	}
	if fn != "" || enc.version() != types.V21 {
		enc.text("FN", fn)
	}
	for _, ph := range [][2]string{
		{"X-PHONETIC-FIRST-NAME", n.PhoneticGiven},
		{"X-PHONETIC-MIDDLE-NAME", n.PhoneticMiddle},
		{"X-PHONETIC-LAST-NAME", n.PhoneticFamily},
	} {
		if ph[1] != "" {
			enc.text(ph[0], ph[1])
		}
	}
	for _, nick := range e.Nicknames {
		enc.text("NICKNAME", nick)
	}

	for _, p := range e.Phones {
		enc.write(field{name: "TEL", params: typed(p.Params, p.Label, p.Primary), values: []string{p.Number}})
	}
	for _, m := range e.Emails {
		enc.write(field{name: "EMAIL", params: typed(m.Params, m.Label, m.Primary), values: []string{m.Address}})
	}
	for _, a := range e.Addresses {
		enc.write(field{
			name:   "ADR",
			params: typed(a.Params, a.Label, a.Primary),
			values: []string{a.POBox, a.Extended, a.Street, a.Locality, a.Region, a.PostalCode, a.Country},
		})
	}
	for _, o := range e.Organizations {
		if o.Company != "" || o.Department != "" {
			values := []string{o.Company}
			if o.Department != "" {
				values = append(values, o.Department)
			}
			enc.write(field{name: "ORG", params: typed(o.Params, o.Label, o.Primary), values: values})
		}
		if o.Title != "" {
			enc.text("TITLE", o.Title)
		}
		if o.Role != "" {
			enc.text("ROLE", o.Role)
		}
	}
	for _, im := range e.IMs {
		enc.im(im)
	}
	for _, site := range e.Websites {
		enc.write(field{name: "URL", params: typed(site.Params, site.Label, false), values: []string{site.URL}})
	}
	for _, note := range e.Notes {
		enc.text("NOTE", note)
	}
	if e.Birthday != "" {
		enc.text("BDAY", e.Birthday)
	}
	if e.UID != "" {
		enc.text("UID", e.UID)
	}
	for _, photo := range e.Photos {
		enc.photo(photo)
	}
	for _, agent := range e.Agents {
		enc.agent(agent)
	}
	for p := range e.AllExtensions() {
		enc.extension(p)
	}

	enc.raw("END:VCARD")
}

// typed returns the parameters to write for a labeled item. Parameters
// read from the input are kept. Items built in code get TYPE from their
// label.
func typed(params types.Params, label types.Label, primary bool) types.Params {
	out := params.Without("ENCODING", "CHARSET", "VALUE")
	if out.Len() > 0 {
		return out
	}
	switch {
	case label.Type != types.LabelOther:
		out.Add("TYPE", label.Type.String())
	case label.Custom != "":
		out.Add("TYPE", "X-"+label.Custom)
	}
	if primary {
		out.Add("TYPE", "PREF")
	}
	return out
}

func (enc *encoder) text(name string, values ...string) {
	enc.write(field{name: name, values: values})
}

func (enc *encoder) im(im types.IM) {
	if vendor, ok := vendorIM[im.Protocol]; ok && enc.version() != types.V40 {
		enc.write(field{name: vendor, params: im.Params.Without("X-SERVICE-TYPE"), values: []string{im.Handle}})
		return
	}
	value := im.Handle
	if im.Protocol != "" {
		value = im.Protocol + ":" + im.Handle
	}
	enc.write(field{name: "IMPP", params: im.Params, values: []string{value}})
}

func (enc *encoder) photo(p types.Photo) {
	f := field{name: p.Property}
	if f.name == "" {
		f.name = "PHOTO"
	}

	if len(p.Data) == 0 {
		if p.URL == "" {
			return
		}
		switch enc.version() {
		case types.V21:
			f.params.Add("VALUE", "URL")
		case types.V30:
			f.params.Add("VALUE", "uri")
		}
		f.values = []string{p.URL}
		enc.write(f)
		return
	}

	if enc.version() == types.V40 {
		mime := p.MIMEType
		if mime == "" {
			mime = "application/octet-stream"
		}
		f.values = []string{"data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.Data)}
		enc.write(f)
		return
	}

	if token := types.FormatToken(p.MIMEType); token != "" {
		f.params.Add("TYPE", token)
	}
	f.data = p.Data
	enc.write(f)
}

// agent writes a nested vCard. vCard 2.1 nests the block itself, the
// later dialects carry it as an escaped text value.
func (enc *encoder) agent(raw string) {
	if enc.version() == types.V21 && strings.HasPrefix(strings.ToUpper(raw), "BEGIN:VCARD") {
		enc.raw("AGENT:")
		for l := range strings.Lines(raw) {
			enc.raw(strings.TrimRight(l, "\r\n"))
		}
		return
	}
	enc.text("AGENT", raw)
}

func (enc *encoder) extension(p types.Property) {
	// Undecodable values, and values written in the dialect they were read
	// in, go back out exactly as they came in.
	verbatim := p.DecodeErr != nil ||
		(p.Encoded != "" && p.Bytes == nil && p.Dialect == enc.version())
	if verbatim {
		value := p.Encoded
		if value == "" {
			value = p.RawValue
		}
		var b strings.Builder
		enc.header(&b, p.Groups, p.Name, p.Params)
		b.WriteByte(':')
		b.WriteString(value)
		if strings.Contains(value, "\r\n") {
			// Quoted-printable soft breaks are kept as read.
			enc.raw(b.String())
			return
		}
		enc.raw(enc.fold(b.String()))
		return
	}

	f := field{groups: p.Groups, name: p.Name, params: p.Params}
	switch {
	case p.Bytes != nil:
		f.data = p.Bytes
	case p.Values != nil:
		f.values = p.Values
	default:
		f.values = []string{p.RawValue}
	}
	enc.write(f)
}

// write encodes and emits one property.
func (enc *encoder) write(f field) {
	params := f.params.Without("ENCODING", "CHARSET")
	var value string
	qp := false

	switch {
	case f.data != nil:
		value = base64.StdEncoding.EncodeToString(f.data)
		if enc.version() == types.V21 {
			params.Add("ENCODING", "BASE64")
		} else {
			params.Add("ENCODING", "b")
		}
	default:
		value = decode.JoinComponents(f.values, enc.rules)
		if enc.version() == types.V21 && needsQuotedPrintable(value) {
			data, charset := enc.encodeCharset(value)
			params.Add("ENCODING", "QUOTED-PRINTABLE")
			if !isASCII(value) {
				params.Add("CHARSET", charset)
			}
			value = decode.EncodeQuotedPrintable(data)
			qp = true
		}
	}

	var b strings.Builder
	enc.header(&b, f.groups, f.name, params)
	b.WriteByte(':')
	b.WriteString(value)

	switch {
	case qp:
		// Quoted-printable output is already broken into soft lines.
		enc.raw(b.String())
	case f.data != nil && enc.version() == types.V21:
		// Base64 blocks are read up to the blank line, whitespace ignored.
		enc.raw(fold(b.String()))
		enc.raw("")
	default:
		enc.raw(enc.fold(b.String()))
	}
}

// fold breaks line the way the dialect being written unfolds it.
func (enc *encoder) fold(line string) string {
	if enc.rules.FoldKeepsSpace {
		return foldAtSpace(line)
	}
	return fold(line)
}

// encodeCharset converts value to the configured charset, falling back to
// UTF-8 when the charset cannot represent it.
func (enc *encoder) encodeCharset(value string) ([]byte, string) {
	data, err := decode.FromUTF8(value, enc.charset)
	if err != nil {
		return []byte(value), "UTF-8"
	}
	return data, enc.charset
}

func (enc *encoder) header(b *strings.Builder, groups []string, name string, params types.Params) {
	for _, g := range groups {
		b.WriteString(g)
		b.WriteByte('.')
	}
	b.WriteString(name)

	for pname, values := range params.All() {
		if enc.version() == types.V21 {
			for _, v := range values {
				b.WriteByte(';')
				if pname == "TYPE" && dialect.IsKnownType(v) {
					b.WriteString(strings.ToUpper(v))
					continue
				}
				b.WriteString(pname)
				b.WriteByte('=')
				b.WriteString(strings.Map(dropParamDelims, v))
			}
			continue
		}

		b.WriteByte(';')
		b.WriteString(pname)
		b.WriteByte('=')
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(enc.paramValue(v))
		}
	}
}

// paramValue quotes a vCard 3.0/4.0 parameter value when needed.
func (enc *encoder) paramValue(v string) string {
	if enc.rules.CaretEscapes {
		v = caret(v)
	} else {
		v = strings.Map(func(r rune) rune {
			switch r {
			case '"':
				return '\''
			case '\r', '\n':
				return ' '
			}
			return r
		}, v)
	}
	if strings.ContainsAny(v, ":;,") {
		return `"` + v + `"`
	}
	return v
}

// caret applies RFC 6868 escapes.
func caret(s string) string {
	if !strings.ContainsAny(s, "^\"\n") {
		return s
	}
	r := strings.NewReplacer("^", "^^", "\"", "^'", "\r\n", "^n", "\n", "^n")
	return r.Replace(s)
}

// dropParamDelims removes characters vCard 2.1 parameter values cannot hold.
func dropParamDelims(r rune) rune {
	switch r {
	case ':', ';', '\r', '\n':
		return -1
	}
	return r
}

func (enc *encoder) raw(line string) {
	_, _ = enc.w.WriteString(line) //nolint:errcheck // Sticky in bufio.Writer, reported by Flush
	_, _ = enc.w.WriteString("\r\n")
}

func needsQuotedPrintable(s string) bool {
	return !isASCII(s) || strings.ContainsAny(s, "\r\n")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// fold breaks line into physical lines of at most maxLine octets. Every
// continuation starts with a single space.
func fold(line string) string {
	if len(line) <= maxLine {
		return line
	}

	var b strings.Builder
	width := maxLine
	for len(line) > width {
		cut := width
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		width = maxLine - 1
	}
	b.WriteString(line)
	return b.String()
}

// foldAtSpace breaks line before existing SPACE or TAB characters, which
// vCard 2.1 readers keep when unfolding. A line without whitespace is left
// long.
func foldAtSpace(line string) string {
	if len(line) <= maxLine {
		return line
	}

	var b strings.Builder
	for len(line) > maxLine {
		cut := strings.LastIndexAny(line[1:maxLine+1], " \t") + 1
		if cut == 0 {
			if cut = strings.IndexAny(line[1:], " \t") + 1; cut == 0 {
				break
			}
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n")
		line = line[cut:]
	}
	b.WriteString(line)
	return b.String()
}
