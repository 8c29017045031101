package decode

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/types"
)

func prop(name, raw string, params ...string) *types.Property {
	p := &types.Property{Name: name, RawValue: raw, Line: 4}
	for i := 0; i+1 < len(params); i += 2 {
		p.Params.Add(params[i], params[i+1])
	}
	return p
}

func TestProperty_PlainText(t *testing.T) {
	tests := []struct {
		name       string
		dialect    types.Dialect
		raw        string
		wantRaw    string
		wantValues []string
	}{
		{"30 escapes", types.V30, `a\,b\;c\\d\ne\Nf`, "a,b;c\\d\ne\nf", []string{"a,b;c\\d\ne\nf"}},
		{"30 components", types.V30, `Doe;John\;Jr;;;`, "Doe;John;Jr;;;", []string{"Doe", "John;Jr", "", "", ""}},
		{"21 comma not escaped", types.V21, `a\,b`, `a\,b`, []string{`a\,b`}},
		{"21 newline not escaped", types.V21, `a\nb`, `a\nb`, []string{`a\nb`}},
		{"21 semicolon escaped", types.V21, `Doe\;Jr;John`, "Doe;Jr;John", []string{"Doe;Jr", "John"}},
		{"unknown escape kept", types.V40, `a\qb`, `a\qb`, []string{`a\qb`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := prop("NOTE", tc.raw)
			require.Nil(t, Property(p, dialect.For(tc.dialect), ""))
			assert.Equal(t, tc.wantRaw, p.RawValue)
			assert.Equal(t, tc.wantValues, p.Values)
			assert.Nil(t, p.Bytes)
			assert.NoError(t, p.DecodeErr)
		})
	}
}

func TestProperty_QuotedPrintable(t *testing.T) {
	p := prop("NOTE", "caf=C3=A9=\r\n au lait", "ENCODING", "QUOTED-PRINTABLE", "CHARSET", "UTF-8")
	require.Nil(t, Property(p, dialect.For(types.V21), ""))
	assert.Equal(t, "café au lait", p.RawValue)
}

func TestProperty_QuotedPrintableNotUnescaped(t *testing.T) {
	p := prop("NOTE", `C:\\dir=20a\;b`, "ENCODING", "QUOTED-PRINTABLE")
	require.Nil(t, Property(p, dialect.For(types.V21), ""))
	assert.Equal(t, `C:\\dir a\;b`, p.RawValue)
	assert.Equal(t, []string{`C:\\dir a\`, "b"}, p.Values)
}

func TestProperty_TransferEncodingKnown(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		enc     string
		wantErr bool
	}{
		{"21 8bit", types.V21, "8BIT", false},
		{"21 7bit", types.V21, "7bit", false},
		{"30 8bit", types.V30, "8BIT", true},
		{"40 unknown", types.V40, "X-FOO", true},
		{"21 unknown", types.V21, "X-FOO", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := prop("NOTE", `a\;b`, "ENCODING", tc.enc)
			err := Property(p, dialect.For(tc.dialect), "")
			if !tc.wantErr {
				require.Nil(t, err)
				assert.Equal(t, "a;b", p.RawValue)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, strings.ToUpper(tc.enc), err.Encoding)
			assert.Same(t, err, p.DecodeErr)
			assert.Equal(t, `a\;b`, p.RawValue)
		})
	}
}

func TestProperty_Charset21(t *testing.T) {
	// "山田" in Shift_JIS.
	p := prop("N", "=8E=52=93=63;", "ENCODING", "QUOTED-PRINTABLE", "CHARSET", "SHIFT_JIS")
	require.Nil(t, Property(p, dialect.For(types.V21), ""))
	assert.Equal(t, []string{"山田", ""}, p.Values)
}

func TestProperty_DefaultCharset21(t *testing.T) {
	p := prop("NOTE", "\xe9t\xe9")
	require.Nil(t, Property(p, dialect.For(types.V21), "ISO-8859-1"))
	assert.Equal(t, "été", p.RawValue)
}

func TestProperty_CharsetIgnoredOutside21(t *testing.T) {
	p := prop("NOTE", "été", "CHARSET", "ISO-8859-1")
	require.Nil(t, Property(p, dialect.For(types.V30), "SHIFT_JIS"))
	assert.Equal(t, "été", p.RawValue)
}

func TestProperty_Base64(t *testing.T) {
	for _, enc := range []string{"BASE64", "b"} {
		t.Run(enc, func(t *testing.T) {
			p := prop("PHOTO", " AAEC\r\n /f7/", "ENCODING", enc)
			require.Nil(t, Property(p, dialect.For(types.V30), ""))
			assert.Equal(t, []byte{0x00, 0x01, 0x02, 0xfd, 0xfe, 0xff}, p.Bytes)
			assert.Equal(t, "AAEC/f7/", p.RawValue)
		})
	}
}

func TestProperty_Base64MissingPadding(t *testing.T) {
	p := prop("PHOTO", "QUJDRA", "ENCODING", "BASE64")
	require.Nil(t, Property(p, dialect.For(types.V21), ""))
	assert.Equal(t, []byte("ABCD"), p.Bytes)
}

func TestProperty_Failures(t *testing.T) {
	tests := []struct {
		name     string
		p        *types.Property
		encoding string
	}{
		{"bad base64", prop("PHOTO", "!!!not base64!!!", "ENCODING", "BASE64"), "BASE64"},
		{"bad quoted-printable", prop("NOTE", "bad\x01byte", "ENCODING", "QUOTED-PRINTABLE"), "QUOTED-PRINTABLE"},
		{"unknown charset", prop("NOTE", "abc", "CHARSET", "X-NO-SUCH-CHARSET"), ""},
		{"unknown encoding", prop("NOTE", "abc", "ENCODING", "X-FOO"), "X-FOO"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := tc.p.RawValue
			err := Property(tc.p, dialect.For(types.V21), "")
			require.NotNil(t, err)

			var decodeErr *types.EncodingDecodeError
			require.True(t, errors.As(tc.p.DecodeErr, &decodeErr))
			assert.Equal(t, tc.encoding, decodeErr.Encoding)
			assert.Equal(t, tc.p.Name, decodeErr.Property)
			assert.Equal(t, 4, decodeErr.Line)
			assert.Equal(t, raw, tc.p.RawValue, "raw value must be kept")
			assert.Nil(t, tc.p.Bytes)
		})
	}
}

func TestQuotedPrintable_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	inputs := [][]byte{
		nil,
		[]byte("plain ascii"),
		[]byte("trailing space "),
		[]byte("line\r\nbreaks\nand\rreturns"),
		[]byte("= equals =3D and tabs\t"),
		bytes.Repeat([]byte("x"), 300), // forces soft line breaks
		bytes.Repeat([]byte("é "), 100),
	}
	for range 20 {
		b := make([]byte, rng.IntN(500))
		for i := range b {
			b[i] = byte(rng.IntN(256))
		}
		inputs = append(inputs, b)
	}

	for i, in := range inputs {
		encoded := EncodeQuotedPrintable(in)
		got, err := QuotedPrintable(encoded)
		require.NoError(t, err, "input %d", i)
		if !bytes.Equal(got, in) {
			t.Errorf("input %d: round trip mismatch\n got %q\nwant %q", i, got, in)
		}
	}

	encoded := EncodeQuotedPrintable(bytes.Repeat([]byte("x"), 300))
	assert.Contains(t, encoded, "=\r\n", "long input should contain soft line breaks")
}

func TestEscape_RoundTrip(t *testing.T) {
	for _, d := range []types.Dialect{types.V30, types.V40} {
		rules := dialect.For(d)
		for _, s := range []string{"a,b;c\\d", "multi\nline", "", `\n literal`} {
			if got := Unescape(Escape(s, rules), rules); got != s {
				t.Errorf("%v: Unescape(Escape(%q)) = %q", d, s, got)
			}
		}
	}
}

func TestJoinComponents(t *testing.T) {
	rules := dialect.For(types.V30)
	values := []string{"Doe", "John;Jr", "", "Dr.", ""}
	joined := JoinComponents(values, rules)
	assert.Equal(t, `Doe;John\;Jr;;Dr.;`, joined)
	assert.Equal(t, values, SplitComponents(joined, rules))
}

func TestCharsetRoundTrip(t *testing.T) {
	for _, cs := range []string{"UTF-8", "SHIFT_JIS", "ISO-8859-1", "windows-1252"} {
		t.Run(cs, func(t *testing.T) {
			const s = "Tanaka"
			b, err := FromUTF8(s, cs)
			require.NoError(t, err)
			got, err := ToUTF8(b, cs)
			require.NoError(t, err)
			assert.Equal(t, s, got)
			assert.True(t, KnownCharset(cs))
		})
	}
	assert.False(t, KnownCharset("X-NO-SUCH-CHARSET"))
}
