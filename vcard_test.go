package vcard_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/vcard"
)

func TestParse_JohnDoe(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:2.1\r\nN:Doe;John;;;\r\nFN:John Doe\r\nTEL;HOME:555-1234\r\nEND:VCARD\r\n"

	entries, err := vcard.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, vcard.V21, e.Dialect)
	assert.Equal(t, "John Doe", e.DisplayName)
	assert.Equal(t, vcard.Name{Family: "Doe", Given: "John", Formatted: "John Doe"}, e.Name)
	require.Len(t, e.Phones, 1)
	assert.Equal(t, "555-1234", e.Phones[0].Number)
	assert.Equal(t, vcard.LabelHome, e.Phones[0].Label.Type)
}

func TestParse_FoldedNote(t *testing.T) {
	entries, err := vcard.Parse(strings.NewReader("BEGIN:VCARD\nNOTE:Hello\n World\nEND:VCARD\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Hello World"}, entries[0].Notes)
}

func TestParse_EmptyInput(t *testing.T) {
	entries, err := vcard.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"unterminated", "BEGIN:VCARD\r\nFN:x\r\n", func(err error) bool {
			var target *vcard.UnterminatedEntryError
			return errors.As(err, &target)
		}},
		{"unbalanced", "END:VCARD\r\n", func(err error) bool {
			var target *vcard.UnbalancedBeginEndError
			return errors.As(err, &target)
		}},
		{"malformed", "BEGIN:VCARD\r\nno colon here\r\nEND:VCARD\r\n", func(err error) bool {
			var target *vcard.MalformedLineError
			return errors.As(err, &target)
		}},
		{"unsupported version", "BEGIN:VCARD\r\nVERSION:9.9\r\nEND:VCARD\r\n", func(err error) bool {
			var target *vcard.UnsupportedVersionError
			return errors.As(err, &target) && target.Version == "9.9"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := vcard.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, entries)
			assert.True(t, tt.check(err), "unexpected error %T: %v", err, err)
			assert.True(t, vcard.IsStructural(err))
		})
	}
}

func TestParse_StrictDecoding(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:x\r\nPHOTO;ENCODING=b:@@@\r\nEND:VCARD\r\n"

	entries, err := vcard.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries[0].Warnings, 1)

	_, err = vcard.Parse(strings.NewReader(input), vcard.WithStrictDecoding())
	var decodeErr *vcard.EncodingDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "PHOTO", decodeErr.Property)
}

func TestParse_BeginEndBalance(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			var b strings.Builder
			for i := range n {
				fmt.Fprintf(&b, "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Contact %d\r\n", i)
				if i%3 == 0 {
					b.WriteString("AGENT:\r\nBEGIN:VCARD\r\nFN:Nested\r\nEND:VCARD\r\n")
				}
				b.WriteString("END:VCARD\r\n")
			}

			entries, err := vcard.Parse(strings.NewReader(b.String()))
			require.NoError(t, err)
			assert.Len(t, entries, n)

			count, err := vcard.Count(strings.NewReader(b.String()))
			require.NoError(t, err)
			assert.Equal(t, n, count)
		})
	}
}

func TestParse_ForcedDialect(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:2.1\r\nNOTE:a\\,b\r\nEND:VCARD\r\n"

	entries, err := vcard.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{`a\,b`}, entries[0].Notes)

	entries, err = vcard.Parse(strings.NewReader(input), vcard.WithDialect(vcard.V30))
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b"}, entries[0].Notes)
}

func TestParse_GeneratedUIDs(t *testing.T) {
	entries, err := vcard.Parse(strings.NewReader("BEGIN:VCARD\r\nFN:x\r\nEND:VCARD\r\n"), vcard.WithGeneratedUIDs())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entries[0].UID, "urn:uuid:"))
}

func TestParseFile_Fixture(t *testing.T) {
	entries, err := vcard.ParseFile(filepath.Join("testdata", "john.vcf"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	john, jane := entries[0], entries[1]
	assert.Equal(t, "John Doe", john.DisplayName)
	assert.Equal(t, []string{"Grüße aus Berlin"}, john.Notes)
	custom := john.Extension("X-CUSTOM-FIELD")
	require.Len(t, custom, 1)
	assert.Equal(t, "some value", custom[0].RawValue)

	assert.Equal(t, vcard.V30, jane.Dialect)
	assert.Equal(t, []string{"Hello World"}, jane.Notes)
	assert.Equal(t, vcard.LabelFax, jane.Phones[0].Label.Type)
	assert.Equal(t, []string{"item1"}, jane.Extension("X-CUSTOM-FIELD")[0].Groups)
}

func TestParseFile_Base64Photo(t *testing.T) {
	entries, err := vcard.ParseFile(filepath.Join("testdata", "photo21.vcf"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	photo, ok := e.PrimaryPhoto()
	require.True(t, ok)
	assert.Equal(t, "image/gif", photo.MIMEType)
	require.Len(t, photo.Data, 554)

	sum := sha256.Sum256(photo.Data)
	assert.Equal(t, "330d03af7711b770348f414c2f6b0e34b4557b61bd1208df362a27deb5c7b98e", hex.EncodeToString(sum[:]))

	// The property after the base64 block is still parsed.
	require.Len(t, e.Emails, 1)
	assert.Equal(t, "john@example.com", e.Emails[0].Address)
}

func TestParseFile_SniffedCharset(t *testing.T) {
	path := filepath.Join("testdata", "docomo_sjis.vcf")

	entries, err := vcard.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "山田", entries[0].Name.Family)
	assert.Equal(t, "太郎", entries[0].Name.Given)
	assert.Equal(t, "山田太郎", entries[0].DisplayName)

	// An explicit default charset is not overridden.
	entries, err = vcard.ParseFile(path, vcard.WithDefaultCharset("UTF-8"))
	require.NoError(t, err)
	assert.NotEqual(t, "山田", entries[0].Name.Family)
}

func TestParseFile_QuotedParam40(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:x\r\n" +
		"ADR;LABEL=\"Apt 5; door code=12\":;;Main;;;;\r\n" +
		"END:VCARD\r\n"
	path := filepath.Join(t.TempDir(), "quoted.vcf")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))

	want, err := vcard.Parse(strings.NewReader(input))
	require.NoError(t, err)

	entries, err := vcard.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Addresses, 1)
	assert.Equal(t, "Apt 5; door code=12", entries[0].Addresses[0].Params.First("LABEL"))
	assert.Equal(t, want[0].Addresses, entries[0].Addresses)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := vcard.ParseFile("/nonexistent/contacts.vcf")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		dialect vcard.Dialect
		source  vcard.Source
		charset string
	}{
		{"version beats apple heuristics", "apple30.vcf", vcard.V30, vcard.SourceApple, ""},
		{"docomo", "docomo_sjis.vcf", vcard.V21, vcard.SourceDocomo, "SHIFT_JIS"},
		{"generic", "john.vcf", vcard.V21, vcard.SourceGeneric, "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := os.Open(filepath.Join("testdata", tt.file))
			require.NoError(t, err)
			defer f.Close()

			det, err := vcard.Sniff(f)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, det.Dialect)
			assert.Equal(t, tt.source, det.Source)
			assert.Equal(t, tt.charset, det.Charset)
			assert.Equal(t, "version", det.Rule)
		})
	}
}

func TestSniff_Heuristics(t *testing.T) {
	det, err := vcard.Sniff(strings.NewReader("BEGIN:VCARD\r\nX-PHONETIC-LAST-NAME:Doe\r\nEND:VCARD\r\n"))
	require.NoError(t, err)
	assert.Equal(t, vcard.V30, det.Dialect)
	assert.Equal(t, vcard.SourceApple, det.Source)

	det, err = vcard.Sniff(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, vcard.V21, det.Dialect)
}

func TestSniff_StopsAfterFirstEntry(t *testing.T) {
	// The second entry is broken but never reached.
	input := "BEGIN:VCARD\r\nVERSION:4.0\r\nEND:VCARD\r\nBEGIN:VCARD\r\nbroken\r\n"
	det, err := vcard.Sniff(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, vcard.V40, det.Dialect)
}

func TestParseDialect(t *testing.T) {
	for _, v := range []string{"2.1", "3.0", "4.0"} {
		d, err := vcard.ParseDialect(v)
		require.NoError(t, err)
		assert.Equal(t, v, d.String())
	}

	_, err := vcard.ParseDialect("5.0")
	var unsupported *vcard.UnsupportedVersionError
	require.ErrorAs(t, err, &unsupported)
}
