package decode

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"strings"
)

// QuotedPrintable decodes a quoted-printable value. Soft line breaks
// ("=" followed by CRLF or LF) are removed.
func QuotedPrintable(s string) ([]byte, error) {
	return io.ReadAll(quotedprintable.NewReader(strings.NewReader(s)))
}

// EncodeQuotedPrintable encodes data as quoted-printable with CRLF soft line
// breaks. Line terminators inside data are encoded, so the output decodes
// back to exactly data.
func EncodeQuotedPrintable(data []byte) string {
	var buf bytes.Buffer
	w := quotedprintable.NewWriter(&buf)
	w.Binary = true
	_, _ = w.Write(data) //nolint:errcheck // bytes.Buffer writes cannot fail
	_ = w.Close()        //nolint:errcheck // bytes.Buffer writes cannot fail
	return buf.String()
}

// Base64 decodes standard base64. Whitespace must already be removed.
// Missing padding is tolerated.
func Base64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
