package decode

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// isUTF8 reports whether charset needs no conversion.
func isUTF8(charset string) bool {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "", "UTF-8", "UTF8", "US-ASCII", "ASCII":
		return true
	}
	return false
}

func lookup(charset string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(charset))
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q", charset)
	}
	return enc, nil
}

// ToUTF8 converts data from charset to a UTF-8 string.
func ToUTF8(data []byte, charset string) (string, error) {
	if isUTF8(charset) {
		return string(data), nil
	}
	enc, err := lookup(charset)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("convert from %s: %w", charset, err)
	}
	return string(out), nil
}

// FromUTF8 converts a UTF-8 string to charset.
func FromUTF8(s, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return []byte(s), nil
	}
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("convert to %s: %w", charset, err)
	}
	return out, nil
}

// KnownCharset reports whether charset can be converted.
func KnownCharset(charset string) bool {
	if isUTF8(charset) {
		return true
	}
	_, err := lookup(charset)
	return err == nil
}
