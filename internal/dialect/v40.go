package dialect

import "github.com/simonhull/vcard/internal/types"

func init() {
	register(Rules{
		Dialect:        types.V40,
		Quoting:        true,
		MultiValued:    true,
		CaretEscapes:   true,
		DefaultCharset: "UTF-8",
		Escapes:        textEscapes,
		Encodings:      binaryEncodings,
	})
}
