package dialect

import "github.com/simonhull/vcard/internal/types"

func init() {
	register(Rules{
		Dialect:        types.V30,
		Quoting:        true,
		MultiValued:    true,
		DefaultCharset: "UTF-8",
		Escapes:        textEscapes,
		Encodings:      binaryEncodings,
	})
}

// binaryEncodings are the ENCODING values accepted after vCard 2.1. RFC 2426
// only defines "b"; BASE64 and QUOTED-PRINTABLE appear in real exports.
var binaryEncodings = map[string]bool{
	"B":                true,
	"BASE64":           true,
	"QUOTED-PRINTABLE": true,
}

// textEscapes is the RFC 2426 / RFC 6350 TEXT escape set.
var textEscapes = map[byte]string{
	';':  ";",
	',':  ",",
	'\\': "\\",
	'n':  "\n",
	'N':  "\n",
}
