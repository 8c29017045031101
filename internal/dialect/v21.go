package dialect

import (
	"strings"

	"github.com/simonhull/vcard/internal/types"
)

func init() {
	register(Rules{
		Dialect:    types.V21,
		BareParams: true,
		Escapes: map[byte]string{
			';':  ";",
			'\\': "\\",
		},
		Encodings:      encodings21,
		HonorCharset:   true,
		FoldKeepsSpace: true,
	})
}

// encodings21 are the transfer encodings a bare vCard 2.1 token may name.
var encodings21 = map[string]bool{
	"7BIT":             true,
	"8BIT":             true,
	"QUOTED-PRINTABLE": true,
	"BASE64":           true,
	"B":                true,
}

// types21 are the TYPE tokens listed by the vCard 2.1 specification.
var types21 = map[string]bool{
	"DOM": true, "INTL": true, "POSTAL": true, "PARCEL": true,
	"HOME": true, "WORK": true, "PREF": true, "VOICE": true, "FAX": true,
	"MSG": true, "CELL": true, "PAGER": true, "BBS": true, "MODEM": true,
	"CAR": true, "ISDN": true, "VIDEO": true,
	"AOL": true, "APPLELINK": true, "ATTMAIL": true, "CIS": true,
	"EWORLD": true, "INTERNET": true, "IBMMAIL": true, "MCIMAIL": true,
	"POWERSHARE": true, "PRODIGY": true, "TLX": true, "X400": true,
	"GIF": true, "CGM": true, "WMF": true, "BMP": true, "MET": true,
	"PMB": true, "DIB": true, "PICT": true, "TIFF": true, "PDF": true,
	"PS": true, "JPEG": true, "QTIME": true, "MPEG": true, "MPEG2": true,
	"AVI": true, "WAVE": true, "AIFF": true, "PCM": true,
	"X509": true, "PGP": true,
}

// BareParamName returns the parameter a bare vCard 2.1 token stands for:
// ENCODING for transfer encodings, TYPE for everything else.
func BareParamName(token string) string {
	if encodings21[strings.ToUpper(token)] {
		return "ENCODING"
	}
	return "TYPE"
}

// IsKnownType reports whether token is a TYPE value defined by vCard 2.1.
func IsKnownType(token string) bool {
	return types21[strings.ToUpper(token)]
}
