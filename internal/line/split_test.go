package line

import (
	"errors"
	"testing"

	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/types"
)

func TestSplit(t *testing.T) {
	v21 := dialect.For(types.V21)
	v30 := dialect.For(types.V30)
	v40 := dialect.For(types.V40)

	tests := []struct {
		name  string
		text  string
		rules dialect.Rules
		check func(*types.Property) bool
	}{
		{"simple", "FN:John Doe", v30, func(p *types.Property) bool {
			return p.Name == "FN" && p.RawValue == "John Doe" && len(p.Groups) == 0
		}},
		{"name upper-cased", "fn:x", v30, func(p *types.Property) bool { return p.Name == "FN" }},
		{"groups", "item1.sub.TEL:555", v30, func(p *types.Property) bool {
			return p.Name == "TEL" && len(p.Groups) == 2 && p.Groups[0] == "item1" && p.Groups[1] == "sub"
		}},
		{"value keeps colons", "URL:http://example.com:8080/", v30, func(p *types.Property) bool {
			return p.RawValue == "http://example.com:8080/"
		}},
		{"empty value", "NOTE:", v30, func(p *types.Property) bool { return p.RawValue == "" }},
		{"21 bare type", "TEL;HOME;VOICE:555", v21, func(p *types.Property) bool {
			return p.Params.Has("TYPE", "HOME") && p.Params.Has("TYPE", "VOICE")
		}},
		{"21 bare encoding", "NOTE;QUOTED-PRINTABLE:=41", v21, func(p *types.Property) bool {
			return p.Encoding() == "QUOTED-PRINTABLE" && !p.Params.Contains("TYPE")
		}},
		{"21 unknown bare token is a type", "TEL;X-ASSISTANT:1", v21, func(p *types.Property) bool {
			return p.Params.Has("TYPE", "X-ASSISTANT")
		}},
		{"21 named param", "N;CHARSET=SHIFT_JIS;ENCODING=QUOTED-PRINTABLE:x", v21, func(p *types.Property) bool {
			return p.Param("CHARSET") == "SHIFT_JIS" && p.Encoding() == "QUOTED-PRINTABLE"
		}},
		{"21 quotes are literal", `X-A;FOO="a:b`, v21, func(p *types.Property) bool {
			return p.Param("FOO") == `"a` && p.RawValue == `b`
		}},
		{"30 multi values", "TEL;TYPE=work,voice;TYPE=pref:1", v30, func(p *types.Property) bool {
			return len(p.Params.Get("TYPE")) == 3 && p.Params.Has("type", "PREF")
		}},
		{"30 quoted value with separators", `X-A;LABEL="a;b:c,d":v`, v30, func(p *types.Property) bool {
			return p.Param("LABEL") == "a;b:c,d" && p.RawValue == "v"
		}},
		{"30 param name case-insensitive", "PHOTO;encoding=b;type=JPEG:AAA", v30, func(p *types.Property) bool {
			return p.IsBinary() && p.Param("TYPE") == "JPEG"
		}},
		{"40 caret escapes", `ADR;LABEL="Main St.^nSpringfield ^'HQ^' ^^":;;`, v40, func(p *types.Property) bool {
			return p.Param("LABEL") == "Main St.\nSpringfield \"HQ\" ^"
		}},
		{"21 tolerates spaces around params", "TEL; HOME :1", v21, func(p *types.Property) bool {
			return p.Params.Has("TYPE", "HOME")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Split(tc.text, 7, tc.rules)
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tc.text, err)
			}
			if p.Line != 7 {
				t.Errorf("Line = %d, want 7", p.Line)
			}
			if !tc.check(p) {
				t.Errorf("Split(%q) = %+v", tc.text, p)
			}
		})
	}
}

func TestSplit_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no colon", "JUSTTEXT"},
		{"empty name", ":value"},
		{"empty group", ".TEL:1"},
		{"bad name", "FULL NAME:x"},
		{"unterminated quote", `X-A;P="abc:def`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split(tc.text, 3, dialect.For(types.V30))
			var malformed *types.MalformedLineError
			if !errors.As(err, &malformed) {
				t.Fatalf("Split(%q) error = %v, want MalformedLineError", tc.text, err)
			}
			if malformed.Line != 3 {
				t.Errorf("Line = %d, want 3", malformed.Line)
			}
		})
	}
}

func TestSplit_BareParamRejectedOutside21(t *testing.T) {
	for _, d := range []types.Dialect{types.V30, types.V40} {
		t.Run(d.String(), func(t *testing.T) {
			_, err := Split("TEL;HOME:555", 9, dialect.For(d))
			var unsupported *types.UnsupportedVersionError
			if !errors.As(err, &unsupported) {
				t.Fatalf("error = %v, want UnsupportedVersionError", err)
			}
			if unsupported.Param != "HOME" || unsupported.Dialect != d || unsupported.Line != 9 {
				t.Errorf("error = %+v", unsupported)
			}
		})
	}
}

func TestSplit_StrayQuoteRejected(t *testing.T) {
	_, err := Split(`X-A;P=ab"c"d:v`, 1, dialect.For(types.V30))
	var unsupported *types.UnsupportedVersionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedVersionError", err)
	}
}
