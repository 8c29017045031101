package types

import "strings"

// LabelType is the closed set of labels attached to phones, emails,
// addresses and other typed items.
type LabelType int

const (
	LabelOther LabelType = iota // OTHER
	LabelHome                   // HOME
	LabelWork                   // WORK
	LabelCell                   // CELL
	LabelFax                    // FAX
)

// String returns the upper-case label name.
func (t LabelType) String() string {
	switch t {
	case LabelHome:
		return "HOME"
	case LabelWork:
		return "WORK"
	case LabelCell:
		return "CELL"
	case LabelFax:
		return "FAX"
	default:
		return "OTHER"
	}
}

// Label classifies a typed item. Custom holds the raw label text when Type is
// LabelOther and the source named something outside the closed set.
type Label struct {
	Custom string
	Type   LabelType
}

// String returns the label name, or the custom text for OTHER labels.
func (l Label) String() string {
	if l.Type == LabelOther && l.Custom != "" {
		return l.Custom
	}
	return l.Type.String()
}

// qualifiers are TYPE values that refine a label without naming one.
var qualifiers = map[string]bool{
	"PREF":     true,
	"VOICE":    true,
	"INTERNET": true,
	"X400":     true,
	"MSG":      true,
	"DOM":      true,
	"INTL":     true,
	"POSTAL":   true,
	"PARCEL":   true,
	"TEXT":     true,
}

// ParseLabel derives a Label from TYPE parameter values.
//
// FAX wins over CELL, CELL over HOME, HOME over WORK, so "WORK,FAX" is a fax
// line. PREF marks the item primary. The first value that is neither a known
// label nor a qualifier is kept verbatim as an OTHER label; an "X-" prefix is
// stripped from it.
func ParseLabel(typeValues []string) (label Label, primary bool) {
	var home, work, cell, fax bool
	custom := ""
	for _, v := range typeValues {
		switch u := strings.ToUpper(strings.TrimSpace(v)); {
		case u == "HOME":
			home = true
		case u == "WORK":
			work = true
		case u == "CELL", u == "MOBILE":
			cell = true
		case u == "FAX":
			fax = true
		case u == "PREF":
			primary = true
		case u == "" || qualifiers[u]:
		default:
			if custom == "" {
				custom = v
				if len(custom) > 2 && strings.EqualFold(custom[:2], "X-") {
					custom = custom[2:]
				}
			}
		}
	}

	switch {
	case fax:
		label.Type = LabelFax
	case cell:
		label.Type = LabelCell
	case home:
		label.Type = LabelHome
	case work:
		label.Type = LabelWork
	default:
		label.Custom = custom
	}
	return label, primary
}
