// Package detect estimates which dialect, charset and exporting device
// produced a vCard stream.
//
// The Detector is an Interpreter. It looks at property names and parameters
// only, so it can run alongside any other interpreter or on its own during
// a cheap first pass over the input.
package detect

import (
	"strings"

	"github.com/simonhull/vcard/internal/types"
)

// Source identifies the kind of device or application that exported a vCard.
type Source int

const (
	SourceGeneric        Source = iota // No vendor markers
	SourceApple                        // macOS / iOS Contacts
	SourceDocomo                       // NTT docomo handsets
	SourceJapaneseMobile               // Other Japanese feature phones
	SourceWindowsMobile                // Windows Mobile / Outlook
)

// String returns a short name for the source.
func (s Source) String() string {
	switch s {
	case SourceApple:
		return "apple"
	case SourceDocomo:
		return "docomo"
	case SourceJapaneseMobile:
		return "japanese-mobile"
	case SourceWindowsMobile:
		return "windows-mobile"
	default:
		return "generic"
	}
}

// Detection is the estimate for one entry.
type Detection struct {
	// Charset the 2.1 values are most likely written in, "" when nothing
	// points at a specific one.
	Charset string

	// Rule names the rule that decided Dialect.
	Rule string

	Dialect types.Dialect
	Source  Source
}

// Rule names.
const (
	RuleVersion        = "version"
	RuleApple          = "apple"
	RuleDocomo         = "docomo"
	RuleJapaneseMobile = "japanese-mobile"
	RuleWindowsMobile  = "windows-mobile"
	RuleV40Features    = "4.0-features"
	RuleV30Features    = "3.0-features"
	RuleV21Features    = "2.1-features"
	RuleDefault        = "default"
)

// Properties that only exist in vCard 4.0 (RFC 6350).
var v40Properties = map[string]bool{
	"KIND":         true,
	"GENDER":       true,
	"ANNIVERSARY":  true,
	"XML":          true,
	"LANG":         true,
	"CLIENTPIDMAP": true,
	"MEMBER":       true,
	"RELATED":      true,
	"FBURL":        true,
	"CALADRURI":    true,
	"CALURI":       true,
}

// Parameters that only exist in vCard 4.0.
var v40Params = []string{"PID", "PREF", "ALTID", "CALSCALE", "SORT-AS", "MEDIATYPE", "GEO", "TZ"}

// Properties introduced by vCard 3.0 (RFC 2426) and dropped in 4.0.
var v30Properties = map[string]bool{
	"NAME":        true,
	"PROFILE":     true,
	"SORT-STRING": true,
	"CLASS":       true,
}

// evidence is what one entry revealed.
type evidence struct {
	version types.Dialect
	charset string

	apple, docomo, japanese, windows bool
	v40, v30, v21                    bool
}

// Detector collects a Detection per entry.
type Detector struct {
	current    *evidence
	detections []Detection
}

var _ types.Interpreter = (*Detector)(nil)

// New returns an empty Detector.
func New() *Detector {
	return &Detector{}
}

// OnVCardStarted implements types.Interpreter.
func (d *Detector) OnVCardStarted() {}

// OnVCardEnded implements types.Interpreter.
func (d *Detector) OnVCardEnded() {}

// OnEntryStarted implements types.Interpreter.
func (d *Detector) OnEntryStarted() {
	d.current = &evidence{}
}

// OnEntryEnded implements types.Interpreter.
func (d *Detector) OnEntryEnded() {
	if d.current == nil {
		return
	}
	d.detections = append(d.detections, d.current.decide())
	d.current = nil
}

// OnPropertyCreated implements types.Interpreter.
func (d *Detector) OnPropertyCreated(p *types.Property) {
	if d.current != nil {
		d.current.observe(p)
	}
}

// Detections returns one Detection per finished entry.
func (d *Detector) Detections() []Detection {
	return d.detections
}

// Estimate returns the detection for the whole stream: that of the first
// entry, or the 2.1 default when no entry was seen.
func (d *Detector) Estimate() Detection {
	if len(d.detections) == 0 {
		return Detection{Dialect: types.V21, Rule: RuleDefault}
	}
	return d.detections[0]
}

func (ev *evidence) observe(p *types.Property) {
	name := p.Name

	switch {
	case name == "VERSION":
		if v, err := types.ParseDialect(strings.TrimSpace(p.RawValue)); err == nil && ev.version == types.DialectUnknown {
			ev.version = v
		}
	case strings.HasPrefix(name, "X-PHONETIC-"), strings.HasPrefix(name, "X-AB"):
		ev.apple = true
	case strings.HasPrefix(name, "X-SD-"), strings.HasPrefix(name, "X-DCM-"):
		ev.docomo = true
	case name == "X-GNO", name == "X-GN", name == "X-REDUCTION":
		ev.japanese = true
	case strings.HasPrefix(name, "X-MICROSOFT-"):
		ev.windows = true
	case v40Properties[name]:
		ev.v40 = true
	case v30Properties[name]:
		ev.v30 = true
	}

	for _, param := range v40Params {
		if p.Params.Contains(param) {
			ev.v40 = true
		}
	}

	switch p.Encoding() {
	case "QUOTED-PRINTABLE", "BASE64":
		ev.v21 = true
	case "B":
		ev.v30 = true
	}
	if cs := p.Param("CHARSET"); cs != "" {
		ev.v21 = true
		if ev.charset == "" {
			ev.charset = strings.ToUpper(cs)
		}
	}
}

// decide applies the rules in priority order.
func (ev *evidence) decide() Detection {
	det := Detection{Charset: ev.charset}

	switch {
	case ev.apple:
		det.Source = SourceApple
	case ev.docomo:
		det.Source = SourceDocomo
	case ev.japanese:
		det.Source = SourceJapaneseMobile
	case ev.windows:
		det.Source = SourceWindowsMobile
	}
	if (det.Source == SourceDocomo || det.Source == SourceJapaneseMobile) && det.Charset == "" {
		det.Charset = "SHIFT_JIS"
	}

	switch {
	case ev.version.Valid():
		det.Dialect, det.Rule = ev.version, RuleVersion
	case det.Source == SourceApple:
		det.Dialect, det.Rule = types.V30, RuleApple
	case det.Source == SourceDocomo:
		det.Dialect, det.Rule = types.V21, RuleDocomo
	case det.Source == SourceJapaneseMobile:
		det.Dialect, det.Rule = types.V21, RuleJapaneseMobile
	case det.Source == SourceWindowsMobile:
		det.Dialect, det.Rule = types.V21, RuleWindowsMobile
	case ev.v40:
		det.Dialect, det.Rule = types.V40, RuleV40Features
	case ev.v30:
		det.Dialect, det.Rule = types.V30, RuleV30Features
	case ev.v21:
		det.Dialect, det.Rule = types.V21, RuleV21Features
	default:
		det.Dialect, det.Rule = types.V21, RuleDefault
	}
	return det
}
