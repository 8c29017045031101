// Package engine drives the vCard BEGIN/END state machine.
//
// The engine pulls logical lines from the unfolder, splits and decodes
// each property, and pushes events to every registered interpreter on the
// calling goroutine. It keeps all mutable state in a value owned by a single
// Run call.
package engine

import (
	"errors"
	"io"
	"strings"

	"github.com/simonhull/vcard/internal/decode"
	"github.com/simonhull/vcard/internal/dialect"
	"github.com/simonhull/vcard/internal/line"
	"github.com/simonhull/vcard/internal/types"
	"github.com/simonhull/vcard/internal/unfold"
)

// Config controls one Run.
type Config struct {
	// Logger receives lifecycle and warning messages. Nil discards them.
	Logger SLogger

	// Cancelled is polled once per logical line. It reports whether the
	// parse must stop and, optionally, why. Nil never cancels.
	Cancelled func() (bool, error)

	// DefaultCharset applies to vCard 2.1 values without CHARSET.
	DefaultCharset string

	// Dialect is used for every entry when Forced is set. VERSION
	// properties are then validated but do not change the rules.
	Dialect types.Dialect

	// DefaultDialect is used until an entry's VERSION property is seen.
	// DialectUnknown means vCard 2.1.
	DefaultDialect types.Dialect

	Forced bool

	// Strict aborts the parse on the first property decode failure.
	Strict bool
}

type phase int

const (
	awaitingBegin phase = iota
	inEntry
	finished
	aborted
)

// state is the mutable parser state of one Run call.
type state struct {
	agent  *types.Property // AGENT waiting for a nested vCard
	nested strings.Builder // raw text of the nested vCard being collected

	phase   phase
	depth   int
	dialect types.Dialect
	fixed   bool // dialect fixed by configuration or VERSION

	beginLine int
	entries   int
	started   bool // OnVCardStarted emitted
}

type engine struct {
	log     SLogger
	interps []types.Interpreter
	cfg     Config
	st      state
}

// Run parses r and emits events to interps in order.
//
// Structural problems abort the run with a MalformedLineError,
// UnbalancedBeginEndError, UnterminatedEntryError or
// UnsupportedVersionError. Errors from r are returned unchanged.
func Run(r io.Reader, cfg Config, interps []types.Interpreter) error {
	e := &engine{
		cfg:     cfg,
		interps: interps,
		log:     cfg.Logger,
	}
	if e.log == nil {
		e.log = DiscardLogger()
	}
	if !e.cfg.DefaultDialect.Valid() {
		e.cfg.DefaultDialect = types.V21
	}

	e.log.Info("vcard parse started", "forced", e.cfg.Forced, "dialect", e.cfg.Dialect.String())
	err := e.run(r)
	if err != nil {
		e.st.phase = aborted
		var cancelled *types.CancellationError
		if errors.As(err, &cancelled) {
			e.log.Info("vcard parse cancelled", "line", cancelled.Line, "entries", e.st.entries)
		}
		return err
	}
	e.log.Info("vcard parse finished", "entries", e.st.entries)
	return nil
}

func (e *engine) run(r io.Reader) error {
	lines := unfold.NewReader(r, e.mode)

	for {
		if stop, cause := e.cancelled(); stop {
			return &types.CancellationError{Line: lines.LineNumber(), Cause: cause}
		}

		l, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return e.finish()
		}
		if err != nil {
			return err
		}

		if err := e.handle(l); err != nil {
			return err
		}
	}
}

func (e *engine) cancelled() (bool, error) {
	if e.cfg.Cancelled == nil {
		return false, nil
	}
	return e.cfg.Cancelled()
}

// handle advances the state machine by one logical line.
func (e *engine) handle(l unfold.Line) error {
	text := l.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}

	switch e.st.phase {
	case awaitingBegin:
		switch {
		case isBegin(text):
			e.beginEntry(l)
			return nil
		case isEnd(text):
			return &types.UnbalancedBeginEndError{Line: l.Number, Reason: "END:VCARD without BEGIN:VCARD"}
		case !strings.Contains(text, ":"):
			return &types.MalformedLineError{Line: l.Number, Text: text, Reason: "expected BEGIN:VCARD"}
		default:
			return &types.UnbalancedBeginEndError{Line: l.Number, Reason: "content before BEGIN:VCARD"}
		}

	case inEntry:
		if e.st.depth > 1 {
			e.nestedLine(l)
			return nil
		}
		switch {
		case isBegin(text):
			e.beginNested(l)
			return nil
		case isEnd(text):
			e.endEntry()
			return nil
		default:
			return e.property(l)
		}
	}

	return nil
}

func (e *engine) beginEntry(l unfold.Line) {
	e.st.phase = inEntry
	e.st.depth = 1
	e.st.beginLine = l.Number
	if e.cfg.Forced {
		e.st.dialect = e.cfg.Dialect
		e.st.fixed = true
	} else {
		e.st.dialect = e.cfg.DefaultDialect
		e.st.fixed = false
	}

	if !e.st.started {
		e.st.started = true
		for _, i := range e.interps {
			i.OnVCardStarted()
		}
	}
	e.log.Debug("vcard entry started", "line", l.Number)
	for _, i := range e.interps {
		i.OnEntryStarted()
	}
}

func (e *engine) endEntry() {
	e.flushAgent()
	e.st.phase = awaitingBegin
	e.st.depth = 0
	e.st.entries++
	e.log.Debug("vcard entry ended", "entry", e.st.entries, "dialect", e.st.dialect.String())
	for _, i := range e.interps {
		i.OnEntryEnded()
	}
}

func (e *engine) finish() error {
	if e.st.phase == inEntry {
		return &types.UnterminatedEntryError{Line: e.st.beginLine, Depth: e.st.depth}
	}
	e.st.phase = finished
	if e.st.started {
		for _, i := range e.interps {
			i.OnVCardEnded()
		}
	}
	return nil
}

// property splits, decodes and emits one property line.
func (e *engine) property(l unfold.Line) error {
	rules := dialect.For(e.st.dialect)
	p, err := line.Split(l.Text, l.Number, rules)
	if err != nil {
		return err
	}

	if p.Name == "VERSION" {
		d, err := types.ParseDialect(p.RawValue)
		if err != nil {
			var unsupported *types.UnsupportedVersionError
			if errors.As(err, &unsupported) {
				unsupported.Line = l.Number
			}
			return err
		}
		if !e.st.fixed {
			e.st.dialect = d
			e.st.fixed = true
			rules = dialect.For(d)
			p.Dialect = rules.Dialect
			e.log.Debug("vcard dialect fixed", "line", l.Number, "dialect", d.String())
		}
	}

	if derr := decode.Property(p, rules, e.cfg.DefaultCharset); derr != nil {
		if e.cfg.Strict {
			return derr
		}
		e.log.Warn("vcard property not decoded", "property", p.Name, "line", l.Number, "err", derr.Err)
	}

	e.flushAgent()
	if p.Name == "AGENT" && p.RawValue == "" && p.DecodeErr == nil {
		// The nested vCard usually follows on the next lines.
		e.st.agent = p
		return nil
	}
	e.emit(p)
	return nil
}

func (e *engine) emit(p *types.Property) {
	for _, i := range e.interps {
		i.OnPropertyCreated(p)
	}
}

// beginNested starts collecting a vCard embedded in the current entry.
func (e *engine) beginNested(l unfold.Line) {
	if e.st.agent == nil {
		e.st.agent = &types.Property{Name: "AGENT", Line: l.Number}
	}
	e.st.depth = 2
	e.st.nested.Reset()
	e.st.nested.WriteString(l.Text)
}

// nestedLine records one line of an embedded vCard. When the embedded
// block closes, its text becomes the value of the pending AGENT property.
func (e *engine) nestedLine(l unfold.Line) {
	e.st.nested.WriteString("\r\n")
	e.st.nested.WriteString(l.Text)

	switch {
	case isBegin(l.Text):
		e.st.depth++
	case isEnd(l.Text):
		e.st.depth--
	}
	if e.st.depth > 1 {
		return
	}

	agent := e.st.agent
	agent.RawValue = e.st.nested.String()
	agent.Values = []string{agent.RawValue}
	e.st.agent = nil
	e.st.nested.Reset()
	e.emit(agent)
}

// flushAgent emits an AGENT property that was not followed by a nested
// vCard.
func (e *engine) flushAgent() {
	if e.st.agent == nil || e.st.depth > 1 {
		return
	}
	agent := e.st.agent
	e.st.agent = nil
	e.emit(agent)
}

// mode selects how the unfolder continues the logical line being read.
func (e *engine) mode(logical string) unfold.Mode {
	m := e.baseMode(logical)
	if dialect.For(e.st.dialect).FoldKeepsSpace {
		m |= unfold.KeepSpace
	}
	return m
}

func (e *engine) baseMode(logical string) unfold.Mode {
	colon := strings.IndexByte(logical, ':')
	if colon < 0 {
		return unfold.ModeFold
	}
	head := strings.ToUpper(logical[:colon])
	if !strings.Contains(head, ";") {
		return unfold.ModeFold
	}
	if strings.Contains(head, decode.EncodingQuotedPrintable) {
		return unfold.ModeSoftBreak
	}
	if e.st.dialect == types.V21 {
		if strings.Contains(head, "BASE64") || strings.Contains(head, "ENCODING=B") {
			return unfold.ModeBlock
		}
	}
	return unfold.ModeFold
}

func isBegin(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "BEGIN:VCARD")
}

func isEnd(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "END:VCARD")
}
