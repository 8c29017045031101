package vcard

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/simonhull/vcard/internal/engine"
)

// Parser reads a vCard stream and reports it to its interpreters.
//
// A Parser may be reused for several streams, one at a time. Cancel is
// the only method that is safe to call concurrently with Parse.
type Parser struct {
	opts      *parseOptions
	interps   []Interpreter
	cancelled atomic.Bool
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	return &Parser{opts: applyOptions(opts)}
}

// AddInterpreter registers i. Interpreters receive every event in
// registration order.
func (p *Parser) AddInterpreter(i Interpreter) {
	p.interps = append(p.interps, i)
}

// Parse reads r to the end and emits events to the registered
// interpreters.
//
// Errors from r are returned unchanged. Problems with the input are
// reported as *MalformedLineError, *UnbalancedBeginEndError,
// *UnterminatedEntryError or *UnsupportedVersionError.
func (p *Parser) Parse(r io.Reader) error {
	return p.ParseContext(context.Background(), r)
}

// ParseContext is Parse with cancellation through ctx.
//
// When ctx is done the parse stops before the next logical line and a
// *CancellationError wrapping the context's cause is returned.
func (p *Parser) ParseContext(ctx context.Context, r io.Reader) error {
	cfg := p.opts.engineConfig()
	cfg.Cancelled = func() (bool, error) {
		if p.cancelled.Load() {
			return true, nil
		}
		if ctx.Err() != nil {
			return true, context.Cause(ctx)
		}
		return false, nil
	}
	return engine.Run(r, cfg, p.interps)
}

// Cancel stops a running parse at the next logical line. It may be called
// from any goroutine. Cancellation is sticky: later parses with this
// Parser fail immediately.
func (p *Parser) Cancel() {
	p.cancelled.Store(true)
}
