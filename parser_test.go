package vcard

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventLog records events as strings.
type eventLog struct {
	events []string
}

func (l *eventLog) OnVCardStarted()               { l.events = append(l.events, "start") }
func (l *eventLog) OnVCardEnded()                 { l.events = append(l.events, "end") }
func (l *eventLog) OnEntryStarted()               { l.events = append(l.events, "entry") }
func (l *eventLog) OnEntryEnded()                 { l.events = append(l.events, "/entry") }
func (l *eventLog) OnPropertyCreated(p *Property) { l.events = append(l.events, p.Name+"="+p.RawValue) }

func contacts(n int) string {
	var b strings.Builder
	for range n {
		b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:x\r\nTEL:1\r\nEND:VCARD\r\n")
	}
	return b.String()
}

func TestParser_InterpretersSeeIdenticalEvents(t *testing.T) {
	a, b := &eventLog{}, &eventLog{}
	p := NewParser()
	p.AddInterpreter(a)
	p.AddInterpreter(b)

	require.NoError(t, p.Parse(strings.NewReader(contacts(2))))
	assert.Equal(t, []string{
		"start",
		"entry", "VERSION=3.0", "FN=x", "TEL=1", "/entry",
		"entry", "VERSION=3.0", "FN=x", "TEL=1", "/entry",
		"end",
	}, a.events)
	assert.Equal(t, a.events, b.events)
}

func TestParser_Reusable(t *testing.T) {
	c := NewCounter()
	p := NewParser()
	p.AddInterpreter(c)

	require.NoError(t, p.Parse(strings.NewReader(contacts(2))))
	require.NoError(t, p.Parse(strings.NewReader(contacts(3))))
	assert.Equal(t, 5, c.Count())
}

// gatedReader serves head, then blocks its second read until gate is
// closed and serves tail. blocked is closed once that read is waiting.
type gatedReader struct {
	head, tail []byte
	blocked    chan struct{}
	gate       chan struct{}
	reads      int
}

func (r *gatedReader) Read(b []byte) (int, error) {
	r.reads++
	switch r.reads {
	case 1:
		return copy(b, r.head), nil
	case 2:
		close(r.blocked)
		<-r.gate
		return copy(b, r.tail), nil
	}
	return 0, io.EOF
}

// eventCounter counts properties and finished entries.
type eventCounter struct {
	props atomic.Int32
	ended atomic.Int32
}

func (c *eventCounter) OnVCardStarted()               {}
func (c *eventCounter) OnVCardEnded()                 {}
func (c *eventCounter) OnEntryStarted()               {}
func (c *eventCounter) OnEntryEnded()                 { c.ended.Add(1) }
func (c *eventCounter) OnPropertyCreated(_ *Property) { c.props.Add(1) }

func TestParser_CancelWhileReading(t *testing.T) {
	r := &gatedReader{
		head:    []byte("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:A\r\nTEL:1\r\n"),
		tail:    []byte("EMAIL:a@example.com\r\nNOTE:x\r\nEND:VCARD\r\n"),
		blocked: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	c := &eventCounter{}
	p := NewParser()
	p.AddInterpreter(c)

	done := make(chan error, 1)
	go func() { done <- p.Parse(r) }()

	// The parser is now waiting for input with TEL still unfinished.
	<-r.blocked
	before := c.props.Load()
	p.Cancel()
	close(r.gate)
	err := <-done

	var cancelled *CancellationError
	require.ErrorAs(t, err, &cancelled)
	assert.Nil(t, cancelled.Cause)
	assert.Equal(t, int32(2), before)
	assert.LessOrEqual(t, c.props.Load()-before, int32(1))
	assert.Zero(t, c.ended.Load())
}

func TestParser_CancelIsSticky(t *testing.T) {
	l := &eventLog{}
	p := NewParser()
	p.AddInterpreter(l)
	p.Cancel()

	err := p.Parse(strings.NewReader(contacts(1)))
	var cancelled *CancellationError
	require.ErrorAs(t, err, &cancelled)
	assert.Equal(t, 0, cancelled.Line)
	assert.Empty(t, l.events)
}

func TestParser_CancelRace(t *testing.T) {
	// Run with -race: Cancel may be called while Parse runs.
	const n = 5000
	c := NewCounter()
	p := NewParser()
	p.AddInterpreter(c)

	done := make(chan error, 1)
	go func() { done <- p.Parse(strings.NewReader(contacts(n))) }()
	p.Cancel()

	err := <-done
	if err == nil {
		// The parse finished before the flag was polled.
		assert.Equal(t, n, c.Count())
		return
	}
	var cancelled *CancellationError
	require.ErrorAs(t, err, &cancelled)
	assert.LessOrEqual(t, c.Count(), n)
}

func TestParser_ParseContext(t *testing.T) {
	cause := errors.New("shutting down")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	p := NewParser()
	err := p.ParseContext(ctx, strings.NewReader(contacts(1)))

	var cancelled *CancellationError
	require.ErrorAs(t, err, &cancelled)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsStructural(err))

	// The parser itself was not cancelled.
	require.NoError(t, p.Parse(strings.NewReader(contacts(1))))
}

func TestParser_ReadErrorUnchanged(t *testing.T) {
	readErr := errors.New("connection reset")
	p := NewParser()
	err := p.Parse(&errReader{err: readErr})
	assert.Same(t, readErr, err)
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }
