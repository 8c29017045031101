// Package unfold reconstructs logical vCard lines from physical lines.
//
// A physical line that starts with a SPACE or TAB continues the previous
// logical line. RFC 2426 and RFC 6350 remove that one whitespace character
// before the two are joined; vCard 2.1 folds at existing whitespace and
// keeps it, which the caller selects with KeepSpace. Deciding whether a
// logical line is complete requires looking at the next physical line, so
// the Reader keeps exactly one line of look-ahead.
//
// Some property values are continued differently. Quoted-printable values
// end a physical line with '=' and continue on the next line without any
// leading whitespace, and vCard 2.1 base64 blocks run until a blank line. The
// caller selects these behaviours per logical line through a ModeFunc.
package unfold

import (
	"bufio"
	"io"
	"strings"
)

// Mode selects how the next physical line may continue a logical line.
type Mode int

const (
	// ModeFold applies RFC folding only.
	ModeFold Mode = iota

	// ModeSoftBreak treats a trailing '=' as a quoted-printable soft line
	// break: the next physical line is appended verbatim after "\r\n" so the
	// value decoder can remove the break. Without a trailing '=' folding
	// applies as usual.
	ModeSoftBreak

	// ModeBlock appends following physical lines, trimmed, until a blank
	// line (which is consumed) or a line containing ':' (which is not).
	ModeBlock

	// KeepSpace may be combined with any mode. Folded continuations then
	// keep their leading whitespace.
	KeepSpace Mode = 1 << 4
)

// ModeFunc inspects the logical line assembled so far and selects the Mode
// for the next physical line.
type ModeFunc func(logical string) Mode

// Line is one logical line.
type Line struct {
	Text   string
	Number int // Physical line number (1-based) where the logical line started
}

// Reader yields logical lines from an underlying reader.
//
// Reader is not safe for concurrent use.
type Reader struct {
	br   *bufio.Reader
	mode ModeFunc
	err  error // sticky error from the underlying reader

	peek    string
	peekNum int
	hasPeek bool

	num int // physical lines consumed from br
}

// NewReader returns a Reader over r. mode may be nil, in which case only
// RFC folding is applied.
func NewReader(r io.Reader, mode ModeFunc) *Reader {
	return &Reader{
		br:   bufio.NewReader(r),
		mode: mode,
	}
}

// Next returns the next logical line.
//
// At the end of input Next returns io.EOF. Errors from the underlying reader
// are returned unchanged, after any logical line already assembled.
func (r *Reader) Next() (Line, error) {
	first, num, err := r.take()
	if err != nil {
		return Line{}, err
	}

	var b strings.Builder
	b.WriteString(first)

	for {
		mode := ModeFold
		if r.mode != nil {
			mode = r.mode(b.String())
		}

		next, nextNum, err := r.take()
		if err != nil {
			// io.EOF or a read error: the current line is complete. A read
			// error stays sticky and is reported by the following call.
			break
		}

		switch mode &^ KeepSpace {
		case ModeSoftBreak:
			if strings.HasSuffix(b.String(), "=") {
				b.WriteString("\r\n")
				b.WriteString(next)
				continue
			}
		case ModeBlock:
			trimmed := strings.TrimSpace(next)
			if trimmed == "" {
				return Line{Text: b.String(), Number: num}, nil
			}
			if !strings.Contains(trimmed, ":") {
				b.WriteString(trimmed)
				continue
			}
			r.unread(next, nextNum)
			return Line{Text: b.String(), Number: num}, nil
		}

		if next != "" && (next[0] == ' ' || next[0] == '\t') {
			if mode&KeepSpace != 0 {
				b.WriteString(next)
			} else {
				b.WriteString(next[1:])
			}
			continue
		}

		r.unread(next, nextNum)
		break
	}

	return Line{Text: b.String(), Number: num}, nil
}

// LineNumber returns the number of physical lines consumed so far,
// excluding the look-ahead line.
func (r *Reader) LineNumber() int {
	if r.hasPeek {
		return r.peekNum - 1
	}
	return r.num
}

// take returns the look-ahead line if there is one, otherwise reads the
// next physical line.
func (r *Reader) take() (string, int, error) {
	if r.hasPeek {
		r.hasPeek = false
		return r.peek, r.peekNum, nil
	}
	if r.err != nil {
		return "", 0, r.err
	}

	s, err := r.br.ReadString('\n')
	if err != nil {
		r.err = err
		if s == "" {
			return "", 0, err
		}
	}
	r.num++

	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	if r.num == 1 {
		s = strings.TrimPrefix(s, "\ufeff")
	}
	return s, r.num, nil
}

// unread pushes a physical line back as the look-ahead line.
func (r *Reader) unread(s string, num int) {
	r.peek = s
	r.peekNum = num
	r.hasPeek = true
}
