package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/vcard"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// inputs returns the named inputs, or stdin when args is empty.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}

// open returns a reader for name and a function releasing it.
func (a *App) open(name string) (io.Reader, func(), error) {
	if name == stdinName {
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Read-only file
}

// readEntries parses one input. Files are sniffed first (see
// vcard.ParseFile); standard input is read once with the configured
// defaults.
func (a *App) readEntries(ctx context.Context, name string) ([]*vcard.Entry, error) {
	if name != stdinName {
		return vcard.ParseFile(name, a.parseOptions()...)
	}
	return vcard.ParseContext(ctx, a.stdin, a.parseOptions()...)
}
