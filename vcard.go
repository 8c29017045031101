package vcard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/vcard/internal/builder"
	"github.com/simonhull/vcard/internal/detect"
)

// Parse reads every entry from r.
//
// Options can be provided to customize parsing behavior:
//
//	entries, err := vcard.Parse(r,
//	    vcard.WithDefaultCharset("Shift_JIS"),
//	    vcard.WithGeneratedUIDs(),
//	)
//
// Values that cannot be decoded do not fail the parse unless
// WithStrictDecoding is set; they are reported in Entry.Warnings.
//
// Each entry is read with the rules its VERSION property names. Parse does
// not guess from content: entries without VERSION, and the lines before it,
// use the default dialect (vCard 2.1 unless WithDefaultDialect says
// otherwise). ParseFile guesses the default from the first entry, and Sniff
// exposes the same guess for streams.
//
// Example:
//
//	entries, err := vcard.Parse(strings.NewReader(text))
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.DisplayName)
//	}
func Parse(r io.Reader, opts ...Option) ([]*Entry, error) {
	return ParseContext(context.Background(), r, opts...)
}

// ParseContext is Parse with cancellation through ctx.
func ParseContext(ctx context.Context, r io.Reader, opts ...Option) ([]*Entry, error) {
	return parse(ctx, r, applyOptions(opts))
}

func parse(ctx context.Context, r io.Reader, o *parseOptions) ([]*Entry, error) {
	b := builder.New(o.builderOptions()...)
	p := &Parser{opts: o}
	p.AddInterpreter(b)

	if err := p.ParseContext(ctx, r); err != nil {
		return nil, err
	}
	return b.Entries(), nil
}

// ParseFile reads every entry from the file at path.
//
// The file is read twice. The first pass sniffs the first entry to
// estimate its dialect and charset (see Sniff); the second parses with
// those as defaults. Explicit WithDefaultDialect and WithDefaultCharset
// options are left alone, and VERSION properties still take precedence.
//
// Example:
//
//	entries, err := vcard.ParseFile("contacts.vcf")
func ParseFile(path string, opts ...Option) ([]*Entry, error) {
	return parseFile(context.Background(), path, applyOptions(opts))
}

func parseFile(ctx context.Context, path string, o *parseOptions) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	det, err := Sniff(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if !o.defaultDialectSet {
		o.defaultDialect = det.Dialect
	}
	if !o.defaultCharsetSet && det.Charset != "" {
		o.defaultCharset = det.Charset
	}
	o.logger.Debug("vcard file sniffed", "path", path, "dialect", det.Dialect.String(),
		"source", det.Source.String(), "charset", det.Charset, "rule", det.Rule)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind file: %w", err)
	}

	entries, err := parse(ctx, f, o)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// ParseMany parses multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails, the remaining parses are cancelled and only the
// error is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	books, err := vcard.ParseMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i, entries := range books {
//		fmt.Printf("%s: %d contacts\n", paths[i], len(entries))
//	}
func ParseMany(ctx context.Context, paths ...string) ([][]*Entry, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([][]*Entry, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries, err := parseFile(ctx, path, defaultOptions())
			if err != nil {
				return err
			}

			results[i] = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of entries in r without building them.
func Count(r io.Reader, opts ...Option) (int, error) {
	c := NewCounter()
	p := NewParser(opts...)
	p.AddInterpreter(c)
	if err := p.Parse(r); err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Sniff estimates the dialect, exporting device and charset of r from its
// first entry. Reading stops after that entry.
//
// An explicit VERSION property always decides the dialect. Without one,
// vendor markers and dialect-specific properties are used, and vCard 2.1
// is assumed when nothing else matches.
func Sniff(r io.Reader) (Detection, error) {
	d := detect.New()
	p := NewParser(WithDefaultDialect(V21))
	stop := &firstEntry{parser: p}
	p.AddInterpreter(d)
	p.AddInterpreter(stop)

	if err := p.Parse(r); err != nil {
		var cancelled *CancellationError
		if !stop.seen || !errors.As(err, &cancelled) {
			return Detection{}, err
		}
	}
	return d.Estimate(), nil
}

// firstEntry cancels its parser once the first entry has ended.
type firstEntry struct {
	parser *Parser
	seen   bool
}

func (f *firstEntry) OnVCardStarted()               {}
func (f *firstEntry) OnVCardEnded()                 {}
func (f *firstEntry) OnEntryStarted()               {}
func (f *firstEntry) OnPropertyCreated(_ *Property) {}

func (f *firstEntry) OnEntryEnded() {
	f.seen = true
	f.parser.Cancel()
}
