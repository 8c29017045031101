package vcard

import (
	"github.com/simonhull/vcard/internal/builder"
	"github.com/simonhull/vcard/internal/engine"
)

// SLogger is the logging interface the parser writes to.
//
// The [*slog.Logger] type satisfies it. By default nothing is logged.
type SLogger = engine.SLogger

// Option configures parsing.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	entries, err := vcard.Parse(r,
//	    vcard.WithDefaultCharset("Shift_JIS"),
//	    vcard.WithStrictDecoding(),
//	)
type Option func(*parseOptions)

// parseOptions holds configuration for parsing.
type parseOptions struct {
	logger         SLogger
	defaultCharset string  // Charset of 2.1 values without CHARSET
	dialect        Dialect // Forced dialect (DialectUnknown = autodetect)
	defaultDialect Dialect // Autodetect fallback before VERSION is seen
	strict         bool    // Abort on the first undecodable value
	generateUIDs   bool    // Give entries without UID a random one

	// Set when the caller chose a value explicitly, so ParseFile does not
	// replace it with a sniffed one.
	defaultDialectSet bool
	defaultCharsetSet bool
}

// defaultOptions returns the default configuration.
func defaultOptions() *parseOptions {
	return &parseOptions{
		logger:         engine.DiscardLogger(),
		defaultCharset: "UTF-8",
		dialect:        DialectUnknown,
		defaultDialect: V21,
	}
}

func applyOptions(opts []Option) *parseOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// engineConfig translates options into an engine configuration.
func (o *parseOptions) engineConfig() engine.Config {
	return engine.Config{
		Logger:         o.logger,
		DefaultCharset: o.defaultCharset,
		Dialect:        o.dialect,
		DefaultDialect: o.defaultDialect,
		Forced:         o.dialect.Valid(),
		Strict:         o.strict,
	}
}

func (o *parseOptions) builderOptions() []builder.Option {
	var opts []builder.Option
	if o.generateUIDs {
		opts = append(opts, builder.WithGeneratedUIDs())
	}
	return opts
}

// WithDialect forces every entry to be parsed with the rules of d.
//
// By default the dialect is detected per entry from its VERSION property.
// A forced dialect wins over VERSION; VERSION values are still validated.
// Passing DialectUnknown restores detection.
//
// Example:
//
//	entries, err := vcard.Parse(r, vcard.WithDialect(vcard.V30))
func WithDialect(d Dialect) Option {
	return func(o *parseOptions) {
		o.dialect = d
	}
}

// WithDefaultDialect sets the rules used for an entry until its VERSION
// property is seen, and for entries without VERSION.
//
// Default is vCard 2.1, the most lenient dialect.
func WithDefaultDialect(d Dialect) Option {
	return func(o *parseOptions) {
		if d.Valid() {
			o.defaultDialect = d
			o.defaultDialectSet = true
		}
	}
}

// WithDefaultCharset sets the charset of vCard 2.1 values that carry no
// CHARSET parameter. vCard 3.0 and 4.0 values are always UTF-8.
//
// Default is UTF-8. Names are resolved like HTML encoding labels, so
// "Shift_JIS", "sjis" and "ISO-8859-1" all work.
func WithDefaultCharset(charset string) Option {
	return func(o *parseOptions) {
		o.defaultCharset = charset
		o.defaultCharsetSet = true
	}
}

// WithStrictDecoding makes the first undecodable property value fatal.
//
// By default such a property is still delivered, with its raw value and
// Property.DecodeErr set, and a warning is logged.
func WithStrictDecoding() Option {
	return func(o *parseOptions) {
		o.strict = true
	}
}

// WithLogger sends parser diagnostics to l.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	entries, err := vcard.Parse(r, vcard.WithLogger(logger))
func WithLogger(l SLogger) Option {
	return func(o *parseOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGeneratedUIDs gives every parsed entry without a UID property a
// random "urn:uuid:" UID. It applies to the functions that return entries.
func WithGeneratedUIDs() Option {
	return func(o *parseOptions) {
		o.generateUIDs = true
	}
}
