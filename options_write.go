package vcard

import (
	"github.com/simonhull/vcard/internal/writer"
)

// WriteOption configures how entries are written.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := vcard.WriteFile("out.vcf", entries,
//	    vcard.WithVersion(vcard.V21),
//	    vcard.WithBackup(".bak"),
//	)
type WriteOption func(*writeOptions)

// writeOptions holds configuration for writing.
type writeOptions struct {
	backupSuffix    string  // Suffix for backup file (e.g., ".bak")
	charset         string  // Charset for 2.1 quoted-printable values
	version         Dialect // Dialect to write (DialectUnknown = per entry)
	validate        bool    // Re-read after write to verify
	preserveModTime bool    // Keep original modification time
}

// defaultWriteOptions returns the default configuration for writing.
func defaultWriteOptions() *writeOptions {
	return &writeOptions{
		backupSuffix:    "",
		charset:         "UTF-8",
		version:         DialectUnknown,
		validate:        false,
		preserveModTime: false,
	}
}

func applyWriteOptions(opts []WriteOption) *writeOptions {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *writeOptions) writerConfig() writer.Config {
	return writer.Config{Charset: o.charset, Dialect: o.version}
}

// WithVersion writes every entry in dialect d.
//
// By default each entry keeps the dialect it was read in, and entries
// built in code are written as vCard 3.0.
//
// Example:
//
//	err := vcard.Encode(w, entries, vcard.WithVersion(vcard.V21))
func WithVersion(d Dialect) WriteOption {
	return func(o *writeOptions) {
		o.version = d
	}
}

// WithCharset sets the charset of non-ASCII vCard 2.1 values, which are
// written quoted-printable with a CHARSET parameter. Values the charset
// cannot represent fall back to UTF-8.
//
// Default is UTF-8. Later dialects are always written in UTF-8.
func WithCharset(charset string) WriteOption {
	return func(o *writeOptions) {
		o.charset = charset
	}
}

// WithBackup keeps the previous file before replacing it.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "contacts.vcf.bak"
// before replacing "contacts.vcf".
//
// If the backup file already exists, it will be overwritten.
//
// Example:
//
//	err := vcard.WriteFile("contacts.vcf", entries, vcard.WithBackup(".bak"))
//	// Previous file preserved as contacts.vcf.bak
func WithBackup(suffix string) WriteOption {
	return func(o *writeOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing to verify it.
//
// After writing, the file is parsed again and entry count, names, phone
// and email counts are compared with what was written. This adds overhead
// but provides confidence that the output reads back correctly.
func WithValidation() WriteOption {
	return func(o *writeOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the modification time of the file being
// replaced.
//
// Example:
//
//	err := vcard.WriteFile("contacts.vcf", entries, vcard.WithPreserveModTime())
//	// File modification time unchanged
func WithPreserveModTime() WriteOption {
	return func(o *writeOptions) {
		o.preserveModTime = true
	}
}
