// Package vcard parses vCard 2.1, 3.0 and 4.0 contact data.
//
// The parser reads a byte stream one logical line at a time and reports
// what it finds to pluggable interpreters. It keeps only the current line
// and a little state, so with an interpreter that does not retain entries
// address books of any size are processed in bounded memory.
//
// # Quick Start
//
// Reading every contact from a file:
//
//	entries, err := vcard.ParseFile("contacts.vcf")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range entries {
//		fmt.Println(e.DisplayName)
//		for _, p := range e.Phones {
//			fmt.Printf("  %s: %s\n", p.Label, p.Number)
//		}
//	}
//
// # Dialects
//
//   - vCard 2.1: bare parameter tokens, CHARSET, quoted-printable and base64
//     blocks, the format of most phone exports
//   - vCard 3.0 (RFC 2426): NAME=value parameters, quoting, UTF-8
//   - vCard 4.0 (RFC 6350): as 3.0, plus RFC 6868 parameter escapes
//
// Each entry is parsed with the rules of its VERSION property. WithDialect
// forces one dialect for the whole stream, and WithDefaultDialect picks
// the rules used before VERSION is seen.
//
// # Architecture
//
// Parsing is a pipeline:
//
//	[Parser]                - BEGIN/END state machine, dialect selection
//	  ├─ line unfolding     - folded, quoted-printable and base64 continuations
//	  ├─ property splitting - group.NAME;PARAM=value:value
//	  └─ value decoding     - transfer encoding, charset, escapes
//	[Interpreter]           - receives entry and property events
//	  ├─ entry builder      - structured [Entry] values (Parse, ParseFile)
//	  ├─ [Counter]          - entry count (Count)
//	  └─ detector           - dialect and exporting device (Sniff)
//
// Custom interpreters receive the same events:
//
//	p := vcard.NewParser()
//	p.AddInterpreter(myInterpreter)
//	if err := p.Parse(r); err != nil {
//		return err
//	}
//
// # Error Handling
//
// Problems with the input abort the parse with a typed error
// (*MalformedLineError, *UnbalancedBeginEndError, *UnterminatedEntryError,
// *UnsupportedVersionError); IsStructural reports whether an error is one
// of these. I/O errors are returned unchanged. A value that cannot be
// decoded only fails the parse with WithStrictDecoding; otherwise the
// property is kept with Property.DecodeErr set and shows up in
// Entry.Warnings:
//
//	for _, w := range entry.Warnings {
//		log.Printf("Warning: %s", w)
//	}
//
// # Cancellation
//
// Parser.Cancel and ParseContext stop a parse before the next logical
// line. The interrupted parse returns a *CancellationError and no further
// events are delivered.
//
// # Writing
//
// Encode and WriteFile serialize entries in any dialect. WriteFile is
// atomic and can keep a backup of the file it replaces.
package vcard
