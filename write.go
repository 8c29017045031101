package vcard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/simonhull/vcard/internal/writer"
)

// Encode writes entries to w as vCard text.
//
// Each entry is written in the dialect it was read in unless WithVersion
// selects one; entries built in code default to vCard 3.0. Extension
// properties are written back with their groups and parameters.
//
// Example:
//
//	err := vcard.Encode(os.Stdout, entries, vcard.WithVersion(vcard.V40))
func Encode(w io.Writer, entries []*Entry, opts ...WriteOption) error {
	o := applyWriteOptions(opts)
	return writer.Encode(w, entries, o.writerConfig())
}

// WriteFile writes entries to path.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the output path. If any step fails, any partially written data is cleaned up.
//
// Options can be provided to customize write behavior:
//
//	err := vcard.WriteFile("contacts.vcf", entries,
//	    vcard.WithBackup(".bak"),
//	    vcard.WithValidation(),
//	)
func WriteFile(outputPath string, entries []*Entry, opts ...WriteOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := applyWriteOptions(opts)

	// Get original file's mod time if we need to preserve it
	var origModTime os.FileInfo
	if options.preserveModTime {
		info, err := os.Stat(outputPath)
		if err == nil {
			origModTime = info
		}
	}

	// Create temp file in same directory as output (for atomic rename)
	outputDir := filepath.Dir(outputPath)
	tempFile, err := os.CreateTemp(outputDir, ".vcard-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := writer.Encode(tempFile, entries, options.writerConfig()); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Handle backup option (rename original to backup before replace)
	if options.backupSuffix != "" {
		backupPath := outputPath + options.backupSuffix
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if options.preserveModTime && origModTime != nil {
		_ = os.Chtimes(outputPath, origModTime.ModTime(), origModTime.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := validateWrittenFile(outputPath, entries); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateWrittenFile re-parses the file and compares key fields.
func validateWrittenFile(path string, want []*Entry) error {
	got, err := ParseFile(path)
	if err != nil {
		return fmt.Errorf("re-parse: %w", err)
	}

	if len(got) != len(want) {
		return fmt.Errorf("entry count mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name.Family != want[i].Name.Family || got[i].Name.Given != want[i].Name.Given {
			return fmt.Errorf("entry %d: name mismatch: got %q, want %q", i, got[i].Name.Join(), want[i].Name.Join())
		}
		if len(got[i].Phones) != len(want[i].Phones) {
			return fmt.Errorf("entry %d: phone count mismatch: got %d, want %d", i, len(got[i].Phones), len(want[i].Phones))
		}
		if len(got[i].Emails) != len(want[i].Emails) {
			return fmt.Errorf("entry %d: email count mismatch: got %d, want %d", i, len(got[i].Emails), len(want[i].Emails))
		}
	}

	return nil
}
