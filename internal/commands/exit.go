package commands

import (
	"errors"

	"github.com/simonhull/vcard"
)

// Exit codes
const (
	ExitSuccess   = 0
	ExitFailure   = 1 // I/O and other errors
	ExitUsage     = 2 // Bad flags, arguments or config
	ExitBadInput  = 3 // The vCard data could not be parsed
	ExitCancelled = 4
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// classify attaches an exit code to err unless it already has one.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		coded     *exitError
		decode    *vcard.EncodingDecodeError
		cancelled *vcard.CancellationError
	)
	switch {
	case errors.As(err, &coded):
		return err
	case vcard.IsStructural(err), errors.As(err, &decode):
		return exitWithCode(ExitBadInput, err)
	case errors.As(err, &cancelled):
		return exitWithCode(ExitCancelled, err)
	default:
		return exitWithCode(ExitFailure, err)
	}
}
