package document

import (
	"errors"
	"fmt"
)

// MalformedDocumentError is a fatal, whole-document failure: the text did not
// parse, or a required part of the layout is missing. When a required header
// key is missing, MissingKey names it.
type MalformedDocumentError struct {
	MissingKey string
	Err        error
}

func (e *MalformedDocumentError) Error() string {
	if e.MissingKey != "" {
		return fmt.Sprintf("malformed pipeline document: missing required key %q", e.MissingKey)
	}
	return fmt.Sprintf("malformed pipeline document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// FormatVersionError is a fatal, whole-document failure: the document declares
// a layout version newer than this reader supports.
type FormatVersionError struct {
	Declared     int
	MaxSupported int
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("pipeline document format version is %d, but this reader supports at most %d; upgrade to a newer release to load this document", e.Declared, e.MaxSupported)
}

// WriteError is an underlying storage or encoding failure while writing a
// document.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write pipeline document %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedDocumentError.
func IsMalformed(err error) bool {
	var e *MalformedDocumentError
	return errors.As(err, &e)
}

// IsFormatTooNew reports whether err is (or wraps) a FormatVersionError.
func IsFormatTooNew(err error) bool {
	var e *FormatVersionError
	return errors.As(err, &e)
}
