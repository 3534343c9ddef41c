package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognisedBool is returned for boolean text outside true/yes/false/no.
	ErrUnrecognisedBool = errors.New("unrecognised boolean")
	// ErrOrphanRow is returned for a programme continuation row seen before any week.
	ErrOrphanRow = errors.New("continuation row before first week")
)

// ParseError locates a failure within an export. Line is 0 for file-level
// failures such as a missing column or an undecodable file.
type ParseError struct {
	File   string
	Line   int
	Column string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }
