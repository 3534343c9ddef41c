// Package ingest turns each of the five exports into typed records.
//
// Every parser decodes its input through charset, reads it into a
// header-keyed table, checks the required columns and then builds one record
// per relevant row. The first row that cannot be built aborts the pass with a
// *ParseError; there is no partial result.
package ingest

import (
	"bytes"
	"io"

	"mariprog/internal/charset"
	"mariprog/internal/parser/csv"
)

// DefaultRoster lists the inspector initials that may appear as programme columns.
var DefaultRoster = []string{"KS", "PN", "SP", "ML", "SC", "DS", "WW", "GE", "TL", "PD", "AO"}

// Options carries per-file settings shared by the parsers.
type Options struct {
	// Name labels the input in errors, usually the file name.
	Name string

	// Encoding selects how bytes are decoded. The zero value is charset.Auto.
	Encoding charset.Mode

	// Roster is the set of inspector initials recognised in the programme.
	// Nil means DefaultRoster. Other parsers ignore it.
	Roster []string

	// Decoded, when set, is told which encoding the input was read as.
	Decoded func(charset.Encoding)
}

func (o Options) roster() []string {
	if o.Roster == nil {
		return DefaultRoster
	}
	return o.Roster
}

// readTable decodes r, parses it and checks the required columns.
func readTable(r io.Reader, opt Options, popt csv.Options, required ...string) (*csv.Table, error) {
	text, enc, err := charset.ReadAll(r, opt.Encoding)
	if err != nil {
		return nil, &ParseError{File: opt.Name, Err: err}
	}
	if opt.Decoded != nil {
		opt.Decoded(enc)
	}
	tab, err := csv.NewParser(popt).Parse(bytes.NewReader(text))
	if err != nil {
		return nil, &ParseError{File: opt.Name, Err: err}
	}
	if err := tab.Require(required...); err != nil {
		return nil, &ParseError{File: opt.Name, Err: err}
	}
	return tab, nil
}

func rowErr(opt Options, row csv.Row, column string, err error) error {
	return &ParseError{File: opt.Name, Line: row.Line, Column: column, Err: err}
}
