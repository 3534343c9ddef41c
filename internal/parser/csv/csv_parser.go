// Package csv reads a whole CSV export into a header-keyed Table. The exports
// are small and consumed whole, so rows are held in memory and looked up by
// column index rather than streamed.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"mariprog/internal/charset"
)

var (
	// ErrMissingColumn is returned by Table.Require for an absent column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoHeader is returned when no row qualifies as the header.
	ErrNoHeader = errors.New("header row not found")
)

// Options configures the parser. The zero value reads a comma-separated file
// whose first row is the header.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// IsHeader selects the header row. Rows before it are discarded. When
	// nil, the first row is the header.
	IsHeader func(row []string) bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Table is a parsed export: a header and the rows that follow it.
type Table struct {
	header []string
	index  map[string]int
	Rows   []Row
}

// Row is one record with the 1-based line it started on.
type Row struct {
	Line  int
	Cells []string
	table *Table
}

// Parse reads every record from r. The reader is lenient about quoting and
// row width; width is not enforced because missing trailing cells read as "".
func (p *Parser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	t := &Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if t.header == nil {
			if p.opt.IsHeader != nil && !p.opt.IsHeader(rec) {
				continue
			}
			t.setHeader(rec)
			continue
		}
		cells := make([]string, len(rec))
		copy(cells, rec)
		t.Rows = append(t.Rows, Row{Line: line, Cells: cells, table: t})
	}
	if t.header == nil {
		return nil, ErrNoHeader
	}
	return t, nil
}

// Columns returns the normalised header names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Has reports whether the header contains name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns ErrMissingColumn naming the first absent column.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	return nil
}

func (t *Table) setHeader(rec []string) {
	t.header = make([]string, len(rec))
	t.index = make(map[string]int, len(rec))
	for i, col := range rec {
		c := charset.NormalizeHeader(col)
		t.header[i] = c
		// First occurrence wins for duplicated header names.
		if _, dup := t.index[c]; !dup && c != "" {
			t.index[c] = i
		}
	}
}

// Get returns the cell under column name, or "" when the column is absent
// or the row is short.
func (r Row) Get(name string) string {
	i, ok := r.table.index[name]
	if !ok {
		return ""
	}
	return r.Cell(i)
}

// Cell returns the cell at index i, or "" past the end of the row.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Blank reports whether every cell is empty after trimming.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
