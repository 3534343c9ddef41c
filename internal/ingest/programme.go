package ingest

import (
	"io"
	"regexp"
	"strings"
	"time"

	"mariprog/internal/dates"
	"mariprog/internal/parser/csv"
	"mariprog/pkg/records"
)

// Programme column names.
const (
	ProgrammeHeaderMarker = "Week Comm"
	colFacility           = "Facility"
	colLocation           = "Location"
	colComments           = "Comments/Date"
)

var weekPattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)

// ParseProgramme reads the inspection programme. The header is the first row
// whose first cell is "Week Comm"; anything above it is ignored.
//
// Below the header, a row whose first cell is a D/M/Y date opens a week and is
// itself an inspection. A row with an empty first cell is a further inspection
// in the current week. Rows with any other first cell, and wholly blank rows,
// are skipped.
func ParseProgramme(r io.Reader, opt Options) ([]records.Inspection, error) {
	tab, err := readTable(r, opt,
		csv.Options{IsHeader: func(row []string) bool {
			return len(row) > 0 && strings.TrimSpace(row[0]) == ProgrammeHeaderMarker
		}},
		colFacility, colLocation, colComments)
	if err != nil {
		return nil, err
	}

	roster := make(map[string]struct{}, len(opt.roster()))
	for _, in := range opt.roster() {
		roster[in] = struct{}{}
	}
	var inspectorCols []string
	for _, c := range tab.Columns() {
		if _, ok := roster[c]; ok {
			inspectorCols = append(inspectorCols, c)
		}
	}

	var (
		out     []records.Inspection
		week    time.Time
		hasWeek bool
	)
	for _, row := range tab.Rows {
		if row.Blank() {
			continue
		}
		first := strings.TrimSpace(row.Cell(0))
		switch {
		case weekPattern.MatchString(first):
			w, err := dates.ParseProgrammeDate(first)
			if err != nil {
				return nil, rowErr(opt, row, ProgrammeHeaderMarker, err)
			}
			week, hasWeek = w, true
		case first == "":
			if !hasWeek {
				return nil, rowErr(opt, row, ProgrammeHeaderMarker, ErrOrphanRow)
			}
		default:
			continue
		}
		out = append(out, inspectionFromRow(row, week, inspectorCols))
	}
	return out, nil
}

func inspectionFromRow(row csv.Row, week time.Time, inspectorCols []string) records.Inspection {
	var present []string
	for _, c := range inspectorCols {
		if strings.TrimSpace(row.Get(c)) == "X" {
			present = append(present, c)
		}
	}
	return records.Inspection{
		WeekBeginning: week,
		Location:      strings.TrimSpace(row.Get(colLocation)),
		Facility:      strings.TrimSpace(row.Get(colFacility)),
		Inspectors:    present,
		Comments:      strings.TrimRight(row.Get(colComments), " \t\r\n"),
	}
}
