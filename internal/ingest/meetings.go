package ingest

import (
	"io"
	"strings"

	"mariprog/internal/dates"
	"mariprog/internal/parser/csv"
	"mariprog/pkg/records"
)

const (
	colPSAName             = "PSA_Name"
	colMeetingDate         = "MeetingDate"
	colMeetingComments     = "Comments"
	colCommentsFromMeeting = "CommentsFromMeeting"
	colInspectors          = "Inspectors"
	colPSPReviewed         = "PSPReviewed"
	colPSRAReviewed        = "PSRAReviewed"
	colMinutesHeld         = "MinutesHeld"
)

// ParseMeetings reads the PSA meetings export. The three review flags must
// each read as a recognised boolean; the first that does not aborts the pass.
func ParseMeetings(r io.Reader, opt Options) ([]records.PSAMeeting, error) {
	tab, err := readTable(r, opt, csv.Options{},
		colPSAName, colMeetingDate, colPSO, colMeetingComments, colCommentsFromMeeting,
		colInspectors, colPSPReviewed, colPSRAReviewed, colMinutesHeld)
	if err != nil {
		return nil, err
	}

	out := make([]records.PSAMeeting, 0, len(tab.Rows))
	for _, row := range tab.Rows {
		when, err := dates.ParseStamp(row.Get(colMeetingDate))
		if err != nil {
			return nil, rowErr(opt, row, colMeetingDate, err)
		}
		m := records.PSAMeeting{
			PSA:                 strings.TrimSpace(row.Get(colPSAName)),
			Date:                when,
			PSO:                 strings.TrimSpace(row.Get(colPSO)),
			Comments:            strings.TrimSpace(row.Get(colMeetingComments)),
			CommentsFromMeeting: strings.TrimSpace(row.Get(colCommentsFromMeeting)),
			Inspectors:          strings.TrimSpace(row.Get(colInspectors)),
		}
		for _, f := range []struct {
			col string
			dst *bool
		}{
			{colPSPReviewed, &m.PSPReviewed},
			{colPSRAReviewed, &m.PSRAReviewed},
			{colMinutesHeld, &m.MinutesHeld},
		} {
			b, err := ParseBool(row.Get(f.col))
			if err != nil {
				return nil, rowErr(opt, row, f.col, err)
			}
			*f.dst = b
		}
		out = append(out, m)
	}
	return out, nil
}
