package report

import (
	"io"
	"sort"
	"strings"
	"time"

	"mariprog/internal/correlate"
	"mariprog/internal/dates"
	"mariprog/pkg/records"
)

// UnparseableMarker replaces the due date of a port whose frequency target
// is not a number of months.
const UnparseableMarker = "UNPARSEABLE FREQUENCY TARGET"

// PFSA statuses.
const (
	StatusExpired  = "EXPIRED"
	StatusExpiring = "EXPIRING"
	StatusOK       = "OK"
	StatusUnknown  = "UNKNOWN"
)

// Programme prints the correlated programme in file order.
func Programme(w io.Writer, rows []records.PresentableInspection) error {
	p := &printer{w: w}
	for _, r := range rows {
		p.linef("%s %-10s %-50s %-10s %-40s %s %s",
			dates.FormatDate(r.WeekBeginning), r.Location, r.Facility, r.Inspectors, r.Comments,
			r.ApprovalText(), r.ExpiryText())
	}
	return p.err
}

// Sites prints ports by last inspection date, oldest first.
func Sites(w io.Writer, ports []records.Port) error {
	sorted := append([]records.Port(nil), ports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastInspection.Before(sorted[j].LastInspection)
	})

	p := &printer{w: w}
	for _, s := range sorted {
		p.linef("%-60s --- %-20s %-10s %-10s %-5s %s",
			s.SiteName, s.CountyText(), s.PFSICategory, s.SiteCategory, s.FrequencyTarget,
			dates.FormatDate(s.LastInspection))
	}
	return p.err
}

// PortsDue prints each port's next due date and whether it is already in
// the programme. A port with an unparseable frequency target gets the
// UnparseableMarker instead of a date; the other lines still print.
func PortsDue(w io.Writer, ports []records.Port, inspections []records.Inspection) error {
	p := &printer{w: w}
	for _, port := range ports {
		dueText := UnparseableMarker + " (" + port.FrequencyTarget + ")"
		if due, err := correlate.NextDueDate(port); err == nil {
			dueText = dates.FormatDate(due)
		}

		prog := "not in programme"
		if wk, ok := correlate.InCurrentProgramme(port, inspections); ok {
			prog = "in programme w/c " + dates.FormatDate(wk)
		}
		p.linef("%-60s -- Next inspection due: %s - %s.", port.SiteName, dueText, prog)
	}
	return p.err
}

// PFSAExpiry prints PFSA records by expiry date, earliest first, with a
// status relative to asOf. Records expiring within warn of asOf are
// EXPIRING; a blank expiry is UNKNOWN.
func PFSAExpiry(w io.Writer, pfsa []records.PFSAExpiry, asOf time.Time, warn time.Duration) error {
	sorted := append([]records.PFSAExpiry(nil), pfsa...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Expiry.Before(sorted[j].Expiry)
	})

	p := &printer{w: w}
	for _, r := range sorted {
		p.linef("%-50s %s %s %s",
			r.SiteName, dates.FormatDate(r.Approval), dates.FormatDate(r.Expiry), pfsaStatus(r.Expiry, asOf, warn))
	}
	return p.err
}

func pfsaStatus(expiry, asOf time.Time, warn time.Duration) string {
	switch {
	case expiry.Equal(dates.Sentinel):
		return StatusUnknown
	case expiry.Before(asOf):
		return StatusExpired
	case expiry.Before(asOf.Add(warn)):
		return StatusExpiring
	default:
		return StatusOK
	}
}

// Meetings prints meetings held strictly after the cutoff, oldest first.
// Meetings without a date are left out. The last column is the attending
// inspectors, or the meeting comments when comments is set.
func Meetings(w io.Writer, meetings []records.PSAMeeting, after time.Time, comments bool) error {
	var kept []records.PSAMeeting
	for _, m := range meetings {
		if m.Date.After(after) {
			kept = append(kept, m)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	p := &printer{w: w}
	for _, m := range kept {
		last := m.Inspectors
		if comments {
			last = m.Comments
		}
		p.linef("%s %-20s %s", m.Date, m.PSA, last)
	}
	return p.err
}

// Assessments prints PSAs by due inspection, earliest first. PSAs with no
// due date sort ahead of the rest.
func Assessments(w io.Writer, assessments []records.PSAAssessment) error {
	sorted := append([]records.PSAAssessment(nil), assessments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueInspection.Before(sorted[j].DueInspection)
	})

	p := &printer{w: w}
	for _, a := range sorted {
		p.linef("%-32s %-30s due: %s", a.PSA, a.PSO, a.DueInspection)
	}
	return p.err
}

// InspectorCounts prints how many programme inspections each roster member
// is marked on, in roster order.
func InspectorCounts(w io.Writer, inspections []records.Inspection, roster []string) error {
	p := &printer{w: w}
	for _, initials := range roster {
		p.linef("%s:  %d", initials, correlate.CountForInspector(inspections, initials))
	}
	return p.err
}

// Scheduled prints each port that appears in the programme with the week it
// is listed under.
func Scheduled(w io.Writer, ports []records.Port, inspections []records.Inspection) error {
	p := &printer{w: w}
	for _, s := range correlate.ScheduledWeeks(ports, inspections) {
		p.linef("%s %s", strings.TrimSpace(s.Port.SiteName), dates.FormatDate(s.Week))
	}
	return p.err
}
