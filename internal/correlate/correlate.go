// Package correlate joins inspections, sites and PFSA records on the
// facility name. Names match exactly after trimming; there is no case
// folding. None of the functions modify their inputs.
package correlate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mariprog/internal/dates"
	"mariprog/pkg/records"
)

// ErrUnparseableFrequency is returned by NextDueDate when a site's frequency
// target is not a whole number of months.
var ErrUnparseableFrequency = errors.New("unparseable frequency target")

// Correlate pairs each inspection with the first PFSA record, in file order,
// whose site name equals the inspection's facility. Inspections without a
// match are kept with Matched false. The output has one row per inspection,
// in input order.
func Correlate(inspections []records.Inspection, pfsa []records.PFSAExpiry) []records.PresentableInspection {
	byName := firstByName(pfsa)

	out := make([]records.PresentableInspection, 0, len(inspections))
	for _, in := range inspections {
		p := records.PresentableInspection{
			WeekBeginning: in.WeekBeginning,
			Location:      in.Location,
			Facility:      in.Facility,
			Inspectors:    strings.Join(in.Inspectors, "|"),
			Comments:      in.Comments,
		}
		if rec, ok := byName[strings.TrimSpace(in.Facility)]; ok {
			p.PFSAApproval = rec.Approval
			p.PFSAExpiry = rec.Expiry
			p.Matched = true
		}
		out = append(out, p)
	}
	return out
}

func firstByName(pfsa []records.PFSAExpiry) map[string]records.PFSAExpiry {
	m := make(map[string]records.PFSAExpiry, len(pfsa))
	for _, rec := range pfsa {
		name := strings.TrimSpace(rec.SiteName)
		if _, seen := m[name]; !seen {
			m[name] = rec
		}
	}
	return m
}

// InCurrentProgramme returns the week of the first inspection whose facility
// is the port's site name.
func InCurrentProgramme(port records.Port, inspections []records.Inspection) (time.Time, bool) {
	name := strings.TrimSpace(port.SiteName)
	for _, in := range inspections {
		if strings.TrimSpace(in.Facility) == name {
			return in.WeekBeginning, true
		}
	}
	return time.Time{}, false
}

// NextDueDate adds the port's frequency target, in months, to its last
// inspection date.
func NextDueDate(port records.Port) (time.Time, error) {
	months, ok := port.Months()
	if !ok {
		return time.Time{}, fmt.Errorf("%s: %w %q", port.SiteName, ErrUnparseableFrequency, port.FrequencyTarget)
	}
	return dates.AddMonths(port.LastInspection, months), nil
}

// CountForInspector returns how many inspections list initials as present.
func CountForInspector(inspections []records.Inspection, initials string) int {
	n := 0
	for _, in := range inspections {
		if in.HasInspector(initials) {
			n++
		}
	}
	return n
}

// Scheduled is a port that appears in the programme, with the week it is
// first listed under.
type Scheduled struct {
	Port records.Port
	Week time.Time
}

// ScheduledWeeks lists, in port order, the ports that appear in the programme.
func ScheduledWeeks(ports []records.Port, inspections []records.Inspection) []Scheduled {
	var out []Scheduled
	for _, p := range ports {
		if wk, ok := InCurrentProgramme(p, inspections); ok {
			out = append(out, Scheduled{Port: p, Week: wk})
		}
	}
	return out
}
