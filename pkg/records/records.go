// Package records holds the typed rows built from each export. Values are
// built once by the ingest parsers and are not modified afterwards.
package records

import (
	"strconv"
	"strings"
	"time"

	"mariprog/internal/dates"
)

// NoFrequency is recorded when a site has no frequency target.
const NoFrequency = "XXXXX"

// Sentinels rendered in place of PFSA dates when an inspection has no PFSA record.
const (
	NoPFSAExpiry   = "NO PFSA EXPIRY DATA"
	NoPFSAApproval = "NO PFSA APPROVAL DATA"
)

// Inspection is one facility visit from the programme, under a week-beginning date.
type Inspection struct {
	WeekBeginning time.Time
	Location      string
	Facility      string
	Inspectors    []string
	Comments      string
}

// HasInspector reports whether initials are marked present for this inspection.
func (i Inspection) HasInspector(initials string) bool {
	for _, in := range i.Inspectors {
		if in == initials {
			return true
		}
	}
	return false
}

// PresentableInspection is an Inspection joined with its PFSA record, if any.
type PresentableInspection struct {
	WeekBeginning time.Time
	Location      string
	Facility      string
	Inspectors    string // "|"-joined initials
	Comments      string
	PFSAApproval  time.Time
	PFSAExpiry    time.Time
	Matched       bool
}

// ExpiryText renders the PFSA expiry, or NoPFSAExpiry when unmatched.
func (p PresentableInspection) ExpiryText() string {
	if !p.Matched {
		return NoPFSAExpiry
	}
	return dates.FormatDate(p.PFSAExpiry)
}

// ApprovalText renders the PFSA approval, or NoPFSAApproval when unmatched.
func (p PresentableInspection) ApprovalText() string {
	if !p.Matched {
		return NoPFSAApproval
	}
	return dates.FormatDate(p.PFSAApproval)
}

// Port is a site of type "Port" from the site dump.
type Port struct {
	SiteName        string
	County          *string // nil when the export has no County column
	LastInspection  time.Time
	FrequencyTarget string
	PFSICategory    string
	SiteCategory    string
}

// Months parses the frequency target. ok is false for NoFrequency or any
// other text that is not a whole number of months.
func (p Port) Months() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.FrequencyTarget))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// CountyText renders an absent county as "-".
func (p Port) CountyText() string {
	if p.County == nil {
		return "-"
	}
	return *p.County
}

// PFSAExpiry is one row of the PFSA expiry export.
type PFSAExpiry struct {
	SiteName string
	Approval time.Time
	Expiry   time.Time
}

// PSAMeeting is one row of the PSA meetings export.
type PSAMeeting struct {
	PSA                 string
	Date                dates.Stamp
	PSO                 string
	Comments            string
	CommentsFromMeeting string
	Inspectors          string
	PSPReviewed         bool
	PSRAReviewed        bool
	MinutesHeld         bool
}

// PSAAssessment is a site of type "PSA" from the scheduling aid export.
type PSAAssessment struct {
	PSA            string
	PSO            string
	Approval       dates.Stamp
	LastInspection dates.Stamp
	DueInspection  dates.Stamp
}
