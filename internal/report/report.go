// Package report prints the fixed-width terminal reports. Every printer
// sorts a copy of its input, so callers' slices keep their order.
package report

import (
	"fmt"
	"io"
)

// Report names, in the order a run prints them by default.
const (
	NameProgramme   = "programme"
	NameSites       = "sites"
	NameDue         = "due"
	NamePFSA        = "pfsa"
	NameMeetings    = "meetings"
	NameAssessments = "assessments"
	NameInspectors  = "inspectors"
	NameScheduled   = "scheduled"
)

// Names lists every report in canonical order.
var Names = []string{
	NameProgramme, NameSites, NameDue, NamePFSA,
	NameMeetings, NameAssessments, NameInspectors, NameScheduled,
}

var titles = map[string]string{
	NameProgramme:   "Inspection programme",
	NameSites:       "Port sites by last inspection",
	NameDue:         "Port inspections due",
	NamePFSA:        "PFSA expiry",
	NameMeetings:    "PSA meetings",
	NameAssessments: "PSA assessments by due date",
	NameInspectors:  "Inspections per inspector",
	NameScheduled:   "Ports in the programme",
}

// Known reports whether name is a report this package can print.
func Known(name string) bool {
	_, ok := titles[name]
	return ok
}

// Title returns the banner title for a report name.
func Title(name string) string { return titles[name] }

// Banner writes the one-line heading printed above each report.
func Banner(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "== %s ==\n", Title(name))
	return err
}

// printer keeps the first write error so report bodies stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
