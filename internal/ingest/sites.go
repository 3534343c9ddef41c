package ingest

import (
	"io"
	"strings"

	"mariprog/internal/dates"
	"mariprog/internal/parser/csv"
	"mariprog/pkg/records"
)

// Site dump, PFSA and scheduling aid column names.
const (
	colSiteName       = "SiteName"
	colCounty         = "County"
	colLastInspection = "DateOfLastInspection"
	colFrequency      = "FrequencyTarget"
	colSubCategory    = "SubCategoryDesc"
	colSiteCategory   = "SiteCategoryDesc"
	colSiteType       = "SiteTypeDesc"

	colPFSAApproval = "PFSA Approval"
	colPFSAExpiry   = "PFSA Expiry"

	colPSO           = "PSO"
	colPSAApproval   = "PortSecurityAssessmentApprovalDate"
	colInspectionDue = "DateInspectionDue"

	siteTypePort = "Port"
	siteTypePSA  = "PSA"
)

// ParsePorts reads the site dump and keeps rows whose site type is "Port".
// County is optional: when the column is absent every Port has a nil County.
func ParsePorts(r io.Reader, opt Options) ([]records.Port, error) {
	tab, err := readTable(r, opt, csv.Options{},
		colSiteName, colLastInspection, colFrequency, colSubCategory, colSiteCategory, colSiteType)
	if err != nil {
		return nil, err
	}
	hasCounty := tab.Has(colCounty)

	var out []records.Port
	for _, row := range tab.Rows {
		if strings.TrimSpace(row.Get(colSiteType)) != siteTypePort {
			continue
		}
		last, err := dates.DateOrSentinel(row.Get(colLastInspection))
		if err != nil {
			return nil, rowErr(opt, row, colLastInspection, err)
		}
		freq := strings.TrimSpace(row.Get(colFrequency))
		if freq == "" {
			freq = records.NoFrequency
		}
		p := records.Port{
			SiteName:        strings.TrimSpace(row.Get(colSiteName)),
			LastInspection:  last,
			FrequencyTarget: freq,
			PFSICategory:    strings.TrimSpace(row.Get(colSubCategory)),
			SiteCategory:    strings.TrimSpace(row.Get(colSiteCategory)),
		}
		if hasCounty {
			c := strings.TrimSpace(row.Get(colCounty))
			p.County = &c
		}
		out = append(out, p)
	}
	return out, nil
}

// ParsePFSA reads the PFSA expiry export in file order. Blank dates become
// dates.Sentinel.
func ParsePFSA(r io.Reader, opt Options) ([]records.PFSAExpiry, error) {
	tab, err := readTable(r, opt, csv.Options{}, colSiteName, colPFSAApproval, colPFSAExpiry)
	if err != nil {
		return nil, err
	}

	out := make([]records.PFSAExpiry, 0, len(tab.Rows))
	for _, row := range tab.Rows {
		approval, err := dates.DateOrSentinel(row.Get(colPFSAApproval))
		if err != nil {
			return nil, rowErr(opt, row, colPFSAApproval, err)
		}
		expiry, err := dates.DateOrSentinel(row.Get(colPFSAExpiry))
		if err != nil {
			return nil, rowErr(opt, row, colPFSAExpiry, err)
		}
		out = append(out, records.PFSAExpiry{
			SiteName: strings.TrimSpace(row.Get(colSiteName)),
			Approval: approval,
			Expiry:   expiry,
		})
	}
	return out, nil
}

// ParseAssessments reads the PSA scheduling aid and keeps rows whose site
// type is "PSA".
func ParseAssessments(r io.Reader, opt Options) ([]records.PSAAssessment, error) {
	tab, err := readTable(r, opt, csv.Options{},
		colSiteName, colPSO, colSiteType, colPSAApproval, colLastInspection, colInspectionDue)
	if err != nil {
		return nil, err
	}

	var out []records.PSAAssessment
	for _, row := range tab.Rows {
		if strings.TrimSpace(row.Get(colSiteType)) != siteTypePSA {
			continue
		}
		a := records.PSAAssessment{
			PSA: strings.TrimSpace(row.Get(colSiteName)),
			PSO: strings.TrimSpace(row.Get(colPSO)),
		}
		for _, f := range []struct {
			col string
			dst *dates.Stamp
		}{
			{colPSAApproval, &a.Approval},
			{colLastInspection, &a.LastInspection},
			{colInspectionDue, &a.DueInspection},
		} {
			s, err := dates.ParseStamp(row.Get(f.col))
			if err != nil {
				return nil, rowErr(opt, row, f.col, err)
			}
			*f.dst = s
		}
		out = append(out, a)
	}
	return out, nil
}
