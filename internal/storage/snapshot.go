package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mariprog/internal/dates"
	"mariprog/pkg/records"
)

// Snapshot table base names. The export prepends its table prefix.
const (
	SetInspections = "inspections"
	SetPorts       = "ports"
	SetPFSA        = "pfsa"
	SetMeetings    = "meetings"
	SetAssessments = "assessments"
)

// Every snapshot row starts with these columns.
var metaColumns = []Column{
	{Name: "run_id", Type: TypeText},
	{Name: "input_digest", Type: TypeText},
}

// Set is one loaded record set ready for export.
type Set struct {
	Name    string
	Columns []Column
	Digest  uint64 // xxh3 of the input file
	Rows    [][]any
}

// Snapshot is everything one run exports, tagged with the run's id.
type Snapshot struct {
	RunID uuid.UUID
	Sets  []Set
}

// InspectionSet builds the programme set.
func InspectionSet(in []records.Inspection, digest uint64) Set {
	rows := make([][]any, len(in))
	for i, r := range in {
		rows[i] = []any{r.WeekBeginning, r.Location, r.Facility, strings.Join(r.Inspectors, "|"), r.Comments}
	}
	return Set{
		Name: SetInspections,
		Columns: []Column{
			{Name: "week_beginning", Type: TypeDate},
			{Name: "location", Type: TypeText},
			{Name: "facility", Type: TypeText},
			{Name: "inspectors", Type: TypeText},
			{Name: "comments", Type: TypeText},
		},
		Digest: digest,
		Rows:   rows,
	}
}

// PortSet builds the site dump set. An absent county is NULL.
func PortSet(ports []records.Port, digest uint64) Set {
	rows := make([][]any, len(ports))
	for i, p := range ports {
		var county any
		if p.County != nil {
			county = *p.County
		}
		rows[i] = []any{p.SiteName, county, p.LastInspection, p.FrequencyTarget, p.PFSICategory, p.SiteCategory}
	}
	return Set{
		Name: SetPorts,
		Columns: []Column{
			{Name: "site_name", Type: TypeText},
			{Name: "county", Type: TypeText, Nullable: true},
			{Name: "last_inspection", Type: TypeDate},
			{Name: "frequency_target", Type: TypeText},
			{Name: "pfsi_category", Type: TypeText},
			{Name: "site_category", Type: TypeText},
		},
		Digest: digest,
		Rows:   rows,
	}
}

// PFSASet builds the PFSA expiry set.
func PFSASet(pfsa []records.PFSAExpiry, digest uint64) Set {
	rows := make([][]any, len(pfsa))
	for i, p := range pfsa {
		rows[i] = []any{p.SiteName, p.Approval, p.Expiry}
	}
	return Set{
		Name: SetPFSA,
		Columns: []Column{
			{Name: "site_name", Type: TypeText},
			{Name: "approval", Type: TypeDate},
			{Name: "expiry", Type: TypeDate},
		},
		Digest: digest,
		Rows:   rows,
	}
}

// MeetingSet builds the PSA meetings set. A blank meeting date is NULL.
func MeetingSet(meetings []records.PSAMeeting, digest uint64) Set {
	rows := make([][]any, len(meetings))
	for i, m := range meetings {
		rows[i] = []any{
			m.PSA, stampValue(m.Date), m.PSO, m.Comments, m.CommentsFromMeeting, m.Inspectors,
			m.PSPReviewed, m.PSRAReviewed, m.MinutesHeld,
		}
	}
	return Set{
		Name: SetMeetings,
		Columns: []Column{
			{Name: "psa", Type: TypeText},
			{Name: "meeting_date", Type: TypeTimestamp, Nullable: true},
			{Name: "pso", Type: TypeText},
			{Name: "comments", Type: TypeText},
			{Name: "comments_from_meeting", Type: TypeText},
			{Name: "inspectors", Type: TypeText},
			{Name: "psp_reviewed", Type: TypeBool},
			{Name: "psra_reviewed", Type: TypeBool},
			{Name: "minutes_held", Type: TypeBool},
		},
		Digest: digest,
		Rows:   rows,
	}
}

// AssessmentSet builds the PSA scheduling aid set.
func AssessmentSet(as []records.PSAAssessment, digest uint64) Set {
	rows := make([][]any, len(as))
	for i, a := range as {
		rows[i] = []any{a.PSA, a.PSO, stampValue(a.Approval), stampValue(a.LastInspection), stampValue(a.DueInspection)}
	}
	return Set{
		Name: SetAssessments,
		Columns: []Column{
			{Name: "psa", Type: TypeText},
			{Name: "pso", Type: TypeText},
			{Name: "approval", Type: TypeTimestamp, Nullable: true},
			{Name: "last_inspection", Type: TypeTimestamp, Nullable: true},
			{Name: "due_inspection", Type: TypeTimestamp, Nullable: true},
		},
		Digest: digest,
		Rows:   rows,
	}
}

func stampValue(s dates.Stamp) any {
	if !s.Valid {
		return nil
	}
	return s.Time
}

// Exporter writes snapshots through a Repository.
type Exporter struct {
	Kind        string // selects the DDL builder
	TablePrefix string
	BatchSize   int // defaults to 1000
	Log         *zap.Logger
}

// Table returns the table a set is written to.
func (e Exporter) Table(s Set) Table {
	cols := make([]Column, 0, len(metaColumns)+len(s.Columns))
	cols = append(cols, metaColumns...)
	cols = append(cols, s.Columns...)
	return Table{Name: e.TablePrefix + s.Name, Columns: cols}
}

// Export creates any missing tables and appends every set's rows. It
// returns the number of rows written.
func (e Exporter) Export(ctx context.Context, repo Repository, snap Snapshot) (int64, error) {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	batch := e.BatchSize
	if batch <= 0 {
		batch = 1000
	}
	runID := snap.RunID.String()

	var total int64
	for _, s := range snap.Sets {
		t := e.Table(s)
		if err := EnsureTable(ctx, e.Kind, repo, t); err != nil {
			return total, err
		}

		digest := fmt.Sprintf("%016x", s.Digest)
		rows := make([][]any, len(s.Rows))
		for i, r := range s.Rows {
			row := make([]any, 0, len(r)+len(metaColumns))
			row = append(row, runID, digest)
			rows[i] = append(row, r...)
		}

		n, err := CopyBatches(ctx, t.ColumnNames(), rows, batch,
			func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
				return repo.CopyFrom(ctx, t.Name, cols, rows)
			}, log.With(zap.String("table", t.Name)))
		total += n
		if err != nil {
			return total, fmt.Errorf("export %s: %w", t.Name, err)
		}
		log.Info("exported set", zap.String("table", t.Name), zap.Int64("rows", n), zap.String("input_digest", digest))
	}
	return total, nil
}
