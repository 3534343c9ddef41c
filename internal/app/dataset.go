package app

import (
	"context"

	"github.com/google/uuid"

	"mariprog/internal/config"
	"mariprog/internal/ingest"
	"mariprog/internal/storage"
	"mariprog/pkg/records"
)

// lazy memoises one load, including its error.
type lazy[T any] struct {
	done bool
	v    []T
	err  error
}

func (l *lazy[T]) get(load func() ([]T, error)) ([]T, error) {
	if !l.done {
		l.v, l.err = load()
		l.done = true
	}
	return l.v, l.err
}

// Dataset holds the record sets of one run. Each export is read the first
// time a report asks for it and reused after that.
type Dataset struct {
	loader *ingest.Loader
	inputs config.Inputs

	inspections lazy[records.Inspection]
	ports       lazy[records.Port]
	pfsa        lazy[records.PFSAExpiry]
	meetings    lazy[records.PSAMeeting]
	assessments lazy[records.PSAAssessment]
}

// NewDataset returns a Dataset reading the exports named by inputs.
func NewDataset(loader *ingest.Loader, inputs config.Inputs) *Dataset {
	return &Dataset{loader: loader, inputs: inputs}
}

// Inspections returns the inspection programme.
func (d *Dataset) Inspections(ctx context.Context) ([]records.Inspection, error) {
	return d.inspections.get(func() ([]records.Inspection, error) {
		return d.loader.Programme(ctx, d.inputs.Path(d.inputs.Programme))
	})
}

// Ports returns the Port rows of the site dump.
func (d *Dataset) Ports(ctx context.Context) ([]records.Port, error) {
	return d.ports.get(func() ([]records.Port, error) {
		return d.loader.Ports(ctx, d.inputs.Path(d.inputs.Dump))
	})
}

// PFSA returns the PFSA expiry rows in file order.
func (d *Dataset) PFSA(ctx context.Context) ([]records.PFSAExpiry, error) {
	return d.pfsa.get(func() ([]records.PFSAExpiry, error) {
		return d.loader.PFSA(ctx, d.inputs.Path(d.inputs.PFSA))
	})
}

// Meetings returns the PSA meetings.
func (d *Dataset) Meetings(ctx context.Context) ([]records.PSAMeeting, error) {
	return d.meetings.get(func() ([]records.PSAMeeting, error) {
		return d.loader.Meetings(ctx, d.inputs.Path(d.inputs.Meetings))
	})
}

// Assessments returns the PSA rows of the scheduling aid.
func (d *Dataset) Assessments(ctx context.Context) ([]records.PSAAssessment, error) {
	return d.assessments.get(func() ([]records.PSAAssessment, error) {
		return d.loader.Assessments(ctx, d.inputs.Path(d.inputs.Assessments))
	})
}

// Snapshot collects every set that loaded successfully, tagged with runID.
// Sets that were never read are left out.
func (d *Dataset) Snapshot(runID uuid.UUID) storage.Snapshot {
	digests := make(map[string]uint64)
	for _, in := range d.loader.Inputs() {
		digests[in.Kind] = in.Digest
	}

	snap := storage.Snapshot{RunID: runID}
	if ok(d.inspections) {
		snap.Sets = append(snap.Sets, storage.InspectionSet(d.inspections.v, digests["programme"]))
	}
	if ok(d.ports) {
		snap.Sets = append(snap.Sets, storage.PortSet(d.ports.v, digests["ports"]))
	}
	if ok(d.pfsa) {
		snap.Sets = append(snap.Sets, storage.PFSASet(d.pfsa.v, digests["pfsa"]))
	}
	if ok(d.meetings) {
		snap.Sets = append(snap.Sets, storage.MeetingSet(d.meetings.v, digests["meetings"]))
	}
	if ok(d.assessments) {
		snap.Sets = append(snap.Sets, storage.AssessmentSet(d.assessments.v, digests["assessments"]))
	}
	return snap
}

func ok[T any](l lazy[T]) bool { return l.done && l.err == nil }
