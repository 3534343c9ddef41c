// Package app runs the selected reports over one Dataset and, when
// configured, exports the loaded records as a snapshot.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mariprog/internal/charset"
	"mariprog/internal/config"
	"mariprog/internal/correlate"
	"mariprog/internal/ingest"
	"mariprog/internal/metrics"
	"mariprog/internal/report"
	"mariprog/internal/storage"
	"mariprog/pkg/records"
)

// Test seams.
var (
	newRepositoryFn = storage.New
	newRunID        = uuid.New
	now             = time.Now
)

type runner struct {
	cfg        config.Config
	ds         *Dataset
	log        *zap.Logger
	after      time.Time
	asOf       time.Time
	dupsLogged bool
}

// Run prints cfg.Reports in order to out and then exports the snapshot if
// cfg.Export is enabled. The first failure stops the run; reports already
// written stay written.
func Run(ctx context.Context, cfg config.Config, out io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	mode, err := charset.ParseMode(cfg.Inputs.Encoding)
	if err != nil {
		return err
	}
	after, err := cfg.Meetings.AfterDate()
	if err != nil {
		return err
	}
	asOf, err := cfg.PFSA.AsOfDate(now())
	if err != nil {
		return err
	}

	loader := &ingest.Loader{
		Job:      cfg.Job,
		Encoding: mode,
		Roster:   cfg.Roster,
		Log:      log,
	}
	r := &runner{
		cfg:   cfg,
		ds:    NewDataset(loader, cfg.Inputs),
		log:   log,
		after: after,
		asOf:  asOf,
	}

	for _, name := range cfg.Reports {
		if err := r.runReport(ctx, name, out); err != nil {
			return fmt.Errorf("report %s: %w", name, err)
		}
	}

	if cfg.Export.Enabled() {
		start := time.Now()
		err := r.export(ctx)
		metrics.RecordStep(cfg.Job, "export", err, time.Since(start))
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

// runReport loads the inputs of one report, then writes its banner and body
// to out. Nothing is written when an input fails to load.
func (r *runner) runReport(ctx context.Context, name string, out io.Writer) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(r.cfg.Job, "report_"+name, err, time.Since(start)) }()

	body, err := r.prepare(ctx, name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.Banner(&buf, name); err != nil {
		return err
	}
	if err := body(&buf); err != nil {
		return err
	}
	lines := bytes.Count(buf.Bytes(), []byte{'\n'}) - 1
	if _, err := out.Write(buf.Bytes()); err != nil {
		return err
	}
	metrics.RecordReport(r.cfg.Job, name, int64(lines))
	r.log.Debug("report written", zap.String("report", name), zap.Int("lines", lines))
	return nil
}

// prepare loads what report name needs and returns the function that prints it.
func (r *runner) prepare(ctx context.Context, name string) (func(io.Writer) error, error) {
	ds := r.ds
	switch name {
	case report.NameProgramme:
		ins, err := ds.Inspections(ctx)
		if err != nil {
			return nil, err
		}
		pfsa, err := r.pfsa(ctx)
		if err != nil {
			return nil, err
		}
		rows := correlate.Correlate(ins, pfsa)
		return func(w io.Writer) error { return report.Programme(w, rows) }, nil

	case report.NameSites:
		ports, err := ds.Ports(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.Sites(w, ports) }, nil

	case report.NameDue:
		ports, err := ds.Ports(ctx)
		if err != nil {
			return nil, err
		}
		ins, err := ds.Inspections(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range ports {
			if _, err := correlate.NextDueDate(p); err != nil {
				r.log.Warn("port has no usable frequency target", zap.String("site", p.SiteName), zap.Error(err))
			}
		}
		return func(w io.Writer) error { return report.PortsDue(w, ports, ins) }, nil

	case report.NamePFSA:
		pfsa, err := r.pfsa(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.PFSAExpiry(w, pfsa, r.asOf, r.cfg.PFSA.Warn()) }, nil

	case report.NameMeetings:
		ms, err := ds.Meetings(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.Meetings(w, ms, r.after, r.cfg.Meetings.Comments) }, nil

	case report.NameAssessments:
		as, err := ds.Assessments(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.Assessments(w, as) }, nil

	case report.NameInspectors:
		ins, err := ds.Inspections(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.InspectorCounts(w, ins, r.cfg.Roster) }, nil

	case report.NameScheduled:
		ports, err := ds.Ports(ctx)
		if err != nil {
			return nil, err
		}
		ins, err := ds.Inspections(ctx)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return report.Scheduled(w, ports, ins) }, nil

	default:
		return nil, fmt.Errorf("unknown report %q", name)
	}
}

// pfsa loads the PFSA export and logs duplicated site names once.
func (r *runner) pfsa(ctx context.Context) ([]records.PFSAExpiry, error) {
	pfsa, err := r.ds.PFSA(ctx)
	if err != nil || r.dupsLogged {
		return pfsa, err
	}
	r.dupsLogged = true

	names := make([]string, len(pfsa))
	for i, p := range pfsa {
		names[i] = p.SiteName
	}
	for _, n := range correlate.DuplicateSiteNames(names) {
		r.log.Warn("PFSA site name appears more than once; the first row is used", zap.String("site", n))
	}
	return pfsa, nil
}

func (r *runner) export(ctx context.Context) error {
	e := r.cfg.Export
	repo, err := newRepositoryFn(ctx, storage.Config{Kind: e.Kind, DSN: e.DSN})
	if err != nil {
		return err
	}
	defer repo.Close()

	snap := r.ds.Snapshot(newRunID())
	exp := storage.Exporter{Kind: e.Kind, TablePrefix: e.TablePrefix, Log: r.log}
	n, err := exp.Export(ctx, repo, snap)
	if err != nil {
		return err
	}
	metrics.RecordRow(r.cfg.Job, "exported", n)
	r.log.Info("snapshot exported",
		zap.String("kind", e.Kind),
		zap.String("run_id", snap.RunID.String()),
		zap.Int("sets", len(snap.Sets)),
		zap.Int64("rows", n))
	return nil
}
