package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"mariprog/internal/charset"
	"mariprog/internal/datasource"
	"mariprog/internal/datasource/file"
	"mariprog/internal/metrics"
	"mariprog/pkg/records"
)

// Input describes one export that a Loader has read.
type Input struct {
	Kind     string
	Path     string
	Digest   uint64 // xxh3 of the raw bytes
	Encoding charset.Encoding
	Records  int
}

// Loader opens exports and runs the matching parser over each. It remembers
// what it read so a run can report and export the provenance of its inputs.
type Loader struct {
	Job      string
	Encoding charset.Mode
	Roster   []string
	Log      *zap.Logger
	Open     datasource.Opener // nil reads the local filesystem

	inputs []Input
}

// Inputs returns the exports read so far, in read order.
func (l *Loader) Inputs() []Input {
	out := make([]Input, len(l.inputs))
	copy(out, l.inputs)
	return out
}

// Programme reads the inspection programme at path.
func (l *Loader) Programme(ctx context.Context, path string) ([]records.Inspection, error) {
	return load(ctx, l, "programme", path, ParseProgramme)
}

// Ports reads the site dump at path.
func (l *Loader) Ports(ctx context.Context, path string) ([]records.Port, error) {
	return load(ctx, l, "ports", path, ParsePorts)
}

// PFSA reads the PFSA expiry export at path.
func (l *Loader) PFSA(ctx context.Context, path string) ([]records.PFSAExpiry, error) {
	return load(ctx, l, "pfsa", path, ParsePFSA)
}

// Meetings reads the PSA meetings export at path.
func (l *Loader) Meetings(ctx context.Context, path string) ([]records.PSAMeeting, error) {
	return load(ctx, l, "meetings", path, ParseMeetings)
}

// Assessments reads the PSA scheduling aid at path.
func (l *Loader) Assessments(ctx context.Context, path string) ([]records.PSAAssessment, error) {
	return load(ctx, l, "assessments", path, ParseAssessments)
}

func (l *Loader) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

func load[T any](ctx context.Context, l *Loader, kind, path string, parse func(io.Reader, Options) ([]T, error)) (out []T, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(l.Job, "parse_"+kind, err, time.Since(start)) }()

	open := l.Open
	if open == nil {
		open = file.Opener
	}
	raw, err := file.ReadAll(ctx, open(path))
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}

	in := Input{Kind: kind, Path: path, Digest: xxh3.Hash(raw)}
	out, err = parse(bytes.NewReader(raw), Options{
		Name:     filepath.Base(path),
		Encoding: l.Encoding,
		Roster:   l.Roster,
		Decoded:  func(e charset.Encoding) { in.Encoding = e },
	})
	if err != nil {
		return nil, err
	}
	in.Records = len(out)
	l.inputs = append(l.inputs, in)

	metrics.RecordRow(l.Job, kind, int64(len(out)))
	log := l.logger().With(zap.String("input", kind), zap.String("path", path))
	if in.Encoding == charset.EncodingLatin1 && l.Encoding != charset.Latin1 {
		log.Warn("input is not valid utf-8; read as latin-1")
	}
	log.Debug("parsed input",
		zap.Int("records", len(out)),
		zap.String("encoding", string(in.Encoding)),
		zap.String("digest", fmt.Sprintf("%016x", in.Digest)),
		zap.Duration("took", time.Since(start)))
	return out, nil
}
